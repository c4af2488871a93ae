// Package cpu implements the MISC register machine, its instruction codec,
// assembler and disassembler.
//
// The machine has sixteen 8-bit registers (r0-r15), 64 bytes of data memory
// and a byte addressed program counter. r15 mirrors the low byte of the
// program counter and cannot be written by instructions. Every instruction
// is one 16-bit little-endian word.
//
// State.Run executes until a syscall, a debug pause, the step budget or a
// fatal error, and records the reason in State.Interrupt. The host services
// syscalls and calls Run again to resume.
//
// The Assembler reads a small assembly language with labels, equates, a
// .data section for memory preloads, and compile-time $(...) expressions.
package cpu
