package emulator

// DEMO_PROGRAM prints "Hi!" from data memory, in hex program format.
const DEMO_PROGRAM = `
F0FF        # .data
0048 0169   #   byte 0, 'H' / byte 1, 'i'
0221 030A   #   byte 2, '!' / byte 3, '\n'
0000        # end of data
0601 1100   # LD_REG_MEM r0, [r1], 0 / SYSCALL SYS_PUTC
0611 1100   # LD_REG_MEM r0, [r1], 1 / SYSCALL SYS_PUTC
0621 1100   # LD_REG_MEM r0, [r1], 2 / SYSCALL SYS_PUTC
0631 1100   # LD_REG_MEM r0, [r1], 3 / SYSCALL SYS_PUTC
0200 0100   # MOV_REG_IMM r0, 0 / SYSCALL SYS_EXIT
`
