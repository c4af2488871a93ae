package internal

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Listing writes address-tagged lines to an output, keeping the first
// write error. Once an error is seen, nothing more is written.
type Listing struct {
	out   io.Writer
	Lines int   // Lines written so far.
	Err   error // First write error, naming the line and address.
}

// NewListing returns a Listing writing to out.
func NewListing(out io.Writer) *Listing {
	return &Listing{out: out}
}

// Line writes "ADDR:  text" for the location pc.
func (ls *Listing) Line(pc int, format string, args ...any) bool {
	return ls.write(pc, fmt.Sprintf("%04X:  ", pc)+format, args...)
}

// Cont writes a continuation line belonging to the location pc.
func (ls *Listing) Cont(pc int, format string, args ...any) bool {
	return ls.write(pc, "         "+format, args...)
}

func (ls *Listing) write(pc int, format string, args ...any) bool {
	if ls.Err != nil {
		return false
	}

	_, err := fmt.Fprintf(ls.out, format+"\n", args...)
	if err != nil {
		ls.Err = errors.Wrapf(err, "listing line %d at %04X", ls.Lines+1, pc)
		return false
	}

	ls.Lines++
	return true
}
