package vm

import (
	"fmt"
	"io"
	"strconv"
)

// Disassemble writes a human-readable listing of code[lo:hi] to out, one
// instruction per line, annotated with names where addr->name supplies a
// label for that address.
func Disassemble(out io.Writer, code []Opcode, lo, hi int, names map[int]string) {
	width := len(strconv.Itoa(hi))
	for addr := lo; addr < hi && addr < len(code); addr++ {
		if name, ok := names[addr]; ok {
			fmt.Fprintf(out, "%s:\n", name)
		}
		fmt.Fprintf(out, "  @%*d  %v\n", width, addr, code[addr])
	}
}
