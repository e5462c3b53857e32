package asm

import (
	"fmt"
	"io"
)

// Printer outputs x86-64 assembly in GNU `as` AT&T syntax, matching
// the layout original_source/x64_codegen.cpp's datagenX64/toX64
// produce: a .data section of zero-initialized globals and .asciz
// string constants, then a .text section with a _start entry that
// calls fun_main, followed by one fun_<name>: block per procedure.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintProgram outputs an entire program.
func (p *Printer) PrintProgram(prog *Program) {
	fmt.Fprintf(p.w, ".data\n")
	for _, g := range prog.Globals {
		fmt.Fprintf(p.w, "%s:\n.quad 0\n", g.Label)
	}
	for _, s := range prog.Strings {
		fmt.Fprintf(p.w, "%s:\n.asciz %q\n", s.Label, s.Value)
	}
	fmt.Fprintf(p.w, ".align 8\n\n")

	fmt.Fprintf(p.w, ".text\n")
	fmt.Fprintf(p.w, ".globl _start\n")
	for _, f := range prog.Functions {
		fmt.Fprintf(p.w, ".globl %s\n", f.Name)
	}
	fmt.Fprintf(p.w, "_start:\n")
	fmt.Fprintf(p.w, "\tcallq fun_main\n\n")

	for _, f := range prog.Functions {
		fmt.Fprintf(p.w, "fun_%s:\n", f.Name)
		fmt.Fprint(p.w, f.Body)
		fmt.Fprintf(p.w, "\n")
	}
}
