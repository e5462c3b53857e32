// Package codegen translates 3AC (pkg/ir) into x86-64 AT&T assembly
// text. It is the two-phase process the original Lake compiler's
// IRProgram::toX64 runs: allocate every operand a concrete memory
// location, then ask each quad to render its own instructions.
// Grounded on original_source/x64_codegen.cpp.
package codegen

import (
	"bytes"
	"fmt"
	"io"

	"github.com/lakelang/lakec/pkg/asm"
	"github.com/lakelang/lakec/pkg/ir"
)

// formalFrameBase is the offset of the first formal: formal i (0
// based) lives at formalFrameBase+i*8(%rbp), matching the original's
// formalPos loop.
const formalFrameBase = 0

// localFrameBase is the first local/temp's offset below the frame
// pointer; original_source/x64_codegen.cpp's Procedure::allocLocals
// starts counting at 24 to leave room for the saved %rbp, the return
// address, and the enter/leave prologue's fixed 16-byte adjustment.
const localFrameBase = 24

// Generate renders prog's full x86-64 text into w.
func Generate(prog *ir.Program, w io.Writer) error {
	allocateGlobals(prog)

	out := &asm.Program{}
	for _, g := range prog.Globals() {
		out.Globals = append(out.Globals, asm.GlobVar{Label: "gbl_" + g.Sym.Name})
	}
	for _, s := range prog.Strings() {
		out.Strings = append(out.Strings, asm.StrConst{Label: s.Opd.Loc(), Value: s.Val})
	}

	for _, proc := range prog.Procs() {
		allocateLocals(proc)
		var buf bytes.Buffer
		emitProcedure(proc, &buf)
		out.Functions = append(out.Functions, asm.Function{Name: proc.Name, Body: buf.String()})
	}

	asm.NewPrinter(w).PrintProgram(out)
	return nil
}

// allocateGlobals assigns every global variable and interned string
// its memory location: a global lives at (gbl_<name>), a string's
// data lives at its own handle name (str_N), loaded by address.
func allocateGlobals(prog *ir.Program) {
	for _, g := range prog.Globals() {
		g.SetLoc(fmt.Sprintf("(gbl_%s)", g.Sym.Name))
	}
	for _, s := range prog.Strings() {
		s.Opd.SetLoc(s.Opd.String())
	}
}

// allocateLocals assigns every local, temp, and formal of proc its
// stack-frame memory location: locals and temps grow down from
// -24(%rbp) in gather order, formals are read up from 0(%rbp) in
// declaration order.
func allocateLocals(proc *ir.Procedure) {
	offset := localFrameBase
	for _, l := range proc.Locals() {
		l.SetLoc(fmt.Sprintf("-%d(%%rbp)", offset))
		offset += 8
	}
	for _, t := range proc.Temps() {
		t.SetLoc(fmt.Sprintf("-%d(%%rbp)", offset))
		offset += 8
	}
	for i, f := range proc.Formals() {
		f.SetLoc(fmt.Sprintf("%d(%%rbp)", formalFrameBase+i*8))
	}
}

func emitProcedure(proc *ir.Procedure, w io.Writer) {
	proc.Enter().EmitX64(w)
	for _, q := range proc.Body() {
		q.EmitLabels(w)
		q.EmitX64(w)
	}
	proc.Leave().EmitLabels(w)
	proc.Leave().EmitX64(w)
}
