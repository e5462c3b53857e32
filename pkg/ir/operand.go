// Package ir defines the three-address code (3AC) intermediate
// representation: operands, quads, procedures, and the top-level
// program, bundled into one package the way the teacher corpus bundles
// an IR's node/instruction/function/program types together (see e.g.
// pkg/rtl in the teacher repo) rather than splitting by concern.
//
// Grounded on the original Lake compiler's lake::Opd hierarchy
// (original_source/3ac.hpp, 3ac_output.cpp's genLoad/genStore bodies).
package ir

import (
	"fmt"
	"io"

	"github.com/lakelang/lakec/pkg/lkast"
)

// OpdType distinguishes operands the code generator must route through
// printInt from operands it must route through printString.
type OpdType int

const (
	Numeric OpdType = iota
	StringTy
)

// Opd is a value carrier: a symbol, a literal, or an auxiliary
// temporary/string handle. Every variant knows how to load itself into
// a scratch register and store a scratch register into itself.
type Opd interface {
	fmt.Stringer
	Type() OpdType
	EmitLoad(w io.Writer, reg string)
	EmitStore(w io.Writer, reg string)
}

// Locatable is implemented by operand variants the code generator
// assigns a memory location to after lowering completes (spec §9
// "Mutation after construction"). Literal operands are not Locatable:
// they never have, or need, a home.
type Locatable interface {
	Loc() string
	SetLoc(loc string)
}

// SymOpd references a bound source-language symbol: a global, a
// formal, or a local. Its memory location is empty until the code
// generator's allocation phase assigns one.
type SymOpd struct {
	Sym *lkast.Symbol
	loc string
}

func NewSymOpd(sym *lkast.Symbol) *SymOpd {
	return &SymOpd{Sym: sym}
}

func (o *SymOpd) String() string { return o.Sym.Name }

// Type reports StringTy for a string-typed variable, whose storage holds
// the address of an interned string (see AuxOpd), and Numeric for int
// and bool variables, both represented as 8-byte integers.
func (o *SymOpd) Type() OpdType {
	if _, ok := o.Sym.Type.(lkast.StringType); ok {
		return StringTy
	}
	return Numeric
}

func (o *SymOpd) Loc() string     { return o.loc }
func (o *SymOpd) SetLoc(loc string) { o.loc = loc }

func (o *SymOpd) EmitLoad(w io.Writer, reg string) {
	if o.loc == "" {
		panic(fmt.Sprintf("internal error: symbol operand %q has no memory location", o.Sym.Name))
	}
	fmt.Fprintf(w, "\tmovq %s, %s\n", o.loc, reg)
}

func (o *SymOpd) EmitStore(w io.Writer, reg string) {
	if o.loc == "" {
		panic(fmt.Sprintf("internal error: symbol operand %q has no memory location", o.Sym.Name))
	}
	fmt.Fprintf(w, "\tmovq %s, %s\n", reg, o.loc)
}

// LitOpd is an immediate numeric literal. It never has a memory
// location and can never be a store target.
type LitOpd struct {
	val string
}

func NewLitOpd(val string) *LitOpd { return &LitOpd{val: val} }

func (o *LitOpd) String() string { return o.val }
func (o *LitOpd) Type() OpdType  { return Numeric }

func (o *LitOpd) EmitLoad(w io.Writer, reg string) {
	fmt.Fprintf(w, "\tmovq $%s, %s\n", o.val, reg)
}

func (o *LitOpd) EmitStore(w io.Writer, reg string) {
	panic("internal error: cannot use a literal operand as an assignment target")
}

// AuxOpd is an anonymous temporary (tmp<N>) or an interned string
// handle (str_<N>). Its memory location is empty until allocated; if
// the code generator never assigns one (spec §9 "spare-register
// spill"), loads and stores fall back to %rbx, matching the original
// compiler's AuxOpd::genLoad/genStore UNINIT fallback.
type AuxOpd struct {
	name string
	typ  OpdType
	loc  string
}

func newAuxOpd(name string, typ OpdType) *AuxOpd {
	return &AuxOpd{name: name, typ: typ}
}

func (o *AuxOpd) String() string { return o.name }
func (o *AuxOpd) Type() OpdType  { return o.typ }

func (o *AuxOpd) Loc() string       { return o.loc }
func (o *AuxOpd) SetLoc(loc string) { o.loc = loc }

func (o *AuxOpd) loadStoreLoc() string {
	if o.loc == "" {
		return "%rbx"
	}
	return o.loc
}

// EmitLoad loads a numeric temp's value the way SymOpd does. A string
// handle instead loads the address of its .asciz data, since
// printString (see runtime helper contract) takes a pointer.
func (o *AuxOpd) EmitLoad(w io.Writer, reg string) {
	if o.typ == StringTy {
		fmt.Fprintf(w, "\tleaq %s(%%rip), %s\n", o.loadStoreLoc(), reg)
		return
	}
	fmt.Fprintf(w, "\tmovq %s, %s\n", o.loadStoreLoc(), reg)
}

func (o *AuxOpd) EmitStore(w io.Writer, reg string) {
	fmt.Fprintf(w, "\tmovq %s, %s\n", reg, o.loadStoreLoc())
}
