package ir

import (
	"fmt"
	"strings"

	"github.com/lakelang/lakec/pkg/lkast"
)

// Program is the whole lowered translation unit: its global variables,
// interned string literals, and procedures, plus the label and string
// counters every MakeLabel/MakeString call draws from.
type Program struct {
	procs        []*Procedure
	globals      map[*lkast.Symbol]*SymOpd
	globalOrder  []*lkast.Symbol
	strings      map[*AuxOpd]string
	stringOrder  []*AuxOpd

	maxLabel int
	strIdx   int
}

func NewProgram() *Program {
	return &Program{
		globals: make(map[*lkast.Symbol]*SymOpd),
		strings: make(map[*AuxOpd]string),
	}
}

// MakeProc creates and registers a new procedure named name.
func (prog *Program) MakeProc(name string) *Procedure {
	p := newProcedure(prog, name)
	prog.procs = append(prog.procs, p)
	return p
}

// MakeLabel allocates a program-wide unique label.
func (prog *Program) MakeLabel() *Label {
	l := &Label{id: prog.maxLabel}
	prog.maxLabel++
	return l
}

// GatherGlobal registers sym as a global variable, allocating its
// SymOpd.
func (prog *Program) GatherGlobal(sym *lkast.Symbol) {
	prog.globals[sym] = NewSymOpd(sym)
	prog.globalOrder = append(prog.globalOrder, sym)
}

// GetGlobal resolves sym to its global operand, or nil if sym was
// never gathered as a global.
func (prog *Program) GetGlobal(sym *lkast.Symbol) *SymOpd {
	return prog.globals[sym]
}

// MakeString interns val as a new anonymous string constant and
// returns the handle operand referring to it.
func (prog *Program) MakeString(val string) *AuxOpd {
	name := fmt.Sprintf("str_%d", prog.strIdx)
	prog.strIdx++
	opd := newAuxOpd(name, StringTy)
	prog.strings[opd] = val
	prog.stringOrder = append(prog.stringOrder, opd)
	return opd
}

func (prog *Program) Procs() []*Procedure { return prog.procs }

func (prog *Program) Globals() []*SymOpd {
	out := make([]*SymOpd, 0, len(prog.globalOrder))
	for _, sym := range prog.globalOrder {
		out = append(out, prog.globals[sym])
	}
	return out
}

// Strings returns the interned string constants in allocation order,
// paired with their literal text.
func (prog *Program) Strings() []struct {
	Opd *AuxOpd
	Val string
} {
	out := make([]struct {
		Opd *AuxOpd
		Val string
	}, 0, len(prog.stringOrder))
	for _, opd := range prog.stringOrder {
		out = append(out, struct {
			Opd *AuxOpd
			Val string
		}{Opd: opd, Val: prog.strings[opd]})
	}
	return out
}

// String renders the full textual IR dump: a bracketed globals section
// followed by each procedure's locals header and quad list.
func (prog *Program) String(verbose bool) string {
	var b strings.Builder
	b.WriteString("[BEGIN GLOBALS]\n")
	for _, sym := range prog.globalOrder {
		b.WriteString(prog.globals[sym].String())
		b.WriteString("\n")
	}
	for _, opd := range prog.stringOrder {
		b.WriteString(opd.String())
		b.WriteString(" ")
		b.WriteString(prog.strings[opd])
		b.WriteString("\n")
	}
	b.WriteString("[END GLOBALS]\n")
	for _, p := range prog.procs {
		b.WriteString(p.String(verbose))
	}
	return b.String()
}
