package ir

import (
	"fmt"
	"strings"

	"github.com/lakelang/lakec/pkg/lkast"
)

// Procedure is one function's 3AC: its formals, locals, temporaries,
// and body quads, bracketed by an EnterQuad and a terminating quad.
// main's terminator is a SysExit SyscallQuad rather than a LeaveQuad,
// matching the original compiler: the entry point exits the process
// directly instead of returning to a caller.
type Procedure struct {
	Name string
	prog *Program

	enter   *EnterQuad
	leave   Quad
	leaveLabel *Label

	locals  map[*lkast.Symbol]*SymOpd
	localOrder []*lkast.Symbol
	formals []*SymOpd
	temps   []*AuxOpd
	body    []Quad

	maxTmp int
}

func newProcedure(prog *Program, name string) *Procedure {
	p := &Procedure{
		Name:   name,
		prog:   prog,
		locals: make(map[*lkast.Symbol]*SymOpd),
	}
	p.enter = NewEnterQuad(p)
	if name == "main" {
		p.leave = NewSyscallQuad(SysExit, nil)
	} else {
		p.leave = NewLeaveQuad(p)
	}
	p.leaveLabel = prog.MakeLabel()
	p.leave.AddLabel(p.leaveLabel)
	return p
}

// LeaveLabel is the label a ReturnStmt jumps to so every return point
// runs through the same teardown quad.
func (p *Procedure) LeaveLabel() *Label { return p.leaveLabel }

// MakeLabel delegates to the owning program so label ids stay unique
// across the whole program, not just within this procedure.
func (p *Procedure) MakeLabel() *Label { return p.prog.MakeLabel() }

// AddQuad appends a quad to the body, in source order.
func (p *Procedure) AddQuad(q Quad) { p.body = append(p.body, q) }

// PopQuad removes and discards the last quad added to the body. The
// lowering pass uses this to undo a GetOutQuad emitted speculatively
// for a call expression that turns out to be used as a call statement,
// whose result nothing consumes.
func (p *Procedure) PopQuad() {
	p.body = p.body[:len(p.body)-1]
}

// Prog returns the owning program, so lowering can intern string
// literals via MakeString without threading the program through every
// call.
func (p *Procedure) Prog() *Program { return p.prog }

// GatherLocal registers sym as a local of this procedure, allocating
// its SymOpd. Locals must be gathered before any GetSymOpd lookup of
// the same symbol.
func (p *Procedure) GatherLocal(sym *lkast.Symbol) {
	p.locals[sym] = NewSymOpd(sym)
	p.localOrder = append(p.localOrder, sym)
}

// GatherFormal registers sym as the next formal of this procedure, in
// declaration order.
func (p *Procedure) GatherFormal(sym *lkast.Symbol) {
	p.formals = append(p.formals, NewSymOpd(sym))
}

// GetSymOpd resolves sym to its operand, searching formals, then
// locals, then the program's globals, in that order (spec §3: formal
// and local bindings shadow a same-named global).
func (p *Procedure) GetSymOpd(sym *lkast.Symbol) *SymOpd {
	for _, f := range p.formals {
		if f.Sym == sym {
			return f
		}
	}
	if l, ok := p.locals[sym]; ok {
		return l
	}
	return p.prog.GetGlobal(sym)
}

// MakeTmp allocates a fresh anonymous numeric temporary.
func (p *Procedure) MakeTmp() *AuxOpd {
	name := fmt.Sprintf("tmp%d", p.maxTmp)
	p.maxTmp++
	t := newAuxOpd(name, Numeric)
	p.temps = append(p.temps, t)
	return t
}

func (p *Procedure) NumLocals() int { return len(p.locals) }
func (p *Procedure) NumTemps() int  { return len(p.temps) }
func (p *Procedure) NumFormals() int { return len(p.formals) }

// Formals, Locals and Temps expose the allocation-phase collections to
// the code generator in deterministic (gathered) order.
func (p *Procedure) Formals() []*SymOpd { return p.formals }
func (p *Procedure) Temps() []*AuxOpd   { return p.temps }

func (p *Procedure) Locals() []*SymOpd {
	out := make([]*SymOpd, 0, len(p.localOrder))
	for _, sym := range p.localOrder {
		out = append(out, p.locals[sym])
	}
	return out
}

func (p *Procedure) Body() []Quad { return p.body }

// String renders this procedure's locals header and quad list in the
// textual IR dump format.
func (p *Procedure) String(verbose bool) string {
	out := &strings.Builder{}
	fmt.Fprintf(out, "[BEGIN %s LOCALS]\n", p.Name)
	for _, f := range p.formals {
		fmt.Fprintf(out, "%s (formal)\n", f.String())
	}
	for _, sym := range p.localOrder {
		fmt.Fprintf(out, "%s (local)\n", p.locals[sym].String())
	}
	for _, t := range p.temps {
		fmt.Fprintf(out, "%s (tmp)\n", t.String())
	}
	fmt.Fprintf(out, "[END %s LOCALS]\n", p.Name)
	fmt.Fprintf(out, "%s\n", p.enter.String(verbose))
	for _, q := range p.body {
		fmt.Fprintf(out, "%s\n", q.String(verbose))
	}
	fmt.Fprintf(out, "%s\n", p.leave.String(verbose))
	return out.String()
}

// Enter and Leave expose the bracketing quads to the code generator.
func (p *Procedure) Enter() *EnterQuad { return p.enter }
func (p *Procedure) Leave() Quad       { return p.leave }
