package ir

import (
	"fmt"
	"io"
	"strings"
)

// Label names a jump target. Labels are allocated by a Program (or, by
// delegation, a Procedure) from one global counter, so every label in
// a program is unique regardless of which procedure it lives in.
type Label struct {
	id int
}

func (l *Label) String() string { return fmt.Sprintf("lbl_%d", l.id) }

// BinOp is the opcode of a BinOpQuad.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Div
	Mult
	Or
	And
	Eq
	Neq
	Lt
	Gt
	Lte
	Gte
)

var binOpRepr = map[BinOp]string{
	Add: " ADD ", Sub: " SUB ", Div: " DIV ", Mult: " MULT ",
	Or: " OR ", And: " AND ", Eq: " EQ ", Neq: " NEQ ",
	Lt: " LT ", Gt: " GT ", Lte: " LTE ", Gte: " GTE ",
}

// UnOp is the opcode of a UnaryOpQuad.
type UnOp int

const (
	Neg UnOp = iota
	Not
)

// Syscall names the runtime operation a SyscallQuad performs.
type Syscall int

const (
	SysWrite Syscall = iota
	SysRead
	SysExit
)

// Quad is one instruction of the 3AC instruction list: it renders a
// text form (Repr/String) for IR dumps and emits its own x86-64
// translation (EmitX64). Labels and an optional trailing comment are
// common to every quad, so they're handled by the embeddable quadBase
// rather than duplicated per variant.
type Quad interface {
	Repr() string
	String(verbose bool) string
	EmitX64(w io.Writer)
	EmitLabels(w io.Writer)
	AddLabel(l *Label)
	SetComment(s string)
	Labels() []*Label
	Comment() string
}

type quadBase struct {
	labels  []*Label
	comment string
}

func (q *quadBase) AddLabel(l *Label)     { q.labels = append(q.labels, l) }
func (q *quadBase) SetComment(s string)   { q.comment = s }
func (q *quadBase) Labels() []*Label      { return q.labels }
func (q *quadBase) Comment() string       { return q.comment }

func (q *quadBase) commentStr() string {
	if q.comment == "" {
		return ""
	}
	return "  #" + q.comment
}

// EmitLabels writes every label attached to this quad, one per line,
// as "lbl_N: ".
func (q *quadBase) EmitLabels(w io.Writer) {
	for _, l := range q.labels {
		fmt.Fprintf(w, "%s: \n", l.String())
	}
}

// BinOpQuad computes Dst := Src1 <Op> Src2.
type BinOpQuad struct {
	quadBase
	Dst        Opd
	Op         BinOp
	Src1, Src2 Opd
}

func NewBinOpQuad(dst Opd, op BinOp, src1, src2 Opd) *BinOpQuad {
	return &BinOpQuad{Dst: dst, Op: op, Src1: src1, Src2: src2}
}

func (q *BinOpQuad) Repr() string {
	return q.Dst.String() + " := " + q.Src1.String() + binOpRepr[q.Op] + q.Src2.String()
}

func (q *BinOpQuad) String(verbose bool) string {
	s := q.Repr()
	return withLabelsAndComment(q, s, verbose)
}

func (q *BinOpQuad) EmitX64(w io.Writer) {
	switch q.Op {
	case Div:
		fmt.Fprintf(w, "\tmovq $0, %%rdx\n")
		q.Src1.EmitLoad(w, "%rax")
		q.Src2.EmitLoad(w, "%rbx")
		fmt.Fprintf(w, "\tidivq %%rbx\n")
		q.Dst.EmitStore(w, "%rax")
		return
	case Mult:
		q.Src1.EmitLoad(w, "%rax")
		q.Src2.EmitLoad(w, "%rbx")
		fmt.Fprintf(w, "\timulq %%rbx\n")
		q.Dst.EmitStore(w, "%rax")
		return
	}
	q.Src1.EmitLoad(w, "%rax")
	q.Src2.EmitLoad(w, "%rbx")
	switch q.Op {
	case Add:
		fmt.Fprintf(w, "\taddq %%rbx, %%rax\n")
	case Sub:
		fmt.Fprintf(w, "\tsubq %%rbx, %%rax\n")
	case And:
		fmt.Fprintf(w, "\tandq %%rbx, %%rax\n")
	case Or:
		fmt.Fprintf(w, "\torq %%rbx, %%rax\n")
	case Eq:
		fmt.Fprintf(w, "\tcmpq %%rbx, %%rax\n\tsete %%al\n")
	case Neq:
		fmt.Fprintf(w, "\tcmpq %%rbx, %%rax\n\tsetne %%al\n")
	case Lt:
		fmt.Fprintf(w, "\tcmpq %%rbx, %%rax\n\tsetl %%al\n")
	case Gt:
		fmt.Fprintf(w, "\tcmpq %%rbx, %%rax\n\tsetg %%al\n")
	case Lte:
		fmt.Fprintf(w, "\tcmpq %%rbx, %%rax\n\tsetle %%al\n")
	case Gte:
		fmt.Fprintf(w, "\tcmpq %%rbx, %%rax\n\tsetge %%al\n")
	}
	q.Dst.EmitStore(w, "%rax")
}

// UnaryOpQuad computes Dst := <Op> Src.
type UnaryOpQuad struct {
	quadBase
	Dst Opd
	Op  UnOp
	Src Opd
}

func NewUnaryOpQuad(dst Opd, op UnOp, src Opd) *UnaryOpQuad {
	return &UnaryOpQuad{Dst: dst, Op: op, Src: src}
}

func (q *UnaryOpQuad) Repr() string {
	op := "NEG "
	if q.Op == Not {
		op = "NOT "
	}
	return q.Dst.String() + " := " + op + q.Src.String()
}

func (q *UnaryOpQuad) String(verbose bool) string { return withLabelsAndComment(q, q.Repr(), verbose) }

func (q *UnaryOpQuad) EmitX64(w io.Writer) {
	q.Src.EmitLoad(w, "%rax")
	if q.Op == Neg {
		fmt.Fprintf(w, "\tnegq %%rax\n")
	} else {
		fmt.Fprintf(w, "\tnotq %%rax\n")
	}
	q.Dst.EmitStore(w, "%rax")
}

// AssignQuad computes Dst := Src.
type AssignQuad struct {
	quadBase
	Dst, Src Opd
}

func NewAssignQuad(dst, src Opd) *AssignQuad { return &AssignQuad{Dst: dst, Src: src} }

func (q *AssignQuad) Repr() string                { return q.Dst.String() + " := " + q.Src.String() }
func (q *AssignQuad) String(verbose bool) string  { return withLabelsAndComment(q, q.Repr(), verbose) }
func (q *AssignQuad) EmitX64(w io.Writer) {
	q.Src.EmitLoad(w, "%rax")
	q.Dst.EmitStore(w, "%rax")
}

// JmpQuad is an unconditional jump to Tgt.
type JmpQuad struct {
	quadBase
	Tgt *Label
}

func NewJmpQuad(tgt *Label) *JmpQuad { return &JmpQuad{Tgt: tgt} }

func (q *JmpQuad) Repr() string               { return "goto " + q.Tgt.String() }
func (q *JmpQuad) String(verbose bool) string { return withLabelsAndComment(q, q.Repr(), verbose) }
func (q *JmpQuad) EmitX64(w io.Writer)        { fmt.Fprintf(w, "\tjmp %s\n", q.Tgt.String()) }

// JmpIfQuad jumps to Tgt depending on Cnd and Invert: the jump fires
// when Cnd evaluates to zero if Invert is false ("iffalse"), or to
// nonzero if Invert is true ("iftrue").
type JmpIfQuad struct {
	quadBase
	Cnd    Opd
	Invert bool
	Tgt    *Label
}

func NewJmpIfQuad(cnd Opd, invert bool, tgt *Label) *JmpIfQuad {
	return &JmpIfQuad{Cnd: cnd, Invert: invert, Tgt: tgt}
}

func (q *JmpIfQuad) Repr() string {
	prefix := "iffalse "
	if q.Invert {
		prefix = "iftrue "
	}
	return prefix + q.Cnd.String() + " goto " + q.Tgt.String()
}

func (q *JmpIfQuad) String(verbose bool) string { return withLabelsAndComment(q, q.Repr(), verbose) }

func (q *JmpIfQuad) EmitX64(w io.Writer) {
	q.Cnd.EmitLoad(w, "%rax")
	fmt.Fprintf(w, "\tcmpq $0, %%rax\n")
	if q.Invert {
		fmt.Fprintf(w, "\tjne %s\n", q.Tgt.String())
	} else {
		fmt.Fprintf(w, "\tje %s\n", q.Tgt.String())
	}
}

// NopQuad does nothing; it exists purely as a label anchor.
type NopQuad struct{ quadBase }

func NewNopQuad() *NopQuad { return &NopQuad{} }

func (q *NopQuad) Repr() string               { return "nop" }
func (q *NopQuad) String(verbose bool) string { return withLabelsAndComment(q, q.Repr(), verbose) }
func (q *NopQuad) EmitX64(w io.Writer)        { fmt.Fprintf(w, "\tnop\n") }

// SyscallQuad performs a runtime-helper call (print/read) or the
// program's terminating exit.
type SyscallQuad struct {
	quadBase
	Which Syscall
	Arg   Opd
}

func NewSyscallQuad(which Syscall, arg Opd) *SyscallQuad {
	return &SyscallQuad{Which: which, Arg: arg}
}

func (q *SyscallQuad) Repr() string {
	switch q.Which {
	case SysRead:
		return "READ " + q.Arg.String()
	case SysWrite:
		return "WRITE " + q.Arg.String()
	default:
		return "EXIT"
	}
}

func (q *SyscallQuad) String(verbose bool) string { return withLabelsAndComment(q, q.Repr(), verbose) }

func (q *SyscallQuad) EmitX64(w io.Writer) {
	switch q.Which {
	case SysWrite:
		q.Arg.EmitLoad(w, "%rdi")
		if q.Arg.Type() == Numeric {
			fmt.Fprintf(w, "\tcallq printInt\n")
		} else {
			fmt.Fprintf(w, "\tcallq printString\n")
		}
	case SysRead:
		q.Arg.EmitLoad(w, "%rdi")
		fmt.Fprintf(w, "\tcallq getInt\n")
	case SysExit:
		fmt.Fprintf(w, "\tmovq $60, %%rax\n")
		fmt.Fprintf(w, "\tmovq $0, %%rdi\n")
		fmt.Fprintf(w, "\tsyscall\n")
	}
}

// CallQuad calls Callee and then pops its formals off the stack.
type CallQuad struct {
	quadBase
	Callee      string
	NumFormals int
}

func NewCallQuad(callee string, numFormals int) *CallQuad {
	return &CallQuad{Callee: callee, NumFormals: numFormals}
}

func (q *CallQuad) Repr() string               { return "call " + q.Callee }
func (q *CallQuad) String(verbose bool) string { return withLabelsAndComment(q, q.Repr(), verbose) }

func (q *CallQuad) EmitX64(w io.Writer) {
	fmt.Fprintf(w, "\tcallq fun_%s\n", q.Callee)
	if q.NumFormals > 0 {
		fmt.Fprintf(w, "\taddq $%d, %%rsp\n", 8*q.NumFormals)
	}
}

// EnterQuad is the first quad of every procedure body: it pushes the
// caller's frame pointer and reserves stack space for locals/temps.
type EnterQuad struct {
	quadBase
	Proc *Procedure
}

func NewEnterQuad(proc *Procedure) *EnterQuad { return &EnterQuad{Proc: proc} }

func (q *EnterQuad) Repr() string               { return "enter " + q.Proc.Name }
func (q *EnterQuad) String(verbose bool) string { return withLabelsAndComment(q, q.Repr(), verbose) }

func (q *EnterQuad) EmitX64(w io.Writer) {
	fmt.Fprintf(w, "\tsubq $8, %%rsp\n")
	fmt.Fprintf(w, "\tmovq %%rbp, (%%rsp)\n")
	fmt.Fprintf(w, "\tmovq %%rsp, %%rbp\n")
	fmt.Fprintf(w, "\taddq $16, %%rbp\n")
	fmt.Fprintf(w, "\tsubq $%d, %%rsp\n", 8*(q.Proc.NumLocals()+q.Proc.NumTemps()))
}

// LeaveQuad is the last quad of a non-main procedure body: it
// releases the frame and returns.
type LeaveQuad struct {
	quadBase
	Proc *Procedure
}

func NewLeaveQuad(proc *Procedure) *LeaveQuad { return &LeaveQuad{Proc: proc} }

func (q *LeaveQuad) Repr() string               { return "leave " + q.Proc.Name }
func (q *LeaveQuad) String(verbose bool) string { return withLabelsAndComment(q, q.Repr(), verbose) }

func (q *LeaveQuad) EmitX64(w io.Writer) {
	fmt.Fprintf(w, "\taddq $%d, %%rsp\n", 8*(q.Proc.NumLocals()+q.Proc.NumTemps()))
	fmt.Fprintf(w, "\tmovq (%%rsp), %%rbp\n")
	fmt.Fprintf(w, "\taddq $8, %%rsp\n")
	fmt.Fprintf(w, "\tret\n")
}

// SetInQuad pushes Opd onto the stack as the Index'th argument of an
// imminent call.
type SetInQuad struct {
	quadBase
	Index int
	Opd   Opd
}

func NewSetInQuad(index int, opd Opd) *SetInQuad { return &SetInQuad{Index: index, Opd: opd} }

func (q *SetInQuad) Repr() string {
	return fmt.Sprintf("setin %d %s", q.Index, q.Opd.String())
}
func (q *SetInQuad) String(verbose bool) string { return withLabelsAndComment(q, q.Repr(), verbose) }

func (q *SetInQuad) EmitX64(w io.Writer) {
	q.Opd.EmitLoad(w, "%rax")
	fmt.Fprintf(w, "\tsubq $8, %%rsp\n")
	fmt.Fprintf(w, "\tmovq %%rax, 0(%%rsp)\n")
}

// GetInQuad names Opd as the Index'th formal of the current
// procedure; by the time control reaches it the caller's SetInQuad
// has already placed the value in the formal's frame slot, so there is
// nothing left to emit.
type GetInQuad struct {
	quadBase
	Index int
	Opd   Opd
}

func NewGetInQuad(index int, opd Opd) *GetInQuad { return &GetInQuad{Index: index, Opd: opd} }

func (q *GetInQuad) Repr() string {
	return fmt.Sprintf("getin %d %s", q.Index, q.Opd.String())
}
func (q *GetInQuad) String(verbose bool) string { return withLabelsAndComment(q, q.Repr(), verbose) }
func (q *GetInQuad) EmitX64(w io.Writer)        {}

// SetOutQuad loads Opd into %rdi as the function's return value,
// immediately before the jump to the procedure's leave label.
type SetOutQuad struct {
	quadBase
	Index int
	Opd   Opd
}

func NewSetOutQuad(index int, opd Opd) *SetOutQuad { return &SetOutQuad{Index: index, Opd: opd} }

func (q *SetOutQuad) Repr() string {
	return fmt.Sprintf("setout %d %s", q.Index, q.Opd.String())
}
func (q *SetOutQuad) String(verbose bool) string { return withLabelsAndComment(q, q.Repr(), verbose) }
func (q *SetOutQuad) EmitX64(w io.Writer)        { q.Opd.EmitLoad(w, "%rdi") }

// GetOutQuad stores the called function's return value (in %rdi) into
// Opd, immediately after a CallQuad.
type GetOutQuad struct {
	quadBase
	Index int
	Opd   Opd
}

func NewGetOutQuad(index int, opd Opd) *GetOutQuad { return &GetOutQuad{Index: index, Opd: opd} }

func (q *GetOutQuad) Repr() string {
	return fmt.Sprintf("getout %d %s", q.Index, q.Opd.String())
}
func (q *GetOutQuad) String(verbose bool) string { return withLabelsAndComment(q, q.Repr(), verbose) }
func (q *GetOutQuad) EmitX64(w io.Writer)        { q.Opd.EmitStore(w, "%rdi") }

func withLabelsAndComment(q Quad, repr string, verbose bool) string {
	var b strings.Builder
	labels := q.Labels()
	if len(labels) > 0 {
		names := make([]string, len(labels))
		for i, l := range labels {
			names[i] = l.String()
		}
		b.WriteString(strings.Join(names, ","))
		b.WriteString(": ")
	}
	b.WriteString(repr)
	if verbose {
		if c := q.Comment(); c != "" {
			b.WriteString("  #")
			b.WriteString(c)
		}
	}
	return b.String()
}

var (
	_ Quad = (*BinOpQuad)(nil)
	_ Quad = (*UnaryOpQuad)(nil)
	_ Quad = (*AssignQuad)(nil)
	_ Quad = (*JmpQuad)(nil)
	_ Quad = (*JmpIfQuad)(nil)
	_ Quad = (*NopQuad)(nil)
	_ Quad = (*SyscallQuad)(nil)
	_ Quad = (*CallQuad)(nil)
	_ Quad = (*EnterQuad)(nil)
	_ Quad = (*LeaveQuad)(nil)
	_ Quad = (*SetInQuad)(nil)
	_ Quad = (*GetInQuad)(nil)
	_ Quad = (*SetOutQuad)(nil)
	_ Quad = (*GetOutQuad)(nil)
)
