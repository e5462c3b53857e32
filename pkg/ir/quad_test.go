package ir

import (
	"bytes"
	"testing"

	"github.com/lakelang/lakec/pkg/lkast"
)

func TestBinOpQuadRepr(t *testing.T) {
	sym := &lkast.Symbol{Name: "t", Type: lkast.IntType{}}
	dst := NewSymOpd(sym)
	q := NewBinOpQuad(dst, Add, NewLitOpd("1"), NewLitOpd("2"))
	want := "t := 1 ADD 2"
	if got := q.Repr(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestQuadStringWithLabel(t *testing.T) {
	q := NewNopQuad()
	q.AddLabel(&Label{id: 3})
	want := "lbl_3: nop"
	if got := q.String(false); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestQuadStringVerboseComment(t *testing.T) {
	q := NewAssignQuad(NewLitOpd("0"), NewLitOpd("0"))
	q.SetComment("Assign")
	want := "0 := 0  #Assign"
	if got := q.String(true); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := q.String(false); got != "0 := 0" {
		t.Errorf("non-verbose got %q", got)
	}
}

func TestJmpIfQuadEmitsExplicitCompare(t *testing.T) {
	tgt := &Label{id: 7}
	q := NewJmpIfQuad(NewLitOpd("1"), false, tgt)
	var buf bytes.Buffer
	q.EmitX64(&buf)
	want := "\tmovq $1, %rax\n\tcmpq $0, %rax\n\tje lbl_7\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBinOpQuadAndOrAreEagerBitwise(t *testing.T) {
	sym := &lkast.Symbol{Name: "t", Type: lkast.IntType{}}
	dst := NewSymOpd(sym)
	dst.SetLoc("-24(%rbp)")

	andQ := NewBinOpQuad(dst, And, NewLitOpd("1"), NewLitOpd("0"))
	var buf bytes.Buffer
	andQ.EmitX64(&buf)
	want := "\tmovq $1, %rax\n\tmovq $0, %rbx\n\tandq %rbx, %rax\n\tmovq %rax, -24(%rbp)\n"
	if got := buf.String(); got != want {
		t.Errorf("AND got %q, want %q", got, want)
	}
}

func TestSyscallQuadRoutesByOperandType(t *testing.T) {
	str := newAuxOpd("str_0", StringTy)
	str.SetLoc("str_0")
	q := NewSyscallQuad(SysWrite, str)
	var buf bytes.Buffer
	q.EmitX64(&buf)
	want := "\tleaq str_0(%rip), %rdi\n\tcallq printString\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEnterLeaveQuadFrameSize(t *testing.T) {
	prog := NewProgram()
	proc := prog.MakeProc("f")
	proc.GatherLocal(&lkast.Symbol{Name: "a", Type: lkast.IntType{}})
	proc.MakeTmp()

	var buf bytes.Buffer
	proc.Enter().EmitX64(&buf)
	want := "\tsubq $8, %rsp\n\tmovq %rbp, (%rsp)\n\tmovq %rsp, %rbp\n\taddq $16, %rbp\n\tsubq $16, %rsp\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMainProcedureLeavesViaExit(t *testing.T) {
	prog := NewProgram()
	proc := prog.MakeProc("main")
	if _, ok := proc.Leave().(*SyscallQuad); !ok {
		t.Fatalf("main's leave quad should be a SyscallQuad, got %T", proc.Leave())
	}
}

func TestNonMainProcedureLeavesNormally(t *testing.T) {
	prog := NewProgram()
	proc := prog.MakeProc("helper")
	if _, ok := proc.Leave().(*LeaveQuad); !ok {
		t.Fatalf("helper's leave quad should be a LeaveQuad, got %T", proc.Leave())
	}
}
