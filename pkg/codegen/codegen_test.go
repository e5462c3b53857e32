package codegen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lakelang/lakec/pkg/lkast"
	"github.com/lakelang/lakec/pkg/lower"
)

func TestGenerateSimpleAssign(t *testing.T) {
	x := &lkast.Symbol{Name: "x", Type: lkast.IntType{}}
	mainSym := &lkast.Symbol{Name: "main", Type: lkast.FnType{Return: lkast.VoidType{}}}
	prog := &lkast.Program{
		Decls: []lkast.Decl{
			&lkast.VarDecl{Sym: x},
			&lkast.FnDecl{
				Sym: mainSym,
				Body: []lkast.Stmt{
					&lkast.ExprStmt{X: &lkast.AssignExpr{
						LHS: &lkast.IdExpr{Sym: x},
						RHS: &lkast.BinaryExpr{Op: lkast.OpAdd, L: &lkast.IntLit{Val: 3}, R: &lkast.IntLit{Val: 4}},
					}},
				},
			},
		},
	}

	ir := lower.Lower(prog)
	var buf bytes.Buffer
	if err := Generate(ir, &buf); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		".data\n",
		"gbl_x:\n.quad 0\n",
		".globl _start\n",
		"_start:\n\tcallq fun_main\n",
		"fun_main:\n",
		"\tmovq $3, %rax\n",
		"\tmovq $4, %rbx\n",
		"\taddq %rbx, %rax\n",
		"\tmovq %rax, (gbl_x)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q; got:\n%s", want, out)
		}
	}
}

func TestAllocateLocalsOffsetsAreDistinct(t *testing.T) {
	a := &lkast.Symbol{Name: "a", Type: lkast.IntType{}}
	b := &lkast.Symbol{Name: "b", Type: lkast.IntType{}}
	mainSym := &lkast.Symbol{Name: "main", Type: lkast.FnType{Return: lkast.VoidType{}}}
	prog := &lkast.Program{
		Decls: []lkast.Decl{
			&lkast.FnDecl{
				Sym:    mainSym,
				Locals: []*lkast.VarDecl{{Sym: a}, {Sym: b}},
			},
		},
	}
	ir := lower.Lower(prog)
	proc := ir.Procs()[0]
	allocateLocals(proc)

	locals := proc.Locals()
	if locals[0].Loc() == locals[1].Loc() {
		t.Fatalf("expected distinct frame slots, got %q twice", locals[0].Loc())
	}
	if locals[0].Loc() != "-24(%rbp)" {
		t.Errorf("first local offset = %q, want -24(%%rbp)", locals[0].Loc())
	}
	if locals[1].Loc() != "-32(%rbp)" {
		t.Errorf("second local offset = %q, want -32(%%rbp)", locals[1].Loc())
	}
}

func TestAllocateLocalsFormalOffsets(t *testing.T) {
	f0 := &lkast.FormalDecl{Sym: &lkast.Symbol{Name: "a", Type: lkast.IntType{}}}
	f1 := &lkast.FormalDecl{Sym: &lkast.Symbol{Name: "b", Type: lkast.IntType{}}}
	fnSym := &lkast.Symbol{Name: "add", Type: lkast.FnType{
		Formals: []lkast.Type{lkast.IntType{}, lkast.IntType{}},
		Return:  lkast.IntType{},
	}}
	prog := &lkast.Program{
		Decls: []lkast.Decl{
			&lkast.FnDecl{Sym: fnSym, Formals: []*lkast.FormalDecl{f0, f1}},
		},
	}
	ir := lower.Lower(prog)
	proc := ir.Procs()[0]
	allocateLocals(proc)

	formals := proc.Formals()
	if formals[0].Loc() != "0(%rbp)" {
		t.Errorf("first formal offset = %q, want 0(%%rbp)", formals[0].Loc())
	}
	if formals[1].Loc() != "8(%rbp)" {
		t.Errorf("second formal offset = %q, want 8(%%rbp)", formals[1].Loc())
	}
}
