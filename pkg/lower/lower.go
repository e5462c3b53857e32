// Package lower flattens a typed lkast.Program into an ir.Program:
// the AST-to-3AC pass. Grounded on the original Lake compiler's
// to3AC/flatten methods (original_source/3ac_output.cpp).
package lower

import (
	"fmt"
	"strconv"

	"github.com/lakelang/lakec/pkg/ir"
	"github.com/lakelang/lakec/pkg/lkast"
)

// Lower flattens prog into its 3AC form.
func Lower(prog *lkast.Program) *ir.Program {
	out := ir.NewProgram()
	for _, decl := range prog.Decls {
		lowerDecl(out, decl)
	}
	return out
}

func lowerDecl(prog *ir.Program, decl lkast.Decl) {
	switch d := decl.(type) {
	case *lkast.VarDecl:
		prog.GatherGlobal(d.Sym)
	case *lkast.FnDecl:
		lowerFnDecl(prog, d)
	default:
		panic(fmt.Sprintf("internal error: unhandled top-level declaration %T", decl))
	}
}

func lowerFnDecl(prog *ir.Program, fn *lkast.FnDecl) {
	proc := prog.MakeProc(fn.Sym.Name)

	for _, formal := range fn.Formals {
		proc.GatherFormal(formal.Sym)
	}
	for i, formal := range fn.Formals {
		opd := proc.GetSymOpd(formal.Sym)
		proc.AddQuad(ir.NewGetInQuad(i+1, opd))
	}

	for _, local := range fn.Locals {
		proc.GatherLocal(local.Sym)
	}
	for _, stmt := range fn.Body {
		lowerStmt(proc, stmt)
	}
}

func lowerStmt(proc *ir.Procedure, stmt lkast.Stmt) {
	switch s := stmt.(type) {
	case *lkast.ExprStmt:
		lowerExprStmt(proc, s)

	case *lkast.IncDecStmt:
		child := lowerExpr(proc, s.X)
		one := ir.NewLitOpd("1")
		op := ir.Add
		if s.Op == lkast.OpDec {
			op = ir.Sub
		}
		proc.AddQuad(ir.NewBinOpQuad(child, op, child, one))

	case *lkast.ReadStmt:
		child := lowerExpr(proc, s.X)
		proc.AddQuad(ir.NewSyscallQuad(ir.SysRead, child))

	case *lkast.WriteStmt:
		child := lowerExpr(proc, s.X)
		proc.AddQuad(ir.NewSyscallQuad(ir.SysWrite, child))

	case *lkast.IfStmt:
		lowerIfStmt(proc, s)

	case *lkast.IfElseStmt:
		lowerIfElseStmt(proc, s)

	case *lkast.WhileStmt:
		lowerWhileStmt(proc, s)

	case *lkast.ReturnStmt:
		lowerReturnStmt(proc, s)

	default:
		panic(fmt.Sprintf("internal error: unhandled statement %T", stmt))
	}
}

// lowerExprStmt handles a bare expression statement: an assignment, or
// a call whose return value (if any) nothing consumes. A call's
// GetOutQuad is emitted speculatively by lowerExpr and then discarded
// here, mirroring CallStmtNode::to3AC's popQuad.
func lowerExprStmt(proc *ir.Procedure, s *lkast.ExprStmt) {
	switch x := s.X.(type) {
	case *lkast.AssignExpr:
		lowerExpr(proc, x)
	case *lkast.CallExpr:
		res := lowerExpr(proc, x)
		if res != nil {
			proc.PopQuad()
		}
	default:
		panic(fmt.Sprintf("internal error: unhandled expression statement %T", s.X))
	}
}

func lowerIfStmt(proc *ir.Procedure, s *lkast.IfStmt) {
	cond := lowerExpr(proc, s.Cond)
	afterLabel := proc.MakeLabel()
	afterNop := ir.NewNopQuad()
	afterNop.AddLabel(afterLabel)

	proc.AddQuad(ir.NewJmpIfQuad(cond, false, afterLabel))
	for _, d := range s.Decls {
		proc.GatherLocal(d.Sym)
	}
	for _, st := range s.Then {
		lowerStmt(proc, st)
	}
	proc.AddQuad(afterNop)
}

func lowerIfElseStmt(proc *ir.Procedure, s *lkast.IfElseStmt) {
	elseLabel := proc.MakeLabel()
	elseNop := ir.NewNopQuad()
	elseNop.AddLabel(elseLabel)
	afterLabel := proc.MakeLabel()
	afterNop := ir.NewNopQuad()
	afterNop.AddLabel(afterLabel)

	cond := lowerExpr(proc, s.Cond)
	proc.AddQuad(ir.NewJmpIfQuad(cond, false, elseLabel))

	for _, d := range s.ThenDecls {
		proc.GatherLocal(d.Sym)
	}
	for _, st := range s.Then {
		lowerStmt(proc, st)
	}
	proc.AddQuad(ir.NewJmpQuad(afterLabel))

	proc.AddQuad(elseNop)
	for _, d := range s.ElseDecls {
		proc.GatherLocal(d.Sym)
	}
	for _, st := range s.Else {
		lowerStmt(proc, st)
	}
	proc.AddQuad(afterNop)
}

func lowerWhileStmt(proc *ir.Procedure, s *lkast.WhileStmt) {
	headLabel := proc.MakeLabel()
	headNop := ir.NewNopQuad()
	headNop.AddLabel(headLabel)

	afterLabel := proc.MakeLabel()
	afterNop := ir.NewNopQuad()
	afterNop.AddLabel(afterLabel)

	proc.AddQuad(headNop)
	cond := lowerExpr(proc, s.Cond)
	proc.AddQuad(ir.NewJmpIfQuad(cond, false, afterLabel))

	for _, d := range s.Decls {
		proc.GatherLocal(d.Sym)
	}
	for _, st := range s.Body {
		lowerStmt(proc, st)
	}
	proc.AddQuad(ir.NewJmpQuad(headLabel))
	proc.AddQuad(afterNop)
}

func lowerReturnStmt(proc *ir.Procedure, s *lkast.ReturnStmt) {
	if s.Val != nil {
		res := lowerExpr(proc, s.Val)
		proc.AddQuad(ir.NewSetOutQuad(1, res))
	}
	proc.AddQuad(ir.NewJmpQuad(proc.LeaveLabel()))
}

func lowerExpr(proc *ir.Procedure, expr lkast.Expr) ir.Opd {
	switch e := expr.(type) {
	case *lkast.IntLit:
		return ir.NewLitOpd(strconv.FormatInt(e.Val, 10))

	case *lkast.BoolLit:
		if e.Val {
			return ir.NewLitOpd("1")
		}
		return ir.NewLitOpd("0")

	case *lkast.StringLit:
		return proc.Prog().MakeString(e.Val)

	case *lkast.IdExpr:
		opd := proc.GetSymOpd(e.Sym)
		if opd == nil {
			panic(fmt.Sprintf("internal error: unresolved identifier %q", e.Sym.Name))
		}
		return opd

	case *lkast.UnaryExpr:
		child := lowerExpr(proc, e.X)
		dst := proc.MakeTmp()
		op := ir.Neg
		if e.Op == lkast.OpNot {
			op = ir.Not
		}
		proc.AddQuad(ir.NewUnaryOpQuad(dst, op, child))
		return dst

	case *lkast.BinaryExpr:
		l := lowerExpr(proc, e.L)
		r := lowerExpr(proc, e.R)
		dst := proc.MakeTmp()
		proc.AddQuad(ir.NewBinOpQuad(dst, binOpFor(e.Op), l, r))
		return dst

	case *lkast.AssignExpr:
		rhs := lowerExpr(proc, e.RHS)
		lhs := lowerExpr(proc, e.LHS)
		q := ir.NewAssignQuad(lhs, rhs)
		q.SetComment("Assign")
		proc.AddQuad(q)
		return lhs

	case *lkast.CallExpr:
		return lowerCallExpr(proc, e)

	default:
		panic(fmt.Sprintf("internal error: unhandled expression %T", expr))
	}
}

func lowerCallExpr(proc *ir.Procedure, e *lkast.CallExpr) ir.Opd {
	for i, arg := range e.Args {
		a := lowerExpr(proc, arg)
		proc.AddQuad(ir.NewSetInQuad(i+1, a))
	}
	proc.AddQuad(ir.NewCallQuad(e.Callee.Name, len(e.Args)))

	fnType, ok := e.Callee.Type.(lkast.FnType)
	if !ok {
		panic(fmt.Sprintf("internal error: call to non-function symbol %q", e.Callee.Name))
	}
	if _, isVoid := fnType.Return.(lkast.VoidType); isVoid {
		return nil
	}

	ret := proc.MakeTmp()
	proc.AddQuad(ir.NewGetOutQuad(1, ret))
	return ret
}

func binOpFor(op lkast.BinaryOp) ir.BinOp {
	switch op {
	case lkast.OpAdd:
		return ir.Add
	case lkast.OpSub:
		return ir.Sub
	case lkast.OpMul:
		return ir.Mult
	case lkast.OpDiv:
		return ir.Div
	case lkast.OpAnd:
		return ir.And
	case lkast.OpOr:
		return ir.Or
	case lkast.OpEq:
		return ir.Eq
	case lkast.OpNeq:
		return ir.Neq
	case lkast.OpLt:
		return ir.Lt
	case lkast.OpGt:
		return ir.Gt
	case lkast.OpLte:
		return ir.Lte
	case lkast.OpGte:
		return ir.Gte
	default:
		panic(fmt.Sprintf("internal error: unhandled binary operator %v", op))
	}
}
