// Package lkast defines the typed abstract syntax tree that the Lake
// back end consumes. Lexing, parsing, name analysis, and type analysis
// are out of scope for this module (see spec §1); this package only
// fixes the shape of their output so the lowering pass has something
// concrete to walk. Nodes are built directly (by a front end, or by a
// test) rather than produced by a parser that lives in this package.
package lkast

// Type is the interface every Lake type implements.
type Type interface {
	implType()
}

type IntType struct{}
type BoolType struct{}
type StringType struct{}
type VoidType struct{}

// FnType is the type of a function symbol: its formal types in
// declaration order and its return type.
type FnType struct {
	Formals []Type
	Return  Type
}

func (IntType) implType()    {}
func (BoolType) implType()   {}
func (StringType) implType() {}
func (VoidType) implType()   {}
func (FnType) implType()     {}

// Symbol is a resolved binding for a variable, formal, or function
// name. Identity is by pointer: the lowering pass's formal/local/global
// resolution (spec §3 invariants) compares symbols by identity, not by
// name, the same way an earlier (out-of-scope) name-analysis pass would
// hand back a single canonical symbol per declaration.
type Symbol struct {
	Name string
	Type Type
}

// Node is the base interface for every AST node.
type Node interface {
	implNode()
}

// Decl is a top-level (program-scope) declaration.
type Decl interface {
	Node
	implDecl()
}

// Stmt is a function-body statement.
type Stmt interface {
	Node
	implStmt()
}

// Expr is an expression that flattens to an IR operand.
type Expr interface {
	Node
	implExpr()
}

// Program is the root node: an ordered list of top-level declarations.
type Program struct {
	Decls []Decl
}

// VarDecl declares a variable. At program scope it names a global; at
// function scope (in FnDecl.Locals or a block's Decls) it names a local.
type VarDecl struct {
	Sym *Symbol
}

func (*VarDecl) implNode() {}
func (*VarDecl) implDecl() {}

// FormalDecl declares a function parameter.
type FormalDecl struct {
	Sym *Symbol
}

func (*FormalDecl) implNode() {}

// FnDecl declares a function. Formals and Locals are kept as separate
// ordered lists (rather than folded into Body) because the lowering
// pass gathers them in two distinct passes before walking Body,
// mirroring the original Lake compiler's FnBodyNode split between its
// var-decl list and its statement list.
type FnDecl struct {
	Sym     *Symbol
	Formals []*FormalDecl
	Locals  []*VarDecl
	Body    []Stmt
}

func (*FnDecl) implNode() {}
func (*FnDecl) implDecl() {}

// --- Expressions ---

type IntLit struct{ Val int64 }
type BoolLit struct{ Val bool }
type StringLit struct{ Val string }

// IdExpr references a bound symbol in expression position.
type IdExpr struct{ Sym *Symbol }

type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
)

type UnaryExpr struct {
	Op UnaryOp
	X  Expr
}

type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpAnd
	OpOr
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLte
	OpGte
)

type BinaryExpr struct {
	Op   BinaryOp
	L, R Expr
}

// AssignExpr is itself an expression (it yields the assigned value),
// matching spec §4.E: the assignment statement just discards the
// result of lowering this node.
type AssignExpr struct {
	LHS, RHS Expr
}

type CallExpr struct {
	Callee *Symbol
	Args   []Expr
}

func (*IntLit) implNode()     {}
func (*IntLit) implExpr()     {}
func (*BoolLit) implNode()    {}
func (*BoolLit) implExpr()    {}
func (*StringLit) implNode()  {}
func (*StringLit) implExpr()  {}
func (*IdExpr) implNode()     {}
func (*IdExpr) implExpr()     {}
func (*UnaryExpr) implNode()  {}
func (*UnaryExpr) implExpr()  {}
func (*BinaryExpr) implNode() {}
func (*BinaryExpr) implExpr() {}
func (*AssignExpr) implNode() {}
func (*AssignExpr) implExpr() {}
func (*CallExpr) implNode()   {}
func (*CallExpr) implExpr()   {}

// --- Statements ---

// ExprStmt is a statement whose only effect is evaluating an
// expression: an assignment statement (X is an *AssignExpr) or a call
// statement (X is a *CallExpr).
type ExprStmt struct{ X Expr }

type IncDecOp int

const (
	OpInc IncDecOp = iota
	OpDec
)

type IncDecStmt struct {
	X  Expr
	Op IncDecOp
}

type ReadStmt struct{ X Expr }
type WriteStmt struct{ X Expr }

// IfStmt's Decls are variable declarations at the top of the then-block,
// gathered as procedure locals before Then is lowered (spec §4.E).
type IfStmt struct {
	Cond  Expr
	Decls []*VarDecl
	Then  []Stmt
}

type IfElseStmt struct {
	Cond      Expr
	ThenDecls []*VarDecl
	Then      []Stmt
	ElseDecls []*VarDecl
	Else      []Stmt
}

type WhileStmt struct {
	Cond  Expr
	Decls []*VarDecl
	Body  []Stmt
}

// ReturnStmt's Val is nil for a bare `return;` in a void function.
type ReturnStmt struct{ Val Expr }

func (*ExprStmt) implNode()   {}
func (*ExprStmt) implStmt()   {}
func (*IncDecStmt) implNode() {}
func (*IncDecStmt) implStmt() {}
func (*ReadStmt) implNode()   {}
func (*ReadStmt) implStmt()   {}
func (*WriteStmt) implNode()  {}
func (*WriteStmt) implStmt()  {}
func (*IfStmt) implNode()     {}
func (*IfStmt) implStmt()     {}
func (*IfElseStmt) implNode() {}
func (*IfElseStmt) implStmt() {}
func (*WhileStmt) implNode()  {}
func (*WhileStmt) implStmt()  {}
func (*ReturnStmt) implNode() {}
func (*ReturnStmt) implStmt() {}
