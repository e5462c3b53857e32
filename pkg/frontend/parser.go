package frontend

import (
	"fmt"

	"github.com/lakelang/lakec/pkg/lkast"
)

// Parser is a recursive-descent parser over a Lexer's token stream. It
// binds identifiers to *lkast.Symbol as it goes (a flat, single-pass
// substitute for the out-of-scope name-analysis stage): one scope per
// function body plus a program-wide global scope, no nested block
// scoping beyond that.
type Parser struct {
	l    *Lexer
	cur  Token
	peek Token

	globals map[string]*lkast.Symbol
	locals  map[string]*lkast.Symbol
}

// Parse lexes and parses the given Lake source text into a Program.
func Parse(src string) (prog *lkast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(parseError); ok {
				err = fmt.Errorf("%s", string(pe))
				return
			}
			panic(r)
		}
	}()

	p := &Parser{l: NewLexer(src), globals: prescanGlobals(src)}
	p.next()
	p.next()
	return p.parseProgram(), nil
}

// prescanGlobals does a first lexical pass to register every top-level
// name (global variable or function) before the real parse begins, so
// a function may call another function declared later in the file —
// the same forward-reference freedom an earlier name-analysis pass
// would provide.
func prescanGlobals(src string) map[string]*lkast.Symbol {
	globals := map[string]*lkast.Symbol{}
	l := NewLexer(src)
	tok := l.NextToken()
	for tok.Type != TokenEOF {
		switch tok.Type {
		case TokenKwFn:
			nameTok := l.NextToken()
			l.NextToken() // (
			var formals []lkast.Type
			for {
				t := l.NextToken()
				if t.Type == TokenRParen {
					break
				}
				if isTypeToken(t.Type) {
					formals = append(formals, typeFromToken(t.Type))
					l.NextToken() // formal name
					t2 := l.NextToken()
					if t2.Type == TokenRParen {
						break
					}
				}
			}
			ret := lkast.Type(lkast.VoidType{})
			t := l.NextToken()
			if t.Type == TokenArrow {
				rt := l.NextToken()
				ret = typeFromToken(rt.Type)
				t = l.NextToken()
			}
			globals[nameTok.Literal] = &lkast.Symbol{
				Name: nameTok.Literal,
				Type: lkast.FnType{Formals: formals, Return: ret},
			}
			// t now holds the opening brace; skip the body.
			depth := 1
			for depth > 0 {
				b := l.NextToken()
				if b.Type == TokenEOF {
					break
				}
				if b.Type == TokenLBrace {
					depth++
				} else if b.Type == TokenRBrace {
					depth--
				}
			}
		case TokenKwInt, TokenKwBool, TokenKwString:
			typ := typeFromToken(tok.Type)
			nameTok := l.NextToken()
			globals[nameTok.Literal] = &lkast.Symbol{Name: nameTok.Literal, Type: typ}
			l.NextToken() // ;
		}
		tok = l.NextToken()
	}
	return globals
}

func isTypeToken(tt TokenType) bool {
	return tt == TokenKwInt || tt == TokenKwBool || tt == TokenKwString || tt == TokenKwVoid
}

func typeFromToken(tt TokenType) lkast.Type {
	switch tt {
	case TokenKwInt:
		return lkast.IntType{}
	case TokenKwBool:
		return lkast.BoolType{}
	case TokenKwString:
		return lkast.StringType{}
	default:
		return lkast.VoidType{}
	}
}

type parseError string

func (p *Parser) fail(format string, args ...any) {
	panic(parseError(fmt.Sprintf("line %d: %s", p.cur.Line, fmt.Sprintf(format, args...))))
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) expect(tt TokenType) Token {
	if p.cur.Type != tt {
		p.fail("unexpected token %q", p.cur.Literal)
	}
	tok := p.cur
	p.next()
	return tok
}

func (p *Parser) parseProgram() *lkast.Program {
	prog := &lkast.Program{}
	for p.cur.Type != TokenEOF {
		prog.Decls = append(prog.Decls, p.parseTopDecl())
	}
	return prog
}

func (p *Parser) parseTopDecl() lkast.Decl {
	if p.cur.Type == TokenKwFn {
		return p.parseFnDecl()
	}
	return p.parseVarDecl()
}

func (p *Parser) parseType() lkast.Type {
	switch p.cur.Type {
	case TokenKwInt:
		p.next()
		return lkast.IntType{}
	case TokenKwBool:
		p.next()
		return lkast.BoolType{}
	case TokenKwString:
		p.next()
		return lkast.StringType{}
	case TokenKwVoid:
		p.next()
		return lkast.VoidType{}
	default:
		p.fail("expected a type, got %q", p.cur.Literal)
		return nil
	}
}

func (p *Parser) parseVarDecl() *lkast.VarDecl {
	typ := p.parseType()
	name := p.expect(TokenIdent).Literal
	p.expect(TokenSemi)

	// Top-level declarations were already minted by prescanGlobals;
	// reuse that symbol so later identifier resolution sees the same
	// pointer. Locals are never prescanned, so this only matches when
	// we're not inside a function body.
	if p.locals == nil {
		if sym, ok := p.globals[name]; ok {
			return &lkast.VarDecl{Sym: sym}
		}
	}
	return &lkast.VarDecl{Sym: &lkast.Symbol{Name: name, Type: typ}}
}

func (p *Parser) parseFnDecl() *lkast.FnDecl {
	p.expect(TokenKwFn)
	name := p.expect(TokenIdent).Literal
	p.expect(TokenLParen)

	var formals []*lkast.FormalDecl
	var formalTypes []lkast.Type
	for p.cur.Type != TokenRParen {
		typ := p.parseType()
		fname := p.expect(TokenIdent).Literal
		sym := &lkast.Symbol{Name: fname, Type: typ}
		formals = append(formals, &lkast.FormalDecl{Sym: sym})
		formalTypes = append(formalTypes, typ)
		if p.cur.Type == TokenComma {
			p.next()
		}
	}
	p.expect(TokenRParen)

	ret := lkast.Type(lkast.VoidType{})
	if p.cur.Type == TokenArrow {
		p.next()
		ret = p.parseType()
	}

	fnSym, ok := p.globals[name]
	if !ok {
		fnSym = &lkast.Symbol{Name: name, Type: lkast.FnType{Formals: formalTypes, Return: ret}}
		p.globals[name] = fnSym
	}

	p.locals = map[string]*lkast.Symbol{}
	for _, f := range formals {
		p.locals[f.Sym.Name] = f.Sym
	}

	p.expect(TokenLBrace)
	var locals []*lkast.VarDecl
	for p.cur.Type == TokenKwInt || p.cur.Type == TokenKwBool || p.cur.Type == TokenKwString {
		vd := p.parseVarDecl()
		p.locals[vd.Sym.Name] = vd.Sym
		locals = append(locals, vd)
	}
	var body []lkast.Stmt
	for p.cur.Type != TokenRBrace {
		body = append(body, p.parseStmt())
	}
	p.expect(TokenRBrace)
	p.locals = nil

	return &lkast.FnDecl{Sym: fnSym, Formals: formals, Locals: locals, Body: body}
}

func (p *Parser) resolve(name string) *lkast.Symbol {
	if p.locals != nil {
		if sym, ok := p.locals[name]; ok {
			return sym
		}
	}
	if sym, ok := p.globals[name]; ok {
		return sym
	}
	p.fail("undeclared identifier %q", name)
	return nil
}

func (p *Parser) parseStmt() lkast.Stmt {
	switch p.cur.Type {
	case TokenKwIf:
		return p.parseIfStmt()
	case TokenKwWhile:
		return p.parseWhileStmt()
	case TokenKwReturn:
		p.next()
		if p.cur.Type == TokenSemi {
			p.next()
			return &lkast.ReturnStmt{}
		}
		val := p.parseExpr()
		p.expect(TokenSemi)
		return &lkast.ReturnStmt{Val: val}
	case TokenKwRead:
		p.next()
		x := p.parseExpr()
		p.expect(TokenSemi)
		return &lkast.ReadStmt{X: x}
	case TokenKwWrite:
		p.next()
		x := p.parseExpr()
		p.expect(TokenSemi)
		return &lkast.WriteStmt{X: x}
	default:
		return p.parseSimpleStmt()
	}
}

func (p *Parser) parseSimpleStmt() lkast.Stmt {
	x := p.parseExpr()
	switch p.cur.Type {
	case TokenIncrement:
		p.next()
		p.expect(TokenSemi)
		return &lkast.IncDecStmt{X: x, Op: lkast.OpInc}
	case TokenDecrement:
		p.next()
		p.expect(TokenSemi)
		return &lkast.IncDecStmt{X: x, Op: lkast.OpDec}
	default:
		p.expect(TokenSemi)
		return &lkast.ExprStmt{X: x}
	}
}

func (p *Parser) parseBlock() ([]*lkast.VarDecl, []lkast.Stmt) {
	p.expect(TokenLBrace)
	var decls []*lkast.VarDecl
	for p.cur.Type == TokenKwInt || p.cur.Type == TokenKwBool || p.cur.Type == TokenKwString {
		vd := p.parseVarDecl()
		p.locals[vd.Sym.Name] = vd.Sym
		decls = append(decls, vd)
	}
	var body []lkast.Stmt
	for p.cur.Type != TokenRBrace {
		body = append(body, p.parseStmt())
	}
	p.expect(TokenRBrace)
	return decls, body
}

func (p *Parser) parseIfStmt() lkast.Stmt {
	p.expect(TokenKwIf)
	p.expect(TokenLParen)
	cond := p.parseExpr()
	p.expect(TokenRParen)
	thenDecls, then := p.parseBlock()

	if p.cur.Type != TokenKwElse {
		return &lkast.IfStmt{Cond: cond, Decls: thenDecls, Then: then}
	}
	p.next()
	elseDecls, els := p.parseBlock()
	return &lkast.IfElseStmt{
		Cond: cond, ThenDecls: thenDecls, Then: then, ElseDecls: elseDecls, Else: els,
	}
}

func (p *Parser) parseWhileStmt() lkast.Stmt {
	p.expect(TokenKwWhile)
	p.expect(TokenLParen)
	cond := p.parseExpr()
	p.expect(TokenRParen)
	decls, body := p.parseBlock()
	return &lkast.WhileStmt{Cond: cond, Decls: decls, Body: body}
}

// Expressions, by precedence (lowest to highest): assignment, ||, &&,
// equality, relational, additive, multiplicative, unary, primary.

func (p *Parser) parseExpr() lkast.Expr {
	return p.parseAssign()
}

func (p *Parser) parseAssign() lkast.Expr {
	lhs := p.parseOr()
	if p.cur.Type == TokenAssign {
		p.next()
		rhs := p.parseAssign()
		return &lkast.AssignExpr{LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseOr() lkast.Expr {
	x := p.parseAnd()
	for p.cur.Type == TokenOrOr {
		p.next()
		x = &lkast.BinaryExpr{Op: lkast.OpOr, L: x, R: p.parseAnd()}
	}
	return x
}

func (p *Parser) parseAnd() lkast.Expr {
	x := p.parseEquality()
	for p.cur.Type == TokenAndAnd {
		p.next()
		x = &lkast.BinaryExpr{Op: lkast.OpAnd, L: x, R: p.parseEquality()}
	}
	return x
}

func (p *Parser) parseEquality() lkast.Expr {
	x := p.parseRelational()
	for p.cur.Type == TokenEq || p.cur.Type == TokenNeq {
		op := lkast.OpEq
		if p.cur.Type == TokenNeq {
			op = lkast.OpNeq
		}
		p.next()
		x = &lkast.BinaryExpr{Op: op, L: x, R: p.parseRelational()}
	}
	return x
}

func (p *Parser) parseRelational() lkast.Expr {
	x := p.parseAdditive()
	for {
		var op lkast.BinaryOp
		switch p.cur.Type {
		case TokenLt:
			op = lkast.OpLt
		case TokenGt:
			op = lkast.OpGt
		case TokenLte:
			op = lkast.OpLte
		case TokenGte:
			op = lkast.OpGte
		default:
			return x
		}
		p.next()
		x = &lkast.BinaryExpr{Op: op, L: x, R: p.parseAdditive()}
	}
}

func (p *Parser) parseAdditive() lkast.Expr {
	x := p.parseMultiplicative()
	for p.cur.Type == TokenPlus || p.cur.Type == TokenMinus {
		op := lkast.OpAdd
		if p.cur.Type == TokenMinus {
			op = lkast.OpSub
		}
		p.next()
		x = &lkast.BinaryExpr{Op: op, L: x, R: p.parseMultiplicative()}
	}
	return x
}

func (p *Parser) parseMultiplicative() lkast.Expr {
	x := p.parseUnary()
	for p.cur.Type == TokenStar || p.cur.Type == TokenSlash {
		op := lkast.OpMul
		if p.cur.Type == TokenSlash {
			op = lkast.OpDiv
		}
		p.next()
		x = &lkast.BinaryExpr{Op: op, L: x, R: p.parseUnary()}
	}
	return x
}

func (p *Parser) parseUnary() lkast.Expr {
	switch p.cur.Type {
	case TokenMinus:
		p.next()
		return &lkast.UnaryExpr{Op: lkast.OpNeg, X: p.parseUnary()}
	case TokenBang:
		p.next()
		return &lkast.UnaryExpr{Op: lkast.OpNot, X: p.parseUnary()}
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() lkast.Expr {
	switch p.cur.Type {
	case TokenIntLit:
		tok := p.cur
		p.next()
		var v int64
		fmt.Sscanf(tok.Literal, "%d", &v)
		return &lkast.IntLit{Val: v}
	case TokenStringLit:
		tok := p.cur
		p.next()
		return &lkast.StringLit{Val: tok.Literal}
	case TokenKwTrue:
		p.next()
		return &lkast.BoolLit{Val: true}
	case TokenKwFalse:
		p.next()
		return &lkast.BoolLit{Val: false}
	case TokenLParen:
		p.next()
		x := p.parseExpr()
		p.expect(TokenRParen)
		return x
	case TokenIdent:
		name := p.cur.Literal
		p.next()
		if p.cur.Type == TokenLParen {
			return p.parseCallArgs(p.resolve(name))
		}
		return &lkast.IdExpr{Sym: p.resolve(name)}
	default:
		p.fail("unexpected token %q in expression", p.cur.Literal)
		return nil
	}
}

func (p *Parser) parseCallArgs(callee *lkast.Symbol) lkast.Expr {
	p.expect(TokenLParen)
	var args []lkast.Expr
	for p.cur.Type != TokenRParen {
		args = append(args, p.parseExpr())
		if p.cur.Type == TokenComma {
			p.next()
		}
	}
	p.expect(TokenRParen)
	return &lkast.CallExpr{Callee: callee, Args: args}
}
