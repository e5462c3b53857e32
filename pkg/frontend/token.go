// Package frontend is minimal scaffolding, not the compiler's core: a
// hand-written Lake lexer, recursive-descent parser, and flat symbol
// binder that turns source text directly into a pkg/lkast.Program so
// cmd/lakec has something to feed the lowering pass. Real lexing,
// parsing, name analysis, and type analysis are out of scope for this
// module (see the lowering pass's own input contract, pkg/lkast); this
// package exists only so the CLI is runnable end to end on real .lake
// source, and deliberately does not attempt error recovery, type
// checking, or diagnostics beyond a single fatal message.
package frontend

// TokenType identifies a lexical token class.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	TokenIdent
	TokenIntLit
	TokenStringLit

	TokenKwInt
	TokenKwBool
	TokenKwString
	TokenKwVoid
	TokenKwFn
	TokenKwTrue
	TokenKwFalse
	TokenKwIf
	TokenKwElse
	TokenKwWhile
	TokenKwReturn
	TokenKwRead
	TokenKwWrite

	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenBang
	TokenAssign
	TokenEq
	TokenNeq
	TokenLt
	TokenGt
	TokenLte
	TokenGte
	TokenAndAnd
	TokenOrOr
	TokenIncrement
	TokenDecrement

	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenSemi
	TokenArrow
)

var keywords = map[string]TokenType{
	"int":    TokenKwInt,
	"bool":   TokenKwBool,
	"string": TokenKwString,
	"void":   TokenKwVoid,
	"fn":     TokenKwFn,
	"true":   TokenKwTrue,
	"false":  TokenKwFalse,
	"if":     TokenKwIf,
	"else":   TokenKwElse,
	"while":  TokenKwWhile,
	"return": TokenKwReturn,
	"read":   TokenKwRead,
	"write":  TokenKwWrite,
}

// Token is one lexeme with its source position, used only for error
// messages (there is no downstream consumer of position info).
type Token struct {
	Type    TokenType
	Literal string
	Line    int
}
