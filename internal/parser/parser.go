// Package parser implements lucid's hand-written recursive-descent,
// operator-precedence-climbing parser. It reports the first fatal
// syntax error with its source location and never builds a partially
// invalid AST node, following the teacher's Parser.errors idiom
// generalized into a single returned error per spec.md §4.2.
package parser

import (
	"strconv"

	"github.com/lucidlang/lucidc/internal/ast"
	"github.com/lucidlang/lucidc/internal/diag"
	"github.com/lucidlang/lucidc/internal/lexer"
	"github.com/lucidlang/lucidc/internal/source"
	"github.com/lucidlang/lucidc/internal/token"
)

// Parser turns a token stream into an ast.Program.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	// lexErr holds a lexical error observed while priming cur/peek, so
	// it can be surfaced the moment parsing reaches that token instead
	// of being silently skipped.
	lexErr error
}

// New creates a Parser over src, reading the first two tokens.
func New(src *source.Buffer) *Parser {
	p := &Parser{l: lexer.New(src)}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	tok, err := p.l.Next()
	if err != nil && p.lexErr == nil {
		p.lexErr = err
	}
	p.peek = tok
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

func (p *Parser) curIsOp(lexeme string) bool {
	return p.cur.Kind == token.OPERATOR && p.cur.Lexeme == lexeme
}

func (p *Parser) errf(format string, args ...any) error {
	return diag.New(p.cur.Loc, format, args...)
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.lexErr != nil {
		return token.Token{}, p.lexErr
	}
	if p.cur.Kind != k {
		return token.Token{}, p.errf("expected %s but got %s %q", token.KindName(k), token.KindName(p.cur.Kind), p.cur.Lexeme)
	}
	t := p.cur
	p.advance()
	return t, nil
}

// skipNewlines consumes zero or more NEWLINE tokens, per spec.md §9's
// standardized "skip leading newlines at statement-list entry" rule.
func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.advance()
	}
}

// expectStmtEnd consumes the statement terminator: a NEWLINE, or
// nothing if the next token is the closing brace of the enclosing
// block (spec.md §4.2: "a closing brace may substitute for a newline
// before it").
func (p *Parser) expectStmtEnd() error {
	if p.curIs(token.NEWLINE) {
		p.skipNewlines()
		return nil
	}
	if p.curIs(token.RBRACE) || p.curIs(token.EOF) {
		return nil
	}
	return p.errf("expected newline but got %s %q", token.KindName(p.cur.Kind), p.cur.Lexeme)
}

// ParseProgram parses an entire file: a sequence of top-level
// declarations separated by newlines.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	p.skipNewlines()
	for !p.curIs(token.EOF) {
		decl, err := p.parseTopLevelDecl()
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, decl)
		if err := p.expectStmtEnd(); err != nil {
			return nil, err
		}
		p.skipNewlines()
	}
	return prog, nil
}

func (p *Parser) parseTopLevelDecl() (ast.Decl, error) {
	switch p.cur.Kind {
	case token.LET:
		return p.parseLetDecl()
	case token.VAR:
		return p.parseVarDecl()
	case token.FUNC:
		return p.parseFuncDecl()
	case token.EXTERN:
		return p.parseExternFuncDecl()
	case token.TYPEALIAS:
		return p.parseTypeAlias()
	case token.STRUCT:
		return p.parseStructDecl()
	default:
		return nil, p.errf("expected a declaration but got %s %q", token.KindName(p.cur.Kind), p.cur.Lexeme)
	}
}

// parseIntLiteral parses a base-10 integer lexeme, matching the
// teacher's strconv-based literal parsing.
func parseIntLiteral(lexeme string) (int64, error) {
	return strconv.ParseInt(lexeme, 10, 64)
}

func parseDoubleLiteral(lexeme string) (float64, error) {
	return strconv.ParseFloat(lexeme, 64)
}
