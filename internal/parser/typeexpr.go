package parser

import (
	"github.com/lucidlang/lucidc/internal/ast"
	"github.com/lucidlang/lucidc/internal/token"
)

// parseType implements the `type` nonterminal from spec.md §6:
//
//	type := ident | '(' type (',' type)* ')' | '[' type ';' int ']' | '*' type | '&' type
func (p *Parser) parseType() (ast.TypeExpr, error) {
	switch p.cur.Kind {
	case token.IDENT:
		tok := p.cur
		p.advance()
		return &ast.NamedTypeExpr{Tok: tok, Name: tok.Lexeme}, nil

	case token.LPAREN:
		tok := p.cur
		p.advance()
		var elems []ast.TypeExpr
		for {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			elems = append(elems, t)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.TupleTypeExpr{Tok: tok, Elements: elems}, nil

	case token.LBRACKET:
		tok := p.cur
		p.advance()
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if p.curIs(token.SEMI) {
			// Fixed-length list: [T; N]
			p.advance()
			lenTok, err := p.expect(token.INTEGER_LITERAL)
			if err != nil {
				return nil, err
			}
			n, err := parseIntLiteral(lenTok.Lexeme)
			if err != nil {
				return nil, p.errf("invalid list length %q", lenTok.Lexeme)
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			return &ast.ListTypeExpr{Tok: tok, Element: elem, Length: int(n)}, nil
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		return &ast.SliceTypeExpr{Tok: tok, Element: elem}, nil

	case token.OPERATOR:
		switch p.cur.Lexeme {
		case "*":
			tok := p.cur
			p.advance()
			referent, err := p.parseType()
			if err != nil {
				return nil, err
			}
			return &ast.PointerTypeExpr{Tok: tok, Referent: referent}, nil
		case "&":
			tok := p.cur
			p.advance()
			referent, err := p.parseType()
			if err != nil {
				return nil, err
			}
			return &ast.ReferenceTypeExpr{Tok: tok, Referent: referent}, nil
		}
	}
	return nil, p.errf("expected a type but got %s %q", token.KindName(p.cur.Kind), p.cur.Lexeme)
}
