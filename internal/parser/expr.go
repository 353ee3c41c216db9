package parser

import (
	"github.com/lucidlang/lucidc/internal/ast"
	"github.com/lucidlang/lucidc/internal/token"
)

// ParseExpression parses a full expression at the lowest (Assignment)
// precedence level — the entry point spec.md §4.2 calls `parseExpr(p)`
// with `p` starting at the table's size.
func (p *Parser) ParseExpression() (ast.Expr, error) {
	return p.parseExprAtLevel(maxPrecedenceLevel)
}

// parseExprAtLevel implements spec.md §4.2's climbing algorithm:
//
//	parseExpr(p) returns a unary-or-value expression when p==1;
//	otherwise it parses left = parseExpr(p-1), then repeatedly
//	consumes operators of exactly level p using the associativity
//	rule.
func (p *Parser) parseExprAtLevel(level int) (ast.Expr, error) {
	if level == 1 {
		return p.parseUnary()
	}
	left, err := p.parseExprAtLevel(level - 1)
	if err != nil {
		return nil, err
	}

	g := precedenceGroups[level]
	switch g.assoc {
	case assocLeft:
		for {
			op, ok := p.matchOpAtLevel(g)
			if !ok {
				break
			}
			right, err := p.parseExprAtLevel(level - 1)
			if err != nil {
				return nil, err
			}
			left = &ast.Binary{ExprBase: ast.ExprBase{Tok: op}, Left: left, Op: ast.BinaryOp(op.Lexeme), Right: right}
		}
	case assocRight:
		if op, ok := p.matchOpAtLevel(g); ok {
			right, err := p.parseExprAtLevel(level)
			if err != nil {
				return nil, err
			}
			left = &ast.Binary{ExprBase: ast.ExprBase{Tok: op}, Left: left, Op: ast.BinaryOp(op.Lexeme), Right: right}
		}
	case assocNone:
		if op, ok := p.matchOpAtLevel(g); ok {
			right, err := p.parseExprAtLevel(level - 1)
			if err != nil {
				return nil, err
			}
			left = &ast.Binary{ExprBase: ast.ExprBase{Tok: op}, Left: left, Op: ast.BinaryOp(op.Lexeme), Right: right}
			if _, ok := p.matchOpAtLevel(g); ok {
				return nil, p.errf("operator %q does not associate; parenthesize to disambiguate", op.Lexeme)
			}
		}
	}
	return left, nil
}

// matchOpAtLevel consumes and returns the current token if it is an
// operator belonging to g, leaving the stream untouched otherwise.
func (p *Parser) matchOpAtLevel(g *group) (token.Token, bool) {
	if p.cur.Kind != token.OPERATOR || !g.ops[p.cur.Lexeme] {
		return token.Token{}, false
	}
	op := p.cur
	p.advance()
	return op, true
}

// parseUnary implements spec.md §4.2's level-1 Prefix group: `+ - ! & *`.
func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.cur.Kind == token.OPERATOR && prefixOps[p.cur.Lexeme] {
		op := p.cur
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{ExprBase: ast.ExprBase{Tok: op}, Op: unaryOpFor(op.Lexeme), Expr: operand}, nil
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by zero or more
// `[index]` accessors.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.curIs(token.LBRACKET) {
		lbrack := p.cur
		p.advance()
		index, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		expr = &ast.Accessor{
			ExprBase:    ast.ExprBase{Tok: lbrack},
			Aggregate:   expr,
			Index:       index,
			MemberIndex: -1,
		}
	}
	return expr, nil
}

// parsePrimary parses literals, identifiers/calls, parenthesized
// groupings/tuples, and list literals.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch p.cur.Kind {
	case token.INTEGER_LITERAL:
		tok := p.cur
		v, err := parseIntLiteral(tok.Lexeme)
		if err != nil {
			return nil, p.errf("invalid integer literal %q", tok.Lexeme)
		}
		p.advance()
		return &ast.IntegerLiteral{ExprBase: ast.ExprBase{Tok: tok}, Value: v}, nil

	case token.DOUBLE_LITERAL:
		tok := p.cur
		v, err := parseDoubleLiteral(tok.Lexeme)
		if err != nil {
			return nil, p.errf("invalid double literal %q", tok.Lexeme)
		}
		p.advance()
		return &ast.DoubleLiteral{ExprBase: ast.ExprBase{Tok: tok}, Value: v}, nil

	case token.CHARACTER_LITERAL:
		tok := p.cur
		p.advance()
		r := rune(0)
		for _, c := range tok.Lexeme {
			r = c
			break
		}
		return &ast.CharacterLiteral{ExprBase: ast.ExprBase{Tok: tok}, Value: r}, nil

	case token.STRING_LITERAL:
		tok := p.cur
		p.advance()
		return &ast.StringLiteral{ExprBase: ast.ExprBase{Tok: tok}, Value: tok.Lexeme}, nil

	case token.TRUE:
		tok := p.cur
		p.advance()
		return &ast.BoolLiteral{ExprBase: ast.ExprBase{Tok: tok}, Value: true}, nil

	case token.FALSE:
		tok := p.cur
		p.advance()
		return &ast.BoolLiteral{ExprBase: ast.ExprBase{Tok: tok}, Value: false}, nil

	case token.IDENT:
		tok := p.cur
		p.advance()
		if p.curIs(token.LPAREN) {
			return p.parseCallArgs(tok)
		}
		return &ast.Identifier{ExprBase: ast.ExprBase{Tok: tok}, Name: tok.Lexeme}, nil

	case token.LPAREN:
		return p.parseParenOrTuple()

	case token.LBRACKET:
		return p.parseListLiteral()
	}

	return nil, p.errf("expected an expression but got %s %q", token.KindName(p.cur.Kind), p.cur.Lexeme)
}

func (p *Parser) parseCallArgs(callee token.Token) (ast.Expr, error) {
	p.advance() // '('
	var args []ast.Expr
	if !p.curIs(token.RPAREN) {
		for {
			arg, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.FunctionCall{ExprBase: ast.ExprBase{Tok: callee}, Callee: callee.Lexeme, Args: args}, nil
}

// parseParenOrTuple implements spec.md §9's standardized rule:
// a parenthesized single expression with no top-level comma is a
// grouping; two or more elements (or one element with a trailing
// comma) make a Tuple, and empty parentheses `()` make a zero-element
// Tuple.
func (p *Parser) parseParenOrTuple() (ast.Expr, error) {
	lparen := p.cur
	p.advance() // '('
	var elems []ast.Expr
	trailingComma := false
	if !p.curIs(token.RPAREN) {
		for {
			e, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.curIs(token.COMMA) {
				p.advance()
				if p.curIs(token.RPAREN) {
					trailingComma = true
					break
				}
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if len(elems) == 1 && !trailingComma {
		return elems[0], nil
	}
	return &ast.Tuple{ExprBase: ast.ExprBase{Tok: lparen}, Elements: elems}, nil
}

// parseListLiteral implements `'[' expr (',' expr)* ']'`.
func (p *Parser) parseListLiteral() (ast.Expr, error) {
	lbrack := p.cur
	p.advance() // '['
	var elems []ast.Expr
	if !p.curIs(token.RBRACKET) {
		for {
			e, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.List{ExprBase: ast.ExprBase{Tok: lbrack}, Elements: elems}, nil
}
