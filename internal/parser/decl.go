package parser

import (
	"github.com/lucidlang/lucidc/internal/ast"
	"github.com/lucidlang/lucidc/internal/token"
)

// parseLetDecl implements `let ident (':' type)? '=' expr`.
func (p *Parser) parseLetDecl() (*ast.LetDecl, error) {
	tok := p.cur
	p.advance() // 'let'
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.LetDecl{DeclBase: ast.DeclBase{Tok: tok}, Name: name.Lexeme}
	if p.curIs(token.COLON) {
		p.advance()
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		decl.Annotation = t
	}
	if _, err := p.expectOperator("="); err != nil {
		return nil, err
	}
	init, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	decl.Init = init
	return decl, nil
}

// parseVarDecl implements:
//
//	var_decl := 'var' ident (':' type '=' expr | (':' type)? '=' expr)
//
// A `var` with a type annotation and no initializer
// (`var x: Integer`) is the UninitializedVarDecl variant.
func (p *Parser) parseVarDecl() (ast.Decl, error) {
	tok := p.cur
	p.advance() // 'var'
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var annotation ast.TypeExpr
	if p.curIs(token.COLON) {
		p.advance()
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		annotation = t
	}
	if !p.curIsOp("=") {
		if annotation == nil {
			return nil, p.errf("var declaration needs a type annotation or an initializer")
		}
		return &ast.UninitializedVarDecl{DeclBase: ast.DeclBase{Tok: tok}, Name: name.Lexeme, Annotation: annotation}, nil
	}
	p.advance() // '='
	init, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.VarDecl{DeclBase: ast.DeclBase{Tok: tok}, Name: name.Lexeme, Annotation: annotation, Init: init}, nil
}

// parseParams implements `params := param (',' param)*` where
// `param := ident ':' type ('=' expr)?`.
func (p *Parser) parseParams() ([]*ast.ParamDecl, error) {
	var params []*ast.ParamDecl
	if p.curIs(token.RPAREN) {
		return params, nil
	}
	for {
		nameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		param := &ast.ParamDecl{DeclBase: ast.DeclBase{Tok: nameTok}, Name: nameTok.Lexeme, Annotation: typ}
		if p.curIsOp("=") {
			p.advance()
			def, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		params = append(params, param)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return params, nil
}

// parseReturnType implements the optional `'->' type` suffix shared by
// func_decl and extern_func.
func (p *Parser) parseReturnType() (ast.TypeExpr, error) {
	if !p.curIs(token.ARROW) {
		return nil, nil
	}
	p.advance()
	return p.parseType()
}

// parseFuncDecl implements:
//
//	func_decl := 'func' ident '(' params? ')' ('->' type)? block
func (p *Parser) parseFuncDecl() (*ast.FuncDecl, error) {
	tok := p.cur
	p.advance() // 'func'
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	retType, err := p.parseReturnType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{
		DeclBase:   ast.DeclBase{Tok: tok},
		Name:       name.Lexeme,
		Params:     params,
		ReturnType: retType,
		Body:       body,
	}, nil
}

// parseExternFuncDecl implements:
//
//	extern_func := 'extern' 'func' ident '(' params? ')' ('->' type)?
//
// A trailing `, ...` in the parameter list marks the extern as
// variadic (spec.md §4.4's FunctionType.isVarArg), a supplemental
// feature carried over from the original implementation.
func (p *Parser) parseExternFuncDecl() (*ast.ExternFuncDecl, error) {
	tok := p.cur
	p.advance() // 'extern'
	if _, err := p.expect(token.FUNC); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	params, isVarArg, err := p.parseExternParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	retType, err := p.parseReturnType()
	if err != nil {
		return nil, err
	}
	return &ast.ExternFuncDecl{
		DeclBase:   ast.DeclBase{Tok: tok},
		Name:       name.Lexeme,
		Params:     params,
		ReturnType: retType,
		IsVarArg:   isVarArg,
	}, nil
}

func (p *Parser) parseExternParams() ([]*ast.ParamDecl, bool, error) {
	var params []*ast.ParamDecl
	if p.curIs(token.RPAREN) {
		return params, false, nil
	}
	for {
		if p.curIs(token.ELLIPSIS) {
			p.advance()
			return params, true, nil
		}
		nameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, false, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, false, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, false, err
		}
		params = append(params, &ast.ParamDecl{DeclBase: ast.DeclBase{Tok: nameTok}, Name: nameTok.Lexeme, Annotation: typ})
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return params, false, nil
}

// parseTypeAlias implements `'typealias' ident '=' type`.
func (p *Parser) parseTypeAlias() (*ast.TypeAlias, error) {
	tok := p.cur
	p.advance() // 'typealias'
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOperator("="); err != nil {
		return nil, err
	}
	target, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ast.TypeAlias{DeclBase: ast.DeclBase{Tok: tok}, Name: name.Lexeme, Target: target}, nil
}

// parseStructDecl implements:
//
//	struct_decl := 'struct' ident '{' newline* (field (newline+ field)*)? newline* '}'
//	field       := ident ':' type
func (p *Parser) parseStructDecl() (*ast.StructDecl, error) {
	tok := p.cur
	p.advance() // 'struct'
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	decl := &ast.StructDecl{DeclBase: ast.DeclBase{Tok: tok}, Name: name.Lexeme}
	p.skipNewlines()
	for !p.curIs(token.RBRACE) {
		if p.curIs(token.EOF) {
			return nil, p.errf("unterminated struct declaration, expected '}'")
		}
		fieldTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		fieldType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		decl.Fields = append(decl.Fields, ast.StructFieldDecl{Name: fieldTok.Lexeme, Annotation: fieldType})
		if err := p.expectStmtEnd(); err != nil {
			return nil, err
		}
		p.skipNewlines()
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) expectOperator(lexeme string) (token.Token, error) {
	if !p.curIsOp(lexeme) {
		return token.Token{}, p.errf("expected %q but got %s %q", lexeme, token.KindName(p.cur.Kind), p.cur.Lexeme)
	}
	t := p.cur
	p.advance()
	return t, nil
}
