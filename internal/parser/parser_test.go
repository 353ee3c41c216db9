package parser

import (
	"testing"

	"github.com/lucidlang/lucidc/internal/ast"
	"github.com/lucidlang/lucidc/internal/source"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(source.New("test.lucid", input))
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return prog
}

func parseExpr(t *testing.T, input string) ast.Expr {
	t.Helper()
	p := New(source.New("test.lucid", input))
	expr, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return expr
}

func TestLetDecl(t *testing.T) {
	prog := parseProgram(t, "let x: Integer = 5\n")
	if len(prog.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(prog.Decls))
	}
	decl, ok := prog.Decls[0].(*ast.LetDecl)
	if !ok {
		t.Fatalf("expected *ast.LetDecl, got %T", prog.Decls[0])
	}
	if decl.Name != "x" {
		t.Errorf("expected name x, got %s", decl.Name)
	}
	named, ok := decl.Annotation.(*ast.NamedTypeExpr)
	if !ok || named.Name != "Integer" {
		t.Errorf("expected annotation Integer, got %#v", decl.Annotation)
	}
	lit, ok := decl.Init.(*ast.IntegerLiteral)
	if !ok || lit.Value != 5 {
		t.Errorf("expected init literal 5, got %#v", decl.Init)
	}
}

func TestVarDeclWithoutInitializerNeedsAnnotation(t *testing.T) {
	prog := parseProgram(t, "var x: Integer\n")
	decl, ok := prog.Decls[0].(*ast.UninitializedVarDecl)
	if !ok {
		t.Fatalf("expected *ast.UninitializedVarDecl, got %T", prog.Decls[0])
	}
	if decl.Name != "x" {
		t.Errorf("expected name x, got %s", decl.Name)
	}
}

func TestVarDeclWithNeitherAnnotationNorInitializerErrors(t *testing.T) {
	p := New(source.New("test.lucid", "var x\n"))
	if _, err := p.ParseProgram(); err == nil {
		t.Fatal("expected an error for a var with no annotation and no initializer")
	}
}

func TestFuncDecl(t *testing.T) {
	prog := parseProgram(t, "func add(a: Integer, b: Integer) -> Integer {\n  return a + b\n}\n")
	fn, ok := prog.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", prog.Decls[0])
	}
	if fn.Name != "add" {
		t.Errorf("expected name add, got %s", fn.Name)
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Fatalf("unexpected params: %#v", fn.Params)
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body.Statements))
	}
	ret, ok := fn.Body.Statements[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected *ast.ReturnStmt, got %T", fn.Body.Statements[0])
	}
	bin, ok := ret.Value.(*ast.Binary)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected a+b binary, got %#v", ret.Value)
	}
}

func TestExternFuncVariadic(t *testing.T) {
	prog := parseProgram(t, "extern func printf(fmt: *Character, ...) -> Integer\n")
	ext, ok := prog.Decls[0].(*ast.ExternFuncDecl)
	if !ok {
		t.Fatalf("expected *ast.ExternFuncDecl, got %T", prog.Decls[0])
	}
	if !ext.IsVarArg {
		t.Error("expected IsVarArg true")
	}
	if len(ext.Params) != 1 || ext.Params[0].Name != "fmt" {
		t.Fatalf("unexpected params: %#v", ext.Params)
	}
}

func TestTypeAlias(t *testing.T) {
	prog := parseProgram(t, "typealias Pair = (Integer, Integer)\n")
	alias, ok := prog.Decls[0].(*ast.TypeAlias)
	if !ok {
		t.Fatalf("expected *ast.TypeAlias, got %T", prog.Decls[0])
	}
	tup, ok := alias.Target.(*ast.TupleTypeExpr)
	if !ok || len(tup.Elements) != 2 {
		t.Fatalf("expected a 2-element tuple type, got %#v", alias.Target)
	}
}

func TestListTypeAnnotation(t *testing.T) {
	prog := parseProgram(t, "let xs: [Integer; 3] = [1, 2, 3]\n")
	decl := prog.Decls[0].(*ast.LetDecl)
	lt, ok := decl.Annotation.(*ast.ListTypeExpr)
	if !ok || lt.Length != 3 {
		t.Fatalf("expected [Integer; 3], got %#v", decl.Annotation)
	}
	list, ok := decl.Init.(*ast.List)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("expected a 3-element list literal, got %#v", decl.Init)
	}
}

func TestArithmeticPrecedenceAndLeftAssociativity(t *testing.T) {
	// 1 + 2 * 3 - 4 should parse as (1 + (2 * 3)) - 4
	expr := parseExpr(t, "1 + 2 * 3 - 4")
	outer, ok := expr.(*ast.Binary)
	if !ok || outer.Op != "-" {
		t.Fatalf("expected top-level '-', got %#v", expr)
	}
	lit, ok := outer.Right.(*ast.IntegerLiteral)
	if !ok || lit.Value != 4 {
		t.Fatalf("expected right operand 4, got %#v", outer.Right)
	}
	inner, ok := outer.Left.(*ast.Binary)
	if !ok || inner.Op != "+" {
		t.Fatalf("expected left operand '+', got %#v", outer.Left)
	}
	mul, ok := inner.Right.(*ast.Binary)
	if !ok || mul.Op != "*" {
		t.Fatalf("expected '+' right operand '*', got %#v", inner.Right)
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	// a = b = 1 should parse as a = (b = 1)
	expr := parseExpr(t, "a = b = 1")
	outer, ok := expr.(*ast.Binary)
	if !ok || outer.Op != "=" {
		t.Fatalf("expected top-level '=', got %#v", expr)
	}
	if _, ok := outer.Left.(*ast.Identifier); !ok {
		t.Fatalf("expected left operand identifier, got %#v", outer.Left)
	}
	inner, ok := outer.Right.(*ast.Binary)
	if !ok || inner.Op != "=" {
		t.Fatalf("expected right operand '=', got %#v", outer.Right)
	}
}

func TestComparisonDoesNotAssociate(t *testing.T) {
	p := New(source.New("test.lucid", "a < b < c"))
	if _, err := p.ParseExpression(); err == nil {
		t.Fatal("expected an error: comparison operators do not chain")
	}
}

func TestParenGroupingVsTuple(t *testing.T) {
	grouped := parseExpr(t, "(1 + 2) * 3")
	bin, ok := grouped.(*ast.Binary)
	if !ok || bin.Op != "*" {
		t.Fatalf("expected a '*' at the top, got %#v", grouped)
	}
	if _, ok := bin.Left.(*ast.Binary); !ok {
		t.Fatalf("expected the parenthesized '+' to survive as the left operand, got %#v", bin.Left)
	}

	tuple := parseExpr(t, "(1, 2)")
	tup, ok := tuple.(*ast.Tuple)
	if !ok || len(tup.Elements) != 2 {
		t.Fatalf("expected a 2-element tuple, got %#v", tuple)
	}

	trailing := parseExpr(t, "(1,)")
	tup2, ok := trailing.(*ast.Tuple)
	if !ok || len(tup2.Elements) != 1 {
		t.Fatalf("expected a 1-element tuple from a trailing comma, got %#v", trailing)
	}
}

func TestAccessorChaining(t *testing.T) {
	expr := parseExpr(t, "a[0][1]")
	outer, ok := expr.(*ast.Accessor)
	if !ok {
		t.Fatalf("expected *ast.Accessor, got %#v", expr)
	}
	if outer.MemberIndex != -1 {
		t.Errorf("expected MemberIndex -1 before sema runs, got %d", outer.MemberIndex)
	}
	if _, ok := outer.Aggregate.(*ast.Accessor); !ok {
		t.Fatalf("expected a nested accessor, got %#v", outer.Aggregate)
	}
}

func TestFunctionCallArgs(t *testing.T) {
	expr := parseExpr(t, "add(1, 2 + 3)")
	call, ok := expr.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("expected *ast.FunctionCall, got %#v", expr)
	}
	if call.Callee != "add" {
		t.Errorf("expected callee add, got %s", call.Callee)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
}

func TestUnaryPrefixChaining(t *testing.T) {
	expr := parseExpr(t, "- -5")
	outer, ok := expr.(*ast.Unary)
	if !ok || outer.Op != ast.UnMinus {
		t.Fatalf("expected outer unary '-', got %#v", expr)
	}
	if _, ok := outer.Expr.(*ast.Unary); !ok {
		t.Fatalf("expected a nested unary, got %#v", outer.Expr)
	}
}

func TestIfElseIfElseChain(t *testing.T) {
	input := `if a {
  1
} else if b {
  2
} else {
  3
}
`
	expr := parseStmtHelper(t, input)
	cond, ok := expr.(*ast.ConditionalStmt)
	if !ok {
		t.Fatalf("expected *ast.ConditionalStmt, got %T", expr)
	}
	if len(cond.Clauses) != 3 {
		t.Fatalf("expected 3 clauses, got %d", len(cond.Clauses))
	}
	if cond.Clauses[2].Cond != nil {
		t.Errorf("expected the trailing else clause to have a nil Cond")
	}
}

func TestWhileLoop(t *testing.T) {
	expr := parseStmtHelper(t, "while x {\n  x = x - 1\n}\n")
	loop, ok := expr.(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected *ast.WhileStmt, got %T", expr)
	}
	if len(loop.Body.Statements) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(loop.Body.Statements))
	}
}

func parseStmtHelper(t *testing.T, input string) ast.Stmt {
	t.Helper()
	p := New(source.New("test.lucid", input))
	stmt, err := p.parseStmt()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return stmt
}

func TestBareReturn(t *testing.T) {
	prog := parseProgram(t, "func f() {\n  return\n}\n")
	fn := prog.Decls[0].(*ast.FuncDecl)
	ret, ok := fn.Body.Statements[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected *ast.ReturnStmt, got %T", fn.Body.Statements[0])
	}
	if ret.Value != nil {
		t.Errorf("expected a nil Value for a bare return, got %#v", ret.Value)
	}
}
