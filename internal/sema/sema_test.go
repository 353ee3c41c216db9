package sema

import (
	"testing"

	"github.com/lucidlang/lucidc/internal/ast"
	"github.com/lucidlang/lucidc/internal/parser"
	"github.com/lucidlang/lucidc/internal/source"
	"github.com/lucidlang/lucidc/internal/types"
)

func mustResolve(t *testing.T, input string) (*ast.Program, *Resolver) {
	t.Helper()
	p := parser.New(source.New("test.lucid", input))
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	r := NewResolver()
	if err := r.Run(prog); err != nil {
		t.Fatalf("unexpected resolution error: %v", err)
	}
	return prog, r
}

func resolveExpectError(t *testing.T, input string) error {
	t.Helper()
	p := parser.New(source.New("test.lucid", input))
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	r := NewResolver()
	err = r.Run(prog)
	if err == nil {
		t.Fatal("expected a resolution error, got none")
	}
	return err
}

func TestIntegerPrecedenceTyping(t *testing.T) {
	prog, _ := mustResolve(t, "func f() -> Integer {\n  return 1 + 2 * 3\n}\n")
	fn := prog.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Statements[0].(*ast.ReturnStmt)
	if !types.Equal(ret.Value.Type(), types.Integer) {
		t.Fatalf("expected Integer, got %s", ret.Value.Type())
	}
}

func TestLetAndReturn(t *testing.T) {
	prog, _ := mustResolve(t, "func f() -> Integer {\n  let a: Integer = 5\n  return a\n}\n")
	fn := prog.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Statements[1].(*ast.ReturnStmt)
	ident := ret.Value.(*ast.Identifier)
	if ident.BoundDecl == nil {
		t.Fatal("expected the identifier to be bound to a declaration")
	}
	if _, ok := ident.BoundDecl.(*ast.LetDecl); !ok {
		t.Fatalf("expected binding to *ast.LetDecl, got %T", ident.BoundDecl)
	}
	if !types.Equal(ident.Type(), types.Integer) {
		t.Fatalf("expected Integer, got %s", ident.Type())
	}
}

func TestLetInferredFromInitializer(t *testing.T) {
	prog, _ := mustResolve(t, "func f() -> Double {\n  let a = 1.5\n  return a\n}\n")
	fn := prog.Decls[0].(*ast.FuncDecl)
	letDecl := fn.Body.Statements[0].(*ast.DeclStmt).Decl.(*ast.LetDecl)
	if !types.Equal(letDecl.ResolvedTyp, types.Double) {
		t.Fatalf("expected inferred type Double, got %s", letDecl.ResolvedTyp)
	}
}

func TestWhileLoopCondition(t *testing.T) {
	prog, _ := mustResolve(t, `func sum(n: Integer) -> Integer {
  var i: Integer = 0
  var s: Integer = 0
  while i < n {
    s = s + i
    i = i + 1
  }
  return s
}
`)
	fn := prog.Decls[0].(*ast.FuncDecl)
	loop := fn.Body.Statements[2].(*ast.WhileStmt)
	if !types.Equal(loop.Cond.Type(), types.Boolean) {
		t.Fatalf("expected Boolean condition, got %s", loop.Cond.Type())
	}
}

func TestIfElseIfElseClauseTyping(t *testing.T) {
	prog, _ := mustResolve(t, `func g(x: Integer) -> Integer {
  if x < 0 {
    return -1
  } else if x == 0 {
    return 0
  } else {
    return 1
  }
}
`)
	fn := prog.Decls[0].(*ast.FuncDecl)
	cond := fn.Body.Statements[0].(*ast.ConditionalStmt)
	if len(cond.Clauses) != 3 {
		t.Fatalf("expected 3 clauses, got %d", len(cond.Clauses))
	}
	if cond.Clauses[2].Cond != nil {
		t.Fatal("expected the trailing else clause's Cond to be nil")
	}
}

func TestTupleAccessorMemberIndex(t *testing.T) {
	prog, _ := mustResolve(t, `func f() -> Integer {
  let t: (Integer, Integer) = (3, 4)
  return t[1]
}
`)
	fn := prog.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Statements[1].(*ast.ReturnStmt)
	acc := ret.Value.(*ast.Accessor)
	if acc.MemberIndex != 1 {
		t.Fatalf("expected MemberIndex 1, got %d", acc.MemberIndex)
	}
	if !types.Equal(acc.Type(), types.Integer) {
		t.Fatalf("expected Integer, got %s", acc.Type())
	}
}

func TestTupleAccessorOutOfRange(t *testing.T) {
	resolveExpectError(t, `func f() -> Integer {
  let t: (Integer, Integer) = (3, 4)
  return t[2]
}
`)
}

func TestDoubleAndIntCoercion(t *testing.T) {
	prog, _ := mustResolve(t, `func f() -> Double {
  return Double(3) + 1.5
}
`)
	fn := prog.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Statements[0].(*ast.ReturnStmt)
	if !types.Equal(ret.Value.Type(), types.Double) {
		t.Fatalf("expected Double, got %s", ret.Value.Type())
	}
}

func TestOperandMismatchIsError(t *testing.T) {
	resolveExpectError(t, `func f() -> Integer {
  return 1 + true
}
`)
}

func TestAssignToLetIsError(t *testing.T) {
	resolveExpectError(t, `func f() {
  let a: Integer = 5
  a = 6
}
`)
}

func TestAssignToVarIsLvalue(t *testing.T) {
	mustResolve(t, `func f() {
  var a: Integer = 5
  a = 6
}
`)
}

func TestFunctionMustReturnOnEveryPath(t *testing.T) {
	resolveExpectError(t, `func f() -> Integer {
  if true {
    return 1
  }
}
`)
}

func TestFunctionReturnsOnEveryPathWithElse(t *testing.T) {
	mustResolve(t, `func f() -> Integer {
  if true {
    return 1
  } else {
    return 2
  }
}
`)
}

func TestUndeclaredIdentifierIsError(t *testing.T) {
	resolveExpectError(t, `func f() -> Integer {
  return missing
}
`)
}

func TestTypeAliasResolution(t *testing.T) {
	prog, r := mustResolve(t, `typealias Pair = (Integer, Integer)
func f() -> Pair {
  return (1, 2)
}
`)
	fn := prog.Decls[1].(*ast.FuncDecl)
	ft := fn.ResolvedTyp
	tup, ok := ft.Return.(*types.TupleType)
	if !ok {
		t.Fatalf("expected the alias to resolve to a tuple type, got %T", ft.Return)
	}
	if len(tup.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(tup.Elements))
	}
	_ = r
}

func TestForwardReferenceToLaterFunction(t *testing.T) {
	mustResolve(t, `func a() -> Integer {
  return b()
}
func b() -> Integer {
  return 5
}
`)
}

func TestVariadicExternCallAcceptsExtraArgs(t *testing.T) {
	mustResolve(t, `extern func printf(fmt: *Character, ...) -> Integer
func f() {
  printf("count: %d", 1)
}
`)
}

func TestReferenceAndDeref(t *testing.T) {
	prog, _ := mustResolve(t, `func f() -> Integer {
  var a: Integer = 5
  let p: &Integer = &a
  return *p
}
`)
	fn := prog.Decls[0].(*ast.FuncDecl)
	letDecl := fn.Body.Statements[1].(*ast.DeclStmt).Decl.(*ast.LetDecl)
	if _, ok := letDecl.ResolvedTyp.(*types.ReferenceType); !ok {
		t.Fatalf("expected p's declared type to be a reference type, got %T", letDecl.ResolvedTyp)
	}
	addr := letDecl.Init.(*ast.Unary)
	if addr.Op != ast.UnAddress {
		t.Fatalf("expected &a, got %#v", letDecl.Init)
	}
	if _, ok := addr.Type().(*types.ReferenceType); !ok {
		t.Fatalf("expected &a to type as a ReferenceType, got %T", addr.Type())
	}
}

func TestStructFieldAccessor(t *testing.T) {
	prog, _ := mustResolve(t, `struct Point {
  x: Integer
  y: Integer
}
func f() -> Integer {
  var p: Point
  p[0] = 1
  return p[0]
}
`)
	structDecl := prog.Decls[0].(*ast.StructDecl)
	if structDecl.ResolvedTyp == nil || len(structDecl.ResolvedTyp.Fields) != 2 {
		t.Fatalf("expected Point to resolve to a 2-field struct type, got %v", structDecl.ResolvedTyp)
	}
	fn := prog.Decls[1].(*ast.FuncDecl)
	ret := fn.Body.Statements[2].(*ast.ReturnStmt)
	acc := ret.Value.(*ast.Accessor)
	if acc.MemberIndex != 0 {
		t.Fatalf("expected MemberIndex 0, got %d", acc.MemberIndex)
	}
	if !types.Equal(acc.Type(), types.Integer) {
		t.Fatalf("expected Integer, got %s", acc.Type())
	}
}

func TestStructSelfReferenceByPointerResolves(t *testing.T) {
	mustResolve(t, `struct Node {
  value: Integer
  next: *Node
}
func f() {
  var n: Node
}
`)
}

func TestStructDefinedInTermsOfItselfIsError(t *testing.T) {
	resolveExpectError(t, `struct Bad {
  self: Bad
}
func f() {
  var b: Bad
}
`)
}

func TestAddressOfNonLvalueIsError(t *testing.T) {
	resolveExpectError(t, `func f() {
  let x = &5
}
`)
}
