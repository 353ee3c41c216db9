// Package ast defines lucid's abstract syntax tree: tagged Expr, Stmt,
// Decl, and TypeExpr variants built by the parser and decorated by
// sema. Dispatch is by type switch over the sealed interfaces rather
// than virtual methods, following the teacher's tagged-node style.
package ast

import (
	"github.com/lucidlang/lucidc/internal/source"
	"github.com/lucidlang/lucidc/internal/token"
	"github.com/lucidlang/lucidc/internal/types"
)

// Node is the base every AST node implements.
type Node interface {
	Loc() source.Location
}

// TypeExpr is the parsed, pre-resolution spelling of a type (the
// `type` nonterminal in spec.md §6). sema resolves each TypeExpr into
// a canonical types.Type.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedTypeExpr is a bare identifier type reference, e.g. `Integer` or
// a typealias/struct name.
type NamedTypeExpr struct {
	Tok  token.Token
	Name string
}

func (t *NamedTypeExpr) Loc() source.Location { return t.Tok.Loc }
func (*NamedTypeExpr) typeExprNode()          {}

// TupleTypeExpr is `(T1, T2, ...)`.
type TupleTypeExpr struct {
	Tok      token.Token
	Elements []TypeExpr
}

func (t *TupleTypeExpr) Loc() source.Location { return t.Tok.Loc }
func (*TupleTypeExpr) typeExprNode()          {}

// ListTypeExpr is `[T; N]`.
type ListTypeExpr struct {
	Tok     token.Token
	Element TypeExpr
	Length  int
}

func (t *ListTypeExpr) Loc() source.Location { return t.Tok.Loc }
func (*ListTypeExpr) typeExprNode()          {}

// SliceTypeExpr is `[T]`.
type SliceTypeExpr struct {
	Tok     token.Token
	Element TypeExpr
}

func (t *SliceTypeExpr) Loc() source.Location { return t.Tok.Loc }
func (*SliceTypeExpr) typeExprNode()          {}

// PointerTypeExpr is `*T`.
type PointerTypeExpr struct {
	Tok      token.Token
	Referent TypeExpr
}

func (t *PointerTypeExpr) Loc() source.Location { return t.Tok.Loc }
func (*PointerTypeExpr) typeExprNode()          {}

// ReferenceTypeExpr is `&T`.
type ReferenceTypeExpr struct {
	Tok      token.Token
	Referent TypeExpr
}

func (t *ReferenceTypeExpr) Loc() source.Location { return t.Tok.Loc }
func (*ReferenceTypeExpr) typeExprNode()          {}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// Expr is the sealed expression variant. Every Expr carries a Type
// filled in by sema (non-nil once typing succeeds) and answers
// IsLvalue per the table in spec.md §3.
type Expr interface {
	Node
	Type() types.Type
	SetType(types.Type)
	IsLvalue() bool
	exprNode()
}

type ExprBase struct {
	Tok token.Token
	Typ types.Type
}

func (e *ExprBase) Loc() source.Location { return e.Tok.Loc }
func (e *ExprBase) Type() types.Type     { return e.Typ }
func (e *ExprBase) SetType(t types.Type) { e.Typ = t }
func (e *ExprBase) IsLvalue() bool       { return false }

// IntegerLiteral is an integer literal expression.
type IntegerLiteral struct {
	ExprBase
	Value int64
}

func (*IntegerLiteral) exprNode() {}

// DoubleLiteral is a double literal expression.
type DoubleLiteral struct {
	ExprBase
	Value float64
}

func (*DoubleLiteral) exprNode() {}

// CharacterLiteral is a character literal expression.
type CharacterLiteral struct {
	ExprBase
	Value rune
}

func (*CharacterLiteral) exprNode() {}

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	ExprBase
	Value bool
}

func (*BoolLiteral) exprNode() {}

// StringLiteral is a string literal expression.
type StringLiteral struct {
	ExprBase
	Value string
}

func (*StringLiteral) exprNode() {}

// Identifier is a name reference; BoundDecl is filled in by sema's
// resolution pass and never nil once an Identifier is successfully
// typed.
type Identifier struct {
	ExprBase
	Name      string
	BoundDecl Decl
}

func (*Identifier) exprNode() {}

// IsLvalue: var-bound identifiers (initialized or not) are lvalues;
// let-bound identifiers, params and everything else are not (spec.md
// §3's lvalue table).
func (i *Identifier) IsLvalue() bool {
	switch i.BoundDecl.(type) {
	case *VarDecl, *UninitializedVarDecl:
		return true
	default:
		return false
	}
}

// UnaryOp identifies a prefix operator.
type UnaryOp string

const (
	UnPlus    UnaryOp = "+"
	UnMinus   UnaryOp = "-"
	UnNot     UnaryOp = "!"
	UnAddress UnaryOp = "&"
	UnDeref   UnaryOp = "*"
)

// Unary is a prefix-operator expression.
type Unary struct {
	ExprBase
	Op   UnaryOp
	Expr Expr
}

func (*Unary) exprNode() {}

// IsLvalue: only `*p` (pointer dereference) is an lvalue.
func (u *Unary) IsLvalue() bool { return u.Op == UnDeref }

// BinaryOp identifies an infix operator by its lexeme.
type BinaryOp string

// Binary is an infix-operator expression, including the assignment
// operators (`=`, `+=`, ...), which are modeled as Binary with Op "="
// etc. rather than a separate Assignment node, since spec.md's
// precedence table treats Assignment as just another (right-
// associative) level.
type Binary struct {
	ExprBase
	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (*Binary) exprNode() {}

// Tuple is a parenthesized, comma-separated expression list with two
// or more elements (or a trailing comma), per spec.md §9's
// tuple-vs-grouping rule; empty parentheses `()` are a zero-element
// Tuple.
type Tuple struct {
	ExprBase
	Elements []Expr
}

func (*Tuple) exprNode() {}

// List is a bracketed expression list `[e1, e2, ...]`.
type List struct {
	ExprBase
	Elements []Expr
}

func (*List) exprNode() {}

// Accessor is `aggregate[index]`, used for both compile-time tuple/
// struct member access and runtime list/slice indexing.
type Accessor struct {
	ExprBase
	Aggregate Expr
	Index     Expr

	// MemberIndex is the resolved compile-time member index for
	// tuple/struct accesses (spec.md §4.3); -1 until sema fills it in,
	// and unused for list/slice accesses.
	MemberIndex int
}

func (*Accessor) exprNode()      {}
func (*Accessor) IsLvalue() bool { return true }

// FunctionCall is `callee(args...)`.
type FunctionCall struct {
	ExprBase
	Callee string
	Args   []Expr

	// ResolvedDecl is filled in by sema once overload resolution picks
	// a single candidate.
	ResolvedDecl Decl
}

func (*FunctionCall) exprNode() {}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// Stmt is the sealed statement variant.
type Stmt interface {
	Node
	stmtNode()
}

type StmtBase struct {
	Tok token.Token
}

func (s *StmtBase) Loc() source.Location { return s.Tok.Loc }

// DeclStmt wraps a Decl appearing in statement position (let/var).
type DeclStmt struct {
	StmtBase
	Decl Decl
}

func (*DeclStmt) stmtNode() {}

// ExprStmt is an expression evaluated for its side effect.
type ExprStmt struct {
	StmtBase
	Expr Expr
}

func (*ExprStmt) stmtNode() {}

// ReturnStmt is `return expr?`.
type ReturnStmt struct {
	StmtBase
	Value Expr // nil for a bare `return`
}

func (*ReturnStmt) stmtNode() {}

// WhileStmt is `while cond block`.
type WhileStmt struct {
	StmtBase
	Cond Expr
	Body *CompoundStmt
}

func (*WhileStmt) stmtNode() {}

// ConditionalClause is one `if`/`else if`/`else` arm. Cond is nil for
// the trailing `else`, which spec.md §3 requires to be last.
type ConditionalClause struct {
	Cond Expr
	Body *CompoundStmt
}

// ConditionalStmt is the whole `if ... else if ... else ...` chain,
// represented as a single node with an ordered clause list.
type ConditionalStmt struct {
	StmtBase
	Clauses []ConditionalClause
}

func (*ConditionalStmt) stmtNode() {}

// CompoundStmt is a `{ ... }` block: an ordered statement list that
// also introduces a new lexical scope.
type CompoundStmt struct {
	StmtBase
	Statements []Stmt
}

func (*CompoundStmt) stmtNode() {}

// ---------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------

// Decl is the sealed declaration variant.
type Decl interface {
	Node
	DeclName() string
	declNode()
}

type DeclBase struct {
	Tok token.Token
}

func (d *DeclBase) Loc() source.Location { return d.Tok.Loc }

// LetDecl is `let name: T? = init`. Never an lvalue once bound.
type LetDecl struct {
	DeclBase
	Name        string
	Annotation  TypeExpr // nil if the type is inferred from Init
	Init        Expr
	ResolvedTyp types.Type
}

func (d *LetDecl) DeclName() string { return d.Name }
func (*LetDecl) declNode()          {}

// VarDecl is `var name: T? = init`. Always an lvalue once bound.
type VarDecl struct {
	DeclBase
	Name        string
	Annotation  TypeExpr
	Init        Expr
	ResolvedTyp types.Type
}

func (d *VarDecl) DeclName() string { return d.Name }
func (*VarDecl) declNode()          {}

// UninitializedVarDecl is `var name: T` with no initializer.
type UninitializedVarDecl struct {
	DeclBase
	Name        string
	Annotation  TypeExpr
	ResolvedTyp types.Type
}

func (d *UninitializedVarDecl) DeclName() string { return d.Name }
func (*UninitializedVarDecl) declNode()          {}

// ParamDecl is one function parameter, with an optional default
// expression (parsed, not evaluated by the core: spec.md's grammar
// allows defaults in signatures but evaluation/binding at call sites
// is a caller concern).
type ParamDecl struct {
	DeclBase
	Name        string
	Annotation  TypeExpr
	Default     Expr
	ResolvedTyp types.Type
}

func (d *ParamDecl) DeclName() string { return d.Name }
func (*ParamDecl) declNode()          {}

// FuncDecl is a full function definition.
type FuncDecl struct {
	DeclBase
	Name       string
	Params     []*ParamDecl
	ReturnType TypeExpr // nil means Unit
	Body       *CompoundStmt

	ResolvedTyp *types.FunctionType
}

func (d *FuncDecl) DeclName() string { return d.Name }
func (*FuncDecl) declNode()          {}

// ExternFuncDecl is `extern func name(params) -> T?`, with no body.
type ExternFuncDecl struct {
	DeclBase
	Name       string
	Params     []*ParamDecl
	ReturnType TypeExpr
	IsVarArg   bool

	ResolvedTyp *types.FunctionType
}

func (d *ExternFuncDecl) DeclName() string { return d.Name }
func (*ExternFuncDecl) declNode()          {}

// StructFieldDecl is one `name: type` field in a struct declaration.
type StructFieldDecl struct {
	Name       string
	Annotation TypeExpr
}

// StructDecl is `struct name { field: type, ... }`, spec.md §3's
// `TypeDecl(name)` declaration variant specialized to struct syntax:
// the only surface form that introduces a named StructType.
type StructDecl struct {
	DeclBase
	Name   string
	Fields []StructFieldDecl

	ResolvedTyp *types.StructType
}

func (d *StructDecl) DeclName() string { return d.Name }
func (*StructDecl) declNode()          {}

// TypeAlias is `typealias name = T`.
type TypeAlias struct {
	DeclBase
	Name   string
	Target TypeExpr

	ResolvedTyp types.Type
}

func (d *TypeAlias) DeclName() string { return d.Name }
func (*TypeAlias) declNode()          {}

// Program is the root AST node: every top-level declaration in one
// file, in source order.
type Program struct {
	Decls []Decl
}

func (p *Program) Loc() source.Location {
	if len(p.Decls) > 0 {
		return p.Decls[0].Loc()
	}
	return source.Location{}
}
