package sema

import (
	"github.com/lucidlang/lucidc/internal/ast"
	"github.com/lucidlang/lucidc/internal/diag"
	"github.com/lucidlang/lucidc/internal/types"
)

// Resolver drives the two-pass walk: buildContexts assigns every
// statement an enclosing DeclarationContext and registers every
// declaration; Typecheck then types every expression and binds every
// identifier against the contexts built in pass one.
type Resolver struct {
	interner *types.Interner
	root     *DeclarationContext
	ctxOf    map[ast.Node]*DeclarationContext

	resolvingAliases map[*ast.TypeAlias]bool

	// curReturn is the declared return type of the FuncDecl currently
	// being typed, nil outside any function body.
	curReturn types.Type
}

// NewResolver creates a Resolver with a fresh type interner and an
// empty global scope.
func NewResolver() *Resolver {
	return &Resolver{
		interner: types.NewInterner(),
		root:     NewRootContext(),
		ctxOf:    make(map[ast.Node]*DeclarationContext),
	}
}

// Interner returns the type interner populated during resolution.
func (r *Resolver) Interner() *types.Interner { return r.interner }

// Run performs both passes over prog, producing a fully typed,
// fully bound AST or the first error encountered.
func (r *Resolver) Run(prog *ast.Program) error {
	if err := r.buildContexts(prog); err != nil {
		return err
	}
	return r.typecheckProgram(prog)
}

// buildContexts is pass one: it walks the whole program once,
// registering every declaration in its enclosing scope before any
// typing happens, so that forward references (a function calling
// another declared later in the file) resolve correctly.
func (r *Resolver) buildContexts(prog *ast.Program) error {
	for _, decl := range prog.Decls {
		if err := r.declareTopLevel(decl); err != nil {
			return err
		}
	}
	for _, decl := range prog.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			if err := r.buildFuncContext(fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Resolver) declareTopLevel(decl ast.Decl) error {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		r.root.Declare(d.Name, d)
	case *ast.ExternFuncDecl:
		r.root.Declare(d.Name, d)
	case *ast.TypeAlias:
		r.root.Declare(d.Name, d)
	case *ast.StructDecl:
		r.root.Declare(d.Name, d)
	case *ast.LetDecl:
		r.root.Declare(d.Name, d)
		r.ctxOf[d] = r.root
	case *ast.VarDecl:
		r.root.Declare(d.Name, d)
		r.ctxOf[d] = r.root
	case *ast.UninitializedVarDecl:
		r.root.Declare(d.Name, d)
		r.ctxOf[d] = r.root
	default:
		return diag.New(decl.Loc(), "unhandled top-level declaration %T", decl)
	}
	return nil
}

func (r *Resolver) buildFuncContext(fn *ast.FuncDecl) error {
	fnCtx := r.root.NewChild()
	r.ctxOf[fn] = fnCtx
	for _, p := range fn.Params {
		fnCtx.Declare(p.Name, p)
		r.ctxOf[p] = fnCtx
	}
	bodyCtx := fnCtx.NewChild()
	r.ctxOf[fn.Body] = bodyCtx
	return r.buildBlockContext(fn.Body, bodyCtx)
}

// buildBlockContext registers the declarations a CompoundStmt directly
// introduces and recurses into nested control-flow blocks, each of
// which gets its own child context.
func (r *Resolver) buildBlockContext(block *ast.CompoundStmt, ctx *DeclarationContext) error {
	for _, stmt := range block.Statements {
		r.ctxOf[stmt] = ctx
		switch s := stmt.(type) {
		case *ast.DeclStmt:
			r.ctxOf[s.Decl] = ctx
			if err := r.declareLocal(s.Decl, ctx); err != nil {
				return err
			}
		case *ast.WhileStmt:
			childCtx := ctx.NewChild()
			r.ctxOf[s.Body] = childCtx
			if err := r.buildBlockContext(s.Body, childCtx); err != nil {
				return err
			}
		case *ast.ConditionalStmt:
			for i := range s.Clauses {
				childCtx := ctx.NewChild()
				r.ctxOf[s.Clauses[i].Body] = childCtx
				if err := r.buildBlockContext(s.Clauses[i].Body, childCtx); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *Resolver) declareLocal(decl ast.Decl, ctx *DeclarationContext) error {
	switch d := decl.(type) {
	case *ast.LetDecl:
		ctx.Declare(d.Name, d)
	case *ast.VarDecl:
		ctx.Declare(d.Name, d)
	case *ast.UninitializedVarDecl:
		ctx.Declare(d.Name, d)
	default:
		return diag.New(decl.Loc(), "unhandled local declaration %T", decl)
	}
	return nil
}
