// Package ir lowers a typed lucid AST onto an LLVM module using
// tinygo.org/x/go-llvm, following the entry-block/alloca-per-local
// lowering shape spec.md §4.4 describes.
package ir

import (
	"tinygo.org/x/go-llvm"

	"github.com/lucidlang/lucidc/internal/ast"
	"github.com/lucidlang/lucidc/internal/diag"
	"github.com/lucidlang/lucidc/internal/types"
)

// Lowerer owns the single Context/Module/Builder triple for one
// compilation unit, matching spec.md §5's single-threaded resource
// model (no locking, unlike vslc's parallel global-declaration pass).
type Lowerer struct {
	ctx     llvm.Context
	module  llvm.Module
	builder llvm.Builder

	namedStructs map[string]llvm.Type

	i1, i8, i32, i64, f64, voidTy llvm.Type
}

// funcCtx is the per-function lowering state: the symbol table mapping
// each in-scope declaration to either its argument value (params) or
// its alloca (locals), per spec.md §4.4's function-lowering note.
type funcCtx struct {
	fn      llvm.Value
	locals  map[ast.Decl]llvm.Value
	retType types.Type
}

// NewLowerer creates a Lowerer with a fresh Context and a Module named
// moduleName.
func NewLowerer(moduleName string) *Lowerer {
	ctx := llvm.NewContext()
	lw := &Lowerer{
		ctx:          ctx,
		module:       ctx.NewModule(moduleName),
		builder:      ctx.NewBuilder(),
		namedStructs: make(map[string]llvm.Type),
	}
	lw.i1 = ctx.Int1Type()
	lw.i8 = ctx.Int8Type()
	lw.i32 = ctx.Int32Type()
	lw.i64 = ctx.Int64Type()
	lw.f64 = ctx.DoubleType()
	lw.voidTy = ctx.VoidType()
	return lw
}

// Dispose releases the Context, Module, and Builder. Callers that
// intend to keep the Module past the Lowerer's lifetime (e.g. to emit
// it to a file) must do so before calling Dispose.
func (lw *Lowerer) Dispose() {
	lw.builder.Dispose()
	lw.ctx.Dispose()
}

// Module returns the LLVM module being built.
func (lw *Lowerer) Module() llvm.Module { return lw.module }

// Lower lowers every top-level declaration of prog into the module:
// function and extern signatures first (so forward and mutually
// recursive calls resolve), then function bodies.
func (lw *Lowerer) Lower(prog *ast.Program) error {
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			lw.declareFunc(d.Name, d.ResolvedTyp)
		case *ast.ExternFuncDecl:
			lw.declareFunc(d.Name, d.ResolvedTyp)
		}
	}
	for _, decl := range prog.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			if err := lw.lowerFunc(fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (lw *Lowerer) declareFunc(name string, ft *types.FunctionType) llvm.Value {
	if existing := lw.module.NamedFunction(name); !existing.IsNil() {
		return existing
	}
	return llvm.AddFunction(lw.module, name, lw.lowerType(ft))
}

// lowerFunc lowers one FuncDecl's body. Nested function declarations
// are not supported, per spec.md §4.4; the parser's parseStmt accepts
// only let/var declarations in a body and never produces one, so this
// is an invariant rather than a runtime check.
func (lw *Lowerer) lowerFunc(fn *ast.FuncDecl) error {
	llFn := lw.module.NamedFunction(fn.Name)
	for i, p := range fn.Params {
		llFn.Param(i).SetName(p.Name)
	}

	entry := llvm.AddBasicBlock(llFn, "entry")
	lw.builder.SetInsertPointAtEnd(entry)

	fc := &funcCtx{
		fn:      llFn,
		locals:  make(map[ast.Decl]llvm.Value, len(fn.Params)),
		retType: fn.ResolvedTyp.Return,
	}
	for i, p := range fn.Params {
		fc.locals[p] = llFn.Param(i)
	}

	terminated, err := lw.lowerBlock(fc, fn.Body)
	if err != nil {
		return err
	}
	if !terminated {
		// sema's reachability check (blockTerminates) guarantees this
		// only happens for Unit-returning functions.
		lw.builder.CreateRetVoid()
	}
	return nil
}

func declName(d ast.Decl) string {
	switch v := d.(type) {
	case *ast.FuncDecl:
		return v.Name
	case *ast.ExternFuncDecl:
		return v.Name
	default:
		return d.DeclName()
	}
}

func unhandled(n ast.Node, what string, v any) error {
	return diag.New(n.Loc(), "ir: unhandled %s %T", what, v)
}
