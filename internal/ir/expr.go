package ir

import (
	"tinygo.org/x/go-llvm"

	"github.com/lucidlang/lucidc/internal/ast"
	"github.com/lucidlang/lucidc/internal/diag"
	"github.com/lucidlang/lucidc/internal/types"
)

// lowerExpr lowers expr to the llvm.Value it evaluates to.
func (lw *Lowerer) lowerExpr(fc *funcCtx, expr ast.Expr) (llvm.Value, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return llvm.ConstInt(lw.i64, uint64(e.Value), true), nil
	case *ast.DoubleLiteral:
		return llvm.ConstFloat(lw.f64, e.Value), nil
	case *ast.CharacterLiteral:
		return llvm.ConstInt(lw.i8, uint64(e.Value), false), nil
	case *ast.BoolLiteral:
		v := uint64(0)
		if e.Value {
			v = 1
		}
		return llvm.ConstInt(lw.i1, v, false), nil
	case *ast.StringLiteral:
		return lw.builder.CreateGlobalStringPtr(e.Value, "str"), nil
	case *ast.Identifier:
		return lw.lowerIdentifier(fc, e)
	case *ast.Unary:
		return lw.lowerUnary(fc, e)
	case *ast.Binary:
		return lw.lowerBinary(fc, e)
	case *ast.Accessor:
		ptr, err := lw.transformExprReference(fc, e)
		if err != nil {
			return llvm.Value{}, err
		}
		return lw.builder.CreateLoad(ptr, ""), nil
	case *ast.FunctionCall:
		return lw.lowerCall(fc, e)
	case *ast.Tuple:
		return lw.lowerAggregateValue(fc, e.Elements, e.Type())
	case *ast.List:
		return lw.lowerAggregateValue(fc, e.Elements, e.Type())
	default:
		return llvm.Value{}, unhandled(expr, "expression", expr)
	}
}

func (lw *Lowerer) lowerIdentifier(fc *funcCtx, e *ast.Identifier) (llvm.Value, error) {
	v, ok := fc.locals[e.BoundDecl]
	if !ok {
		return llvm.Value{}, diag.New(e.Loc(), "ir: internal error: identifier %q has no storage", e.Name)
	}
	if _, isParam := e.BoundDecl.(*ast.ParamDecl); isParam {
		return v, nil
	}
	return lw.builder.CreateLoad(v, ""), nil
}

func (lw *Lowerer) lowerUnary(fc *funcCtx, e *ast.Unary) (llvm.Value, error) {
	if e.Op == ast.UnAddress {
		return lw.transformExprReference(fc, e.Expr)
	}
	v, err := lw.lowerExpr(fc, e.Expr)
	if err != nil {
		return llvm.Value{}, err
	}
	switch e.Op {
	case ast.UnPlus:
		return v, nil
	case ast.UnMinus:
		if types.Equal(e.Expr.Type(), types.Double) {
			return lw.builder.CreateFNeg(v, ""), nil
		}
		return lw.builder.CreateNeg(v, ""), nil
	case ast.UnNot:
		return lw.builder.CreateNot(v, ""), nil
	case ast.UnDeref:
		return lw.builder.CreateLoad(v, ""), nil
	default:
		return llvm.Value{}, diag.New(e.Loc(), "ir: unhandled unary operator %s", e.Op)
	}
}

var assignUnderlying = map[ast.BinaryOp]ast.BinaryOp{
	"+=": "+", "-=": "-", "*=": "*", "/=": "/", "%=": "%", "<<=": "<<", ">>=": ">>",
}

func (lw *Lowerer) lowerBinary(fc *funcCtx, e *ast.Binary) (llvm.Value, error) {
	if e.Op == "=" {
		dst, err := lw.transformExprReference(fc, e.Left)
		if err != nil {
			return llvm.Value{}, err
		}
		rhs, err := lw.lowerExpr(fc, e.Right)
		if err != nil {
			return llvm.Value{}, err
		}
		lw.builder.CreateStore(rhs, dst)
		return rhs, nil
	}
	if underlying, ok := assignUnderlying[e.Op]; ok {
		dst, err := lw.transformExprReference(fc, e.Left)
		if err != nil {
			return llvm.Value{}, err
		}
		cur := lw.builder.CreateLoad(dst, "")
		rhs, err := lw.lowerExpr(fc, e.Right)
		if err != nil {
			return llvm.Value{}, err
		}
		result := lw.applyBinaryOp(underlying, e.Left.Type(), cur, rhs)
		lw.builder.CreateStore(result, dst)
		return result, nil
	}

	lhs, err := lw.lowerExpr(fc, e.Left)
	if err != nil {
		return llvm.Value{}, err
	}
	rhs, err := lw.lowerExpr(fc, e.Right)
	if err != nil {
		return llvm.Value{}, err
	}
	return lw.applyBinaryOp(e.Op, e.Left.Type(), lhs, rhs), nil
}

// applyBinaryOp dispatches on the lucid operand type, per spec.md
// §4.4: integer ops use signed semantics, double ops use ordered
// float compares, and boolean && / || lower to bitwise and/or.
func (lw *Lowerer) applyBinaryOp(op ast.BinaryOp, operandTyp types.Type, l, r llvm.Value) llvm.Value {
	isDouble := types.Equal(operandTyp, types.Double)
	switch op {
	case "+":
		if isDouble {
			return lw.builder.CreateFAdd(l, r, "")
		}
		return lw.builder.CreateAdd(l, r, "")
	case "-":
		if isDouble {
			return lw.builder.CreateFSub(l, r, "")
		}
		return lw.builder.CreateSub(l, r, "")
	case "*":
		if isDouble {
			return lw.builder.CreateFMul(l, r, "")
		}
		return lw.builder.CreateMul(l, r, "")
	case "/":
		if isDouble {
			return lw.builder.CreateFDiv(l, r, "")
		}
		return lw.builder.CreateSDiv(l, r, "")
	case "%":
		return lw.builder.CreateSRem(l, r, "")
	case "<<":
		return lw.builder.CreateShl(l, r, "")
	case ">>":
		return lw.builder.CreateAShr(l, r, "")
	case "==":
		if isDouble {
			return lw.builder.CreateFCmp(llvm.FloatOEQ, l, r, "")
		}
		return lw.builder.CreateICmp(llvm.IntEQ, l, r, "")
	case "!=":
		if isDouble {
			return lw.builder.CreateFCmp(llvm.FloatONE, l, r, "")
		}
		return lw.builder.CreateICmp(llvm.IntNE, l, r, "")
	case "<":
		if isDouble {
			return lw.builder.CreateFCmp(llvm.FloatOLT, l, r, "")
		}
		return lw.builder.CreateICmp(llvm.IntSLT, l, r, "")
	case ">":
		if isDouble {
			return lw.builder.CreateFCmp(llvm.FloatOGT, l, r, "")
		}
		return lw.builder.CreateICmp(llvm.IntSGT, l, r, "")
	case "<=":
		if isDouble {
			return lw.builder.CreateFCmp(llvm.FloatOLE, l, r, "")
		}
		return lw.builder.CreateICmp(llvm.IntSLE, l, r, "")
	case ">=":
		if isDouble {
			return lw.builder.CreateFCmp(llvm.FloatOGE, l, r, "")
		}
		return lw.builder.CreateICmp(llvm.IntSGE, l, r, "")
	case "&&":
		return lw.builder.CreateAnd(l, r, "")
	case "||":
		return lw.builder.CreateOr(l, r, "")
	default:
		panic("ir: unhandled binary operator " + string(op))
	}
}

func (lw *Lowerer) lowerCall(fc *funcCtx, e *ast.FunctionCall) (llvm.Value, error) {
	switch e.Callee {
	case "Double":
		v, err := lw.lowerExpr(fc, e.Args[0])
		if err != nil {
			return llvm.Value{}, err
		}
		return lw.builder.CreateSIToFP(v, lw.f64, ""), nil
	case "Int":
		v, err := lw.lowerExpr(fc, e.Args[0])
		if err != nil {
			return llvm.Value{}, err
		}
		return lw.builder.CreateFPToSI(v, lw.i64, ""), nil
	}

	target := lw.module.NamedFunction(declName(e.ResolvedDecl))
	if target.IsNil() {
		return llvm.Value{}, diag.New(e.Loc(), "ir: internal error: function %q not declared in module", e.Callee)
	}
	args := make([]llvm.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := lw.lowerExpr(fc, a)
		if err != nil {
			return llvm.Value{}, err
		}
		args[i] = v
	}
	return lw.builder.CreateCall(target, args, ""), nil
}

// transformExprReference produces a pointer suitable for load/store,
// per spec.md §4.4's location-lowering algorithm.
func (lw *Lowerer) transformExprReference(fc *funcCtx, expr ast.Expr) (llvm.Value, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if _, isParam := e.BoundDecl.(*ast.ParamDecl); isParam {
			return llvm.Value{}, diag.New(e.Loc(), "ir: cannot take the address of parameter %q", e.Name)
		}
		ptr, ok := fc.locals[e.BoundDecl]
		if !ok {
			return llvm.Value{}, diag.New(e.Loc(), "ir: internal error: identifier %q has no storage", e.Name)
		}
		return ptr, nil

	case *ast.Unary:
		if e.Op != ast.UnDeref {
			return llvm.Value{}, diag.New(e.Loc(), "ir: cannot take the address of a non-lvalue expression")
		}
		// `*p` is a location: p's value is already the pointer to store
		// through, so no further GEP is needed.
		return lw.lowerExpr(fc, e.Expr)

	case *ast.Accessor:
		switch e.Aggregate.Type().Canonical().(type) {
		case *types.SliceType, *types.PointerType, *types.ReferenceType:
			// Already a location: the value itself is the pointer to index.
			base, err := lw.lowerExpr(fc, e.Aggregate)
			if err != nil {
				return llvm.Value{}, err
			}
			idx, err := lw.lowerExpr(fc, e.Index)
			if err != nil {
				return llvm.Value{}, err
			}
			idx32 := lw.builder.CreateIntCast(idx, lw.i32, "idx")
			return lw.builder.CreateGEP(base, []llvm.Value{idx32}, ""), nil
		default:
			aggPtr, err := lw.transformExprReference(fc, e.Aggregate)
			if err != nil {
				return llvm.Value{}, err
			}
			var idxVal llvm.Value
			if e.MemberIndex >= 0 {
				idxVal = llvm.ConstInt(lw.i32, uint64(e.MemberIndex), false)
			} else {
				dyn, err := lw.lowerExpr(fc, e.Index)
				if err != nil {
					return llvm.Value{}, err
				}
				idxVal = lw.builder.CreateIntCast(dyn, lw.i32, "idx")
			}
			zero := llvm.ConstInt(lw.i32, 0, false)
			return lw.builder.CreateGEP(aggPtr, []llvm.Value{zero, idxVal}, ""), nil
		}

	default:
		if !expr.IsLvalue() {
			return llvm.Value{}, diag.New(expr.Loc(), "ir: cannot take the address of a non-lvalue expression")
		}
		return llvm.Value{}, diag.New(expr.Loc(), "ir: internal error: unsupported lvalue expression %T", expr)
	}
}

// lowerInit stores expr's value into dest, which must be the alloca of
// a just-declared let/var of type typ. Tuple/List initializers are
// special-cased so a fully constant aggregate is stored in one
// instruction instead of element by element.
func (lw *Lowerer) lowerInit(fc *funcCtx, dest llvm.Value, expr ast.Expr, typ types.Type) error {
	switch e := expr.(type) {
	case *ast.Tuple:
		return lw.storeAggregateInit(fc, dest, e.Elements, typ)
	case *ast.List:
		return lw.storeAggregateInit(fc, dest, e.Elements, typ)
	default:
		v, err := lw.lowerExpr(fc, expr)
		if err != nil {
			return err
		}
		lw.builder.CreateStore(v, dest)
		return nil
	}
}

func (lw *Lowerer) storeAggregateInit(fc *funcCtx, dest llvm.Value, elements []ast.Expr, typ types.Type) error {
	vals, allConst, err := lw.lowerAggregateElements(fc, elements)
	if err != nil {
		return err
	}
	if allConst {
		lw.builder.CreateStore(lw.constAggregate(typ, vals), dest)
		return nil
	}
	for i, v := range vals {
		gep := lw.builder.CreateGEP(dest, []llvm.Value{
			llvm.ConstInt(lw.i32, 0, false),
			llvm.ConstInt(lw.i32, uint64(i), false),
		}, "")
		lw.builder.CreateStore(v, gep)
	}
	return nil
}

// lowerAggregateValue lowers a Tuple/List appearing as a plain
// expression (not directly initializing a let/var) via a temporary
// alloca, matching how a value-typed aggregate must be materialized
// before it can be used as an SSA value.
func (lw *Lowerer) lowerAggregateValue(fc *funcCtx, elements []ast.Expr, typ types.Type) (llvm.Value, error) {
	vals, allConst, err := lw.lowerAggregateElements(fc, elements)
	if err != nil {
		return llvm.Value{}, err
	}
	if allConst {
		return lw.constAggregate(typ, vals), nil
	}
	tmp := lw.builder.CreateAlloca(lw.lowerType(typ), "")
	for i, v := range vals {
		gep := lw.builder.CreateGEP(tmp, []llvm.Value{
			llvm.ConstInt(lw.i32, 0, false),
			llvm.ConstInt(lw.i32, uint64(i), false),
		}, "")
		lw.builder.CreateStore(v, gep)
	}
	return lw.builder.CreateLoad(tmp, ""), nil
}

func (lw *Lowerer) lowerAggregateElements(fc *funcCtx, elements []ast.Expr) ([]llvm.Value, bool, error) {
	vals := make([]llvm.Value, len(elements))
	allConst := true
	for i, el := range elements {
		v, err := lw.lowerExpr(fc, el)
		if err != nil {
			return nil, false, err
		}
		vals[i] = v
		if !v.IsConstant() {
			allConst = false
		}
	}
	return vals, allConst, nil
}

func (lw *Lowerer) constAggregate(typ types.Type, vals []llvm.Value) llvm.Value {
	if lt, ok := typ.Canonical().(*types.ListType); ok {
		return llvm.ConstArray(lw.lowerType(lt.Element), vals)
	}
	if st, ok := typ.Canonical().(*types.StructType); ok && st.Name != "" {
		return llvm.ConstNamedStruct(lw.lowerStructType(st), vals)
	}
	return llvm.ConstStruct(vals, false)
}
