package ir

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/lucidlang/lucidc/internal/types"
)

// lowerType implements spec.md §4.4's type mapping table. Canonical is
// called first so a TypeIdentifier lowers as whatever it resolves to.
func (lw *Lowerer) lowerType(t types.Type) llvm.Type {
	c := t.Canonical()
	switch {
	case types.Equal(c, types.Integer):
		return lw.i64
	case types.Equal(c, types.Double):
		return lw.f64
	case types.Equal(c, types.Boolean):
		return lw.i1
	case types.Equal(c, types.Character):
		return lw.i8
	case types.Equal(c, types.Unit):
		return lw.voidTy
	}

	switch v := c.(type) {
	case *types.ListType:
		return llvm.ArrayType(lw.lowerType(v.Element), v.Length)
	case *types.SliceType:
		return llvm.PointerType(lw.lowerType(v.Element), 0)
	case *types.PointerType:
		return llvm.PointerType(lw.lowerType(v.Referent), 0)
	case *types.ReferenceType:
		return llvm.PointerType(lw.lowerType(v.Referent), 0)
	case *types.TupleType:
		elems := make([]llvm.Type, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = lw.lowerType(e)
		}
		return llvm.StructType(elems, false)
	case *types.StructType:
		return lw.lowerStructType(v)
	case *types.FunctionType:
		params := make([]llvm.Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = lw.lowerType(p)
		}
		return llvm.FunctionType(lw.lowerType(v.Return), params, v.IsVarArg)
	default:
		panic(fmt.Sprintf("ir: unhandled type %s (%T)", t, c))
	}
}

// lowerStructType names the struct the first time it is lowered and
// looks the named type up in the module's type table on every
// subsequent reference, per spec.md §4.4's named-type rule. Anonymous
// structs (Name == "") are lowered as opaque literal struct types
// every time, since they have no identity to cache against.
func (lw *Lowerer) lowerStructType(v *types.StructType) llvm.Type {
	if v.Name == "" {
		elems := make([]llvm.Type, len(v.Fields))
		for i, f := range v.Fields {
			elems[i] = lw.lowerType(f.Type)
		}
		return llvm.StructType(elems, false)
	}
	if t, ok := lw.namedStructs[v.Name]; ok {
		return t
	}
	named := lw.ctx.StructCreateNamed(v.Name)
	lw.namedStructs[v.Name] = named
	elems := make([]llvm.Type, len(v.Fields))
	for i, f := range v.Fields {
		elems[i] = lw.lowerType(f.Type)
	}
	named.StructSetBody(elems, false)
	return named
}
