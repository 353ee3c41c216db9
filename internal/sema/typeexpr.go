package sema

import (
	"github.com/lucidlang/lucidc/internal/ast"
	"github.com/lucidlang/lucidc/internal/diag"
	"github.com/lucidlang/lucidc/internal/types"
)

// resolveTypeExpr converts a parsed type spelling into the canonical
// types.Type it denotes, resolving named references against the root
// scope (type names, unlike variables, are declared only at top level).
func (r *Resolver) resolveTypeExpr(te ast.TypeExpr) (types.Type, error) {
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		return r.resolveNamedType(t)
	case *ast.TupleTypeExpr:
		elems := make([]types.Type, len(t.Elements))
		for i, e := range t.Elements {
			et, err := r.resolveTypeExpr(e)
			if err != nil {
				return nil, err
			}
			elems[i] = et
		}
		return r.interner.Tuple(elems), nil
	case *ast.ListTypeExpr:
		el, err := r.resolveTypeExpr(t.Element)
		if err != nil {
			return nil, err
		}
		return r.interner.List(el, t.Length), nil
	case *ast.SliceTypeExpr:
		el, err := r.resolveTypeExpr(t.Element)
		if err != nil {
			return nil, err
		}
		return r.interner.Slice(el), nil
	case *ast.PointerTypeExpr:
		ref, err := r.resolveTypeExpr(t.Referent)
		if err != nil {
			return nil, err
		}
		return r.interner.Pointer(ref), nil
	case *ast.ReferenceTypeExpr:
		ref, err := r.resolveTypeExpr(t.Referent)
		if err != nil {
			return nil, err
		}
		return r.interner.Reference(ref), nil
	default:
		return nil, diag.New(te.Loc(), "unhandled type expression %T", te)
	}
}

func (r *Resolver) resolveNamedType(t *ast.NamedTypeExpr) (types.Type, error) {
	switch t.Name {
	case "Integer":
		return types.Integer, nil
	case "Double":
		return types.Double, nil
	case "Boolean":
		return types.Boolean, nil
	case "Character":
		return types.Character, nil
	case "Unit":
		return types.Unit, nil
	}

	cands := r.root.Lookup(t.Name).Filter(func(d ast.Decl) bool {
		switch d.(type) {
		case *ast.TypeAlias, *ast.StructDecl:
			return true
		default:
			return false
		}
	})
	if cands.IsEmpty() {
		return nil, diag.New(t.Loc(), "undeclared type %q", t.Name)
	}
	if cands.IsAmbiguous() {
		return nil, diag.New(t.Loc(), "ambiguous type name %q", t.Name)
	}
	switch d := cands.Get().(type) {
	case *ast.TypeAlias:
		return r.resolveAlias(d)
	case *ast.StructDecl:
		return r.resolveStruct(d)
	default:
		return nil, diag.New(t.Loc(), "unhandled named type declaration %T", d)
	}
}

// resolveAlias resolves a TypeAlias's target exactly once, memoizing
// the result on the declaration itself and detecting cycles through
// the declarations currently being resolved.
func (r *Resolver) resolveAlias(alias *ast.TypeAlias) (types.Type, error) {
	if alias.ResolvedTyp != nil {
		return alias.ResolvedTyp, nil
	}
	if r.resolvingAliases[alias] {
		return nil, diag.New(alias.Loc(), "type alias %q is defined in terms of itself", alias.Name)
	}
	if r.resolvingAliases == nil {
		r.resolvingAliases = make(map[*ast.TypeAlias]bool)
	}
	r.resolvingAliases[alias] = true
	defer delete(r.resolvingAliases, alias)

	target, err := r.resolveTypeExpr(alias.Target)
	if err != nil {
		return nil, err
	}
	alias.ResolvedTyp = target
	return target, nil
}

// resolveStruct resolves a StructDecl's field types exactly once,
// memoizing on the declaration itself. The StructType handle is
// registered on decl before any field is resolved, so a field that
// reaches back to decl only through a pointer or reference (the
// indirection doesn't need decl's fields resolved yet, the same way a
// linked-list node refers to its own type through a pointer) finds
// this same instance and returns immediately instead of recursing. A
// field that names decl directly, with no such indirection, resolves
// to that same pre-registered instance too; since that is the one
// case an indirection-free field can never legitimately produce, it
// is reported as a self-contained struct rather than accepted.
func (r *Resolver) resolveStruct(decl *ast.StructDecl) (types.Type, error) {
	if decl.ResolvedTyp != nil {
		return decl.ResolvedTyp, nil
	}

	st := &types.StructType{Name: decl.Name}
	decl.ResolvedTyp = st

	fields := make([]types.StructField, len(decl.Fields))
	for i, f := range decl.Fields {
		ft, err := r.resolveTypeExpr(f.Annotation)
		if err != nil {
			return nil, err
		}
		if sp, ok := ft.(*types.StructType); ok && sp == st {
			return nil, diag.New(decl.Loc(), "struct %q directly contains itself; use a pointer or reference", decl.Name)
		}
		fields[i] = types.StructField{Name: f.Name, Type: ft}
	}
	st.Fields = fields
	return st, nil
}
