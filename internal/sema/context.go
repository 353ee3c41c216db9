// Package sema resolves names and types over a parsed lucid AST: a
// two-pass walk that first builds the lexical scope tree and resolves
// type expressions, then types every expression and binds every
// identifier to a unique declaration, following spec.md §4.3.
package sema

import (
	"github.com/lucidlang/lucidc/internal/ast"
)

// DeclarationContext is one node of the lexical scope tree: a mapping
// from name to the declaration(s) introduced in this scope, with a
// parent pointer for outward lookup. The root context (no parent)
// holds every top-level declaration.
type DeclarationContext struct {
	parent *DeclarationContext
	names  map[string]*AmbiguousDecl
}

// NewRootContext creates the global scope.
func NewRootContext() *DeclarationContext {
	return &DeclarationContext{names: make(map[string]*AmbiguousDecl)}
}

// NewChild creates a scope nested inside c, as introduced by a
// FuncDecl or CompoundStmt.
func (c *DeclarationContext) NewChild() *DeclarationContext {
	return &DeclarationContext{parent: c, names: make(map[string]*AmbiguousDecl)}
}

// Declare registers decl under name in this scope, adding it to any
// existing candidate set (a name may be multiply overloaded within one
// scope per spec.md §3's DeclarationContext).
func (c *DeclarationContext) Declare(name string, decl ast.Decl) {
	if existing, ok := c.names[name]; ok {
		existing.candidates = append(existing.candidates, decl)
		return
	}
	c.names[name] = &AmbiguousDecl{candidates: []ast.Decl{decl}}
}

// Lookup walks from c outward through parents and returns the nearest
// scope's candidate set for name, or an empty AmbiguousDecl if name is
// never declared in any enclosing scope.
func (c *DeclarationContext) Lookup(name string) *AmbiguousDecl {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if cands, ok := ctx.names[name]; ok {
			return cands
		}
	}
	return &AmbiguousDecl{}
}

// AmbiguousDecl is the candidate set a name lookup returns: zero, one,
// or more declarations sharing a name in the scope(s) searched. It is
// the single point through which name resolution returns results, per
// spec.md §9.
type AmbiguousDecl struct {
	candidates []ast.Decl
}

// IsEmpty reports that no declaration matched.
func (a *AmbiguousDecl) IsEmpty() bool { return len(a.candidates) == 0 }

// IsAmbiguous reports that more than one declaration matched.
func (a *AmbiguousDecl) IsAmbiguous() bool { return len(a.candidates) > 1 }

// Get returns the sole candidate. Callers must check IsEmpty and
// IsAmbiguous first; Get panics otherwise.
func (a *AmbiguousDecl) Get() ast.Decl {
	if len(a.candidates) != 1 {
		panic("sema: AmbiguousDecl.Get called on a non-singleton candidate set")
	}
	return a.candidates[0]
}

// Filter returns the subset of candidates matching pred.
func (a *AmbiguousDecl) Filter(pred func(ast.Decl) bool) *AmbiguousDecl {
	out := &AmbiguousDecl{}
	for _, d := range a.candidates {
		if pred(d) {
			out.candidates = append(out.candidates, d)
		}
	}
	return out
}

// Candidates returns the full candidate list.
func (a *AmbiguousDecl) Candidates() []ast.Decl { return a.candidates }
