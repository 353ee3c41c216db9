// Package types implements lucid's canonicalized, interned type
// table. Builtins are singletons; composite types are looked up by
// structural key so that two structurally equal types are the same
// Go value (pointer equality implies type equality).
package types

import (
	"fmt"
	"strings"
)

// Type is the sealed variant every lucid type implements. Canonical
// returns the type itself for every Type produced by this package,
// since TypeIdentifier is the only variant that resolves to something
// else.
type Type interface {
	String() string
	Canonical() Type
	isType()
}

// Builtin singletons. These are the only values of their respective
// kinds; comparing a Type to one of these with == is always correct.
var (
	Integer   Type = &builtin{name: "Integer"}
	Double    Type = &builtin{name: "Double"}
	Boolean   Type = &builtin{name: "Boolean"}
	Character Type = &builtin{name: "Character"}
	Unit      Type = &builtin{name: "Unit"}
)

type builtin struct{ name string }

func (b *builtin) String() string  { return b.name }
func (b *builtin) Canonical() Type { return b }
func (*builtin) isType()           {}

// TupleType is an ordered, unnamed product of component types.
type TupleType struct {
	Elements []Type
}

func (t *TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *TupleType) Canonical() Type { return t }
func (*TupleType) isType()           {}

// StructField is one named member of a StructType, in declaration
// order.
type StructField struct {
	Name string
	Type Type
}

// StructType is an ordered, named product of component types.
type StructType struct {
	Name   string // "" for an anonymous struct literal type
	Fields []StructField
}

func (t *StructType) String() string {
	if t.Name != "" {
		return t.Name
	}
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	return "struct{" + strings.Join(parts, ", ") + "}"
}
func (t *StructType) Canonical() Type { return t }
func (*StructType) isType()           {}

// FieldIndex returns the declaration-order index of name, or -1.
func (t *StructType) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// ListType is a statically sized, homogeneous sequence (fixed-length
// array).
type ListType struct {
	Element Type
	Length  int
}

func (t *ListType) String() string {
	return fmt.Sprintf("[%s; %d]", t.Element.String(), t.Length)
}
func (t *ListType) Canonical() Type { return t }
func (*ListType) isType()           {}

// SliceType is a dynamically sized view over elements of Element,
// lowered as a pointer-to-element at the IR layer.
type SliceType struct {
	Element Type
}

func (t *SliceType) String() string  { return "[" + t.Element.String() + "]" }
func (t *SliceType) Canonical() Type { return t }
func (*SliceType) isType()           {}

// PointerType is an owning-agnostic address of a Referent value.
type PointerType struct {
	Referent Type
}

func (t *PointerType) String() string  { return "*" + t.Referent.String() }
func (t *PointerType) Canonical() Type { return t }
func (*PointerType) isType()           {}

// ReferenceType is produced by the unary '&' operator: the address of
// an lvalue, typed distinctly from PointerType. sema places no extra
// restriction on it: a var of reference type can be reassigned like
// any other var.
type ReferenceType struct {
	Referent Type
}

func (t *ReferenceType) String() string  { return "&" + t.Referent.String() }
func (t *ReferenceType) Canonical() Type { return t }
func (*ReferenceType) isType()           {}

// FunctionType is a named or external function's signature.
type FunctionType struct {
	Params   []Type
	Return   Type
	IsVarArg bool
}

func (t *FunctionType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	args := strings.Join(parts, ", ")
	if t.IsVarArg {
		if args != "" {
			args += ", "
		}
		args += "..."
	}
	return fmt.Sprintf("(%s) -> %s", args, t.Return.String())
}
func (t *FunctionType) Canonical() Type { return t }
func (*FunctionType) isType()           {}

// TypeIdentifier names a type (a typealias or a struct/type
// declaration name) that Resolve binds to a canonical Type. sema does
// not build TypeIdentifier values: it resolves typealias and struct
// names directly to their target types.
type TypeIdentifier struct {
	Name     string
	resolved Type
}

func (t *TypeIdentifier) String() string {
	if t.resolved != nil {
		return t.resolved.String()
	}
	return t.Name
}

// Canonical returns the type this identifier resolves to. It panics if
// called before Resolve.
func (t *TypeIdentifier) Canonical() Type {
	if t.resolved == nil {
		panic("types: TypeIdentifier " + t.Name + " used before Resolve")
	}
	return t.resolved.Canonical()
}

// Resolve binds the identifier to its canonical target.
func (t *TypeIdentifier) Resolve(target Type) { t.resolved = target }

// Resolved reports whether Resolve has been called.
func (t *TypeIdentifier) Resolved() bool { return t.resolved != nil }

func (*TypeIdentifier) isType() {}

// Equal reports whether a and b are the same canonical type.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return Key(a.Canonical()) == Key(b.Canonical())
}

// Interner canonicalizes composite types by structural key: two calls
// with structurally equal shapes return the same *Type value. It is
// append-only and safe to share across a single compilation (spec's
// single-threaded model assumes no concurrent writers).
type Interner struct {
	tuples  map[string]*TupleType
	structs map[string]*StructType
	lists   map[string]*ListType
	slices  map[string]*SliceType
	ptrs    map[string]*PointerType
	refs    map[string]*ReferenceType
	fns     map[string]*FunctionType
}

// NewInterner builds an empty Interner.
func NewInterner() *Interner {
	return &Interner{
		tuples:  make(map[string]*TupleType),
		structs: make(map[string]*StructType),
		lists:   make(map[string]*ListType),
		slices:  make(map[string]*SliceType),
		ptrs:    make(map[string]*PointerType),
		refs:    make(map[string]*ReferenceType),
		fns:     make(map[string]*FunctionType),
	}
}

// Tuple interns a TupleType by its element list.
func (in *Interner) Tuple(elements []Type) *TupleType {
	key := Key(&TupleType{Elements: elements})
	if t, ok := in.tuples[key]; ok {
		return t
	}
	t := &TupleType{Elements: elements}
	in.tuples[key] = t
	return t
}

// Struct interns a named or anonymous StructType by its field list
// (and name, for named structs — two anonymous structs with the same
// fields are the same type, but two named structs never unify across
// distinct names even with identical fields).
func (in *Interner) Struct(name string, fields []StructField) *StructType {
	key := Key(&StructType{Name: name, Fields: fields})
	if t, ok := in.structs[key]; ok {
		return t
	}
	t := &StructType{Name: name, Fields: fields}
	in.structs[key] = t
	return t
}

// List interns a ListType.
func (in *Interner) List(element Type, length int) *ListType {
	key := Key(&ListType{Element: element, Length: length})
	if t, ok := in.lists[key]; ok {
		return t
	}
	t := &ListType{Element: element, Length: length}
	in.lists[key] = t
	return t
}

// Slice interns a SliceType.
func (in *Interner) Slice(element Type) *SliceType {
	key := Key(&SliceType{Element: element})
	if t, ok := in.slices[key]; ok {
		return t
	}
	t := &SliceType{Element: element}
	in.slices[key] = t
	return t
}

// Pointer interns a PointerType.
func (in *Interner) Pointer(referent Type) *PointerType {
	key := Key(&PointerType{Referent: referent})
	if t, ok := in.ptrs[key]; ok {
		return t
	}
	t := &PointerType{Referent: referent}
	in.ptrs[key] = t
	return t
}

// Reference interns a ReferenceType.
func (in *Interner) Reference(referent Type) *ReferenceType {
	key := Key(&ReferenceType{Referent: referent})
	if t, ok := in.refs[key]; ok {
		return t
	}
	t := &ReferenceType{Referent: referent}
	in.refs[key] = t
	return t
}

// Function interns a FunctionType.
func (in *Interner) Function(params []Type, ret Type, isVarArg bool) *FunctionType {
	key := Key(&FunctionType{Params: params, Return: ret, IsVarArg: isVarArg})
	if t, ok := in.fns[key]; ok {
		return t
	}
	t := &FunctionType{Params: params, Return: ret, IsVarArg: isVarArg}
	in.fns[key] = t
	return t
}

// Key produces the structural key two equal-shaped types share. Equal
// and the Interner both compare types through it.
func Key(t Type) string {
	switch v := t.(type) {
	case *builtin:
		return "b:" + v.name
	case *TupleType:
		parts := make([]string, len(v.Elements))
		for i, e := range v.Elements {
			parts[i] = Key(e.Canonical())
		}
		return "t:(" + strings.Join(parts, ",") + ")"
	case *StructType:
		parts := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			parts[i] = f.Name + "=" + Key(f.Type.Canonical())
		}
		return "s:" + v.Name + "{" + strings.Join(parts, ",") + "}"
	case *ListType:
		return fmt.Sprintf("l:%s;%d", Key(v.Element.Canonical()), v.Length)
	case *SliceType:
		return "sl:" + Key(v.Element.Canonical())
	case *PointerType:
		return "p:" + Key(v.Referent.Canonical())
	case *ReferenceType:
		return "r:" + Key(v.Referent.Canonical())
	case *FunctionType:
		parts := make([]string, len(v.Params))
		for i, p := range v.Params {
			parts[i] = Key(p.Canonical())
		}
		return fmt.Sprintf("f:(%s)va=%v->%s", strings.Join(parts, ","), v.IsVarArg, Key(v.Return.Canonical()))
	case *TypeIdentifier:
		return Key(v.Canonical())
	default:
		panic(fmt.Sprintf("types: unhandled Type %T", t))
	}
}

// IsNumeric reports whether t is Integer or Double.
func IsNumeric(t Type) bool {
	c := t.Canonical()
	return c == Integer || c == Double
}
