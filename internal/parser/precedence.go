package parser

import "github.com/lucidlang/lucidc/internal/ast"

// assoc is the fixity rule a binary precedence level applies once its
// left operand has been parsed.
type assoc int

const (
	assocNone assoc = iota
	assocLeft
	assocRight
)

// group is one row of spec.md §4.2's precedence table (excluding the
// prefix row, level 1, which parseUnary handles directly).
type group struct {
	level int
	assoc assoc
	ops   map[string]bool
}

func opSet(ops ...string) map[string]bool {
	m := make(map[string]bool, len(ops))
	for _, o := range ops {
		m[o] = true
	}
	return m
}

// precedenceGroups is indexed by level; index 0 and 1 are unused
// (level 1 is the prefix/unary base case of parseExpr).
var precedenceGroups = []*group{
	1: nil,
	2: {level: 2, assoc: assocNone, ops: opSet("<<", ">>")},
	3: {level: 3, assoc: assocLeft, ops: opSet("*", "/", "%")},
	4: {level: 4, assoc: assocLeft, ops: opSet("+", "-")},
	5: {level: 5, assoc: assocNone, ops: opSet("==", "!=", ">", "<", ">=", "<=")},
	6: {level: 6, assoc: assocLeft, ops: opSet("&&")},
	7: {level: 7, assoc: assocLeft, ops: opSet("||")},
	8: {level: 8, assoc: assocRight, ops: opSet("=", "+=", "-=", "*=", "/=", "%=", ">>=", "<<=")},
}

const maxPrecedenceLevel = 8

// prefixOps is spec.md §4.2's level-1 Prefix group: `+ - ! & *`.
var prefixOps = opSet("+", "-", "!", "&", "*")

func unaryOpFor(lexeme string) ast.UnaryOp {
	switch lexeme {
	case "+":
		return ast.UnPlus
	case "-":
		return ast.UnMinus
	case "!":
		return ast.UnNot
	case "&":
		return ast.UnAddress
	case "*":
		return ast.UnDeref
	default:
		panic("parser: unreachable prefix operator " + lexeme)
	}
}
