// Package token defines the lexical token kinds and the Token value
// the lexer produces and the parser consumes.
package token

import "github.com/lucidlang/lucidc/internal/source"

// Kind discriminates the different token shapes.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF
	NEWLINE

	IDENT
	INTEGER_LITERAL
	DOUBLE_LITERAL
	CHARACTER_LITERAL
	STRING_LITERAL

	// Keywords
	keywordBeg
	LET
	VAR
	FUNC
	EXTERN
	TYPEALIAS
	STRUCT
	IF
	ELSE
	WHILE
	RETURN
	TRUE
	FALSE
	keywordEnd

	// Punctuation
	LPAREN   // (
	RPAREN   // )
	LBRACE   // {
	RBRACE   // }
	LBRACKET // [
	RBRACKET // ]
	COMMA    // ,
	COLON    // :
	ARROW    // ->
	SEMI     // ; (newline substitute in some contexts)
	ELLIPSIS // ... (marks a variadic extern parameter list)

	// Operators (lexeme is the maximal munch; OPERATOR is disambiguated
	// by lexeme in the parser's precedence table).
	OPERATOR
)

var keywords = map[string]Kind{
	"let":       LET,
	"var":       VAR,
	"func":      FUNC,
	"extern":    EXTERN,
	"typealias": TYPEALIAS,
	"struct":    STRUCT,
	"if":        IF,
	"else":      ELSE,
	"while":     WHILE,
	"return":    RETURN,
	"true":      TRUE,
	"false":     FALSE,
}

// LookupIdent classifies an identifier lexeme as a keyword Kind, or
// IDENT if it is not one of the fixed keywords.
func LookupIdent(lexeme string) Kind {
	if k, ok := keywords[lexeme]; ok {
		return k
	}
	return IDENT
}

func (k Kind) IsKeyword() bool { return k > keywordBeg && k < keywordEnd }

// Token is a single lexical token: its kind, its exact source lexeme,
// and the location of its first byte.
type Token struct {
	Kind   Kind
	Lexeme string
	Loc    source.Location
}

func (t Token) String() string { return t.Lexeme }

var kindNames = map[Kind]string{
	ILLEGAL: "illegal", EOF: "eof", NEWLINE: "newline",
	IDENT: "identifier", INTEGER_LITERAL: "integer literal",
	DOUBLE_LITERAL: "double literal", CHARACTER_LITERAL: "character literal",
	STRING_LITERAL: "string literal",
	LET:            "let", VAR: "var", FUNC: "func", EXTERN: "extern",
	TYPEALIAS: "typealias", STRUCT: "struct", IF: "if", ELSE: "else", WHILE: "while",
	RETURN: "return", TRUE: "true", FALSE: "false",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	LBRACKET: "[", RBRACKET: "]", COMMA: ",", COLON: ":",
	ARROW: "->", SEMI: ";", ELLIPSIS: "...", OPERATOR: "operator",
}

// KindName returns a human-readable name for k, used in diagnostics.
func KindName(k Kind) string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}
