package lexer

import (
	"testing"

	"github.com/lucidlang/lucidc/internal/source"
	"github.com/lucidlang/lucidc/internal/token"
)

func lexAll(t *testing.T, input string) []token.Token {
	t.Helper()
	l := New(source.New("test.lucid", input))
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lexer error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestBasicTokens(t *testing.T) {
	input := "let x: Integer = 5\n"
	tests := []struct {
		kind   token.Kind
		lexeme string
	}{
		{token.LET, "let"},
		{token.IDENT, "x"},
		{token.COLON, ":"},
		{token.IDENT, "Integer"},
		{token.OPERATOR, "="},
		{token.INTEGER_LITERAL, "5"},
		{token.NEWLINE, "\n"},
		{token.EOF, ""},
	}

	toks := lexAll(t, input)
	if len(toks) != len(tests) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(tests), toks)
	}
	for i, tt := range tests {
		if toks[i].Kind != tt.kind {
			t.Fatalf("tokens[%d] - kind wrong. expected=%s, got=%s (lexeme=%q)",
				i, token.KindName(tt.kind), token.KindName(toks[i].Kind), toks[i].Lexeme)
		}
		if toks[i].Lexeme != tt.lexeme {
			t.Fatalf("tokens[%d] - lexeme wrong. expected=%q, got=%q", i, tt.lexeme, toks[i].Lexeme)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := "let var func extern typealias if else while return true false\n"
	expected := []token.Kind{
		token.LET, token.VAR, token.FUNC, token.EXTERN, token.TYPEALIAS,
		token.IF, token.ELSE, token.WHILE, token.RETURN, token.TRUE, token.FALSE,
		token.NEWLINE, token.EOF,
	}
	toks := lexAll(t, input)
	for i, exp := range expected {
		if toks[i].Kind != exp {
			t.Fatalf("tokens[%d] - kind wrong. expected=%s, got=%s", i, token.KindName(exp), token.KindName(toks[i].Kind))
		}
	}
}

func TestMaximalMunchOperators(t *testing.T) {
	input := ">>= <<= >= <= == != && || >> << + - * / %\n"
	expected := []string{
		">>=", "<<=", ">=", "<=", "==", "!=", "&&", "||", ">>", "<<", "+", "-", "*", "/", "%",
	}
	toks := lexAll(t, input)
	for i, exp := range expected {
		if toks[i].Kind != token.OPERATOR {
			t.Fatalf("tokens[%d] - expected operator, got %s", i, token.KindName(toks[i].Kind))
		}
		if toks[i].Lexeme != exp {
			t.Fatalf("tokens[%d] - lexeme wrong. expected=%q, got=%q", i, exp, toks[i].Lexeme)
		}
	}
}

func TestArrowAndEllipsisNotOperators(t *testing.T) {
	input := "-> ...\n"
	toks := lexAll(t, input)
	if toks[0].Kind != token.ARROW || toks[0].Lexeme != "->" {
		t.Fatalf("expected ARROW \"->\", got %s %q", token.KindName(toks[0].Kind), toks[0].Lexeme)
	}
	if toks[1].Kind != token.ELLIPSIS || toks[1].Lexeme != "..." {
		t.Fatalf("expected ELLIPSIS \"...\", got %s %q", token.KindName(toks[1].Kind), toks[1].Lexeme)
	}
}

func TestMinusFollowedByOperatorCharIsNotArrow(t *testing.T) {
	toks := lexAll(t, "a -= b\n")
	if toks[1].Kind != token.OPERATOR || toks[1].Lexeme != "-=" {
		t.Fatalf("expected operator \"-=\", got %s %q", token.KindName(toks[1].Kind), toks[1].Lexeme)
	}
}

func TestStringAndCharLiterals(t *testing.T) {
	toks := lexAll(t, `"hi\n" 'a' '\x41' 'B'`+"\n")
	wantStr := []string{"hi\n", "a", "A", "B"}
	kinds := []token.Kind{token.STRING_LITERAL, token.CHARACTER_LITERAL, token.CHARACTER_LITERAL, token.CHARACTER_LITERAL}
	for i, want := range wantStr {
		if toks[i].Kind != kinds[i] {
			t.Fatalf("tokens[%d] - kind wrong. expected=%s, got=%s", i, token.KindName(kinds[i]), token.KindName(toks[i].Kind))
		}
		if toks[i].Lexeme != want {
			t.Fatalf("tokens[%d] - lexeme wrong. expected=%q, got=%q", i, want, toks[i].Lexeme)
		}
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	l := New(source.New("test.lucid", `"unterminated`))
	if _, err := l.Next(); err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestLineComment(t *testing.T) {
	toks := lexAll(t, "let x = 1 // trailing comment\nlet y = 2\n")
	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{
		token.LET, token.IDENT, token.OPERATOR, token.INTEGER_LITERAL, token.NEWLINE,
		token.LET, token.IDENT, token.OPERATOR, token.INTEGER_LITERAL, token.NEWLINE,
		token.EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(kinds), len(want), kinds)
	}
	for i, exp := range want {
		if kinds[i] != exp {
			t.Fatalf("tokens[%d] - kind wrong. expected=%s, got=%s", i, token.KindName(exp), token.KindName(kinds[i]))
		}
	}
}

func TestDoubleLiteralRequiresDigitAfterDot(t *testing.T) {
	// The '.' left over after "3" is not a token on its own, so only the
	// first two tokens are read.
	l := New(source.New("test.lucid", "3.14 3.\n"))
	var toks []token.Token
	for i := 0; i < 2; i++ {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lexer error: %v", err)
		}
		toks = append(toks, tok)
	}
	if toks[0].Kind != token.DOUBLE_LITERAL || toks[0].Lexeme != "3.14" {
		t.Fatalf("expected double literal 3.14, got %s %q", token.KindName(toks[0].Kind), toks[0].Lexeme)
	}
	if toks[1].Kind != token.INTEGER_LITERAL || toks[1].Lexeme != "3" {
		t.Fatalf("expected integer literal 3 (no trailing digit after dot), got %s %q", token.KindName(toks[1].Kind), toks[1].Lexeme)
	}
}

func TestIllegalCharacter(t *testing.T) {
	l := New(source.New("test.lucid", "let x = @\n"))
	for i := 0; i < 3; i++ {
		if _, err := l.Next(); err != nil {
			t.Fatalf("unexpected error before illegal character: %v", err)
		}
	}
	if _, err := l.Next(); err == nil {
		t.Fatal("expected an error for '@'")
	}
}
