package compiler

import "testing"

func lexAll(t *testing.T, src string) ([]Token, *Reporter) {
	t.Helper()
	rep := NewReporter("test.spr", src)
	return Lex(src, rep), rep
}

func tokenTypes(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestLexBasicProgram(t *testing.T) {
	src := `sprite Player {
	x = 100
	on keydown(key) {
		x = x + 5
	}
}`
	tokens, rep := lexAll(t, src)
	if rep.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", rep.FormatAll())
	}

	want := []TokenType{
		SPRITE, IDENTIFIER, LBRACE,
		IDENTIFIER, ASSIGN, NUMBER,
		ON, IDENTIFIER, LPAREN, IDENTIFIER, RPAREN, LBRACE,
		IDENTIFIER, ASSIGN, IDENTIFIER, PLUS, NUMBER,
		RBRACE, RBRACE, EOF,
	}
	got := tokenTypes(tokens)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexOperators(t *testing.T) {
	tests := []struct {
		src  string
		want TokenType
	}{
		{"==", EQUALS},
		{"=", ASSIGN},
		{"!=", NOT_EQ},
		{"!", NOT},
		{"<=", LESS_EQ},
		{"<", LESS},
		{">=", GREATER_EQ},
		{">", GREATER},
		{"&&", LAND},
		{"||", LOR},
		{"%", PERCENT},
	}
	for _, tt := range tests {
		tokens, rep := lexAll(t, tt.src)
		if rep.HasErrors() {
			t.Errorf("%q: unexpected errors", tt.src)
			continue
		}
		if tokens[0].Type != tt.want {
			t.Errorf("%q: got %s, want %s", tt.src, tokens[0].Type, tt.want)
		}
	}
}

func TestLexWordOperators(t *testing.T) {
	// "and", "or" and "not" lex to the same kinds as the symbolic forms.
	tokens, rep := lexAll(t, "a and b or not c")
	if rep.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", rep.FormatAll())
	}
	want := []TokenType{IDENTIFIER, LAND, IDENTIFIER, LOR, NOT, IDENTIFIER, EOF}
	got := tokenTypes(tokens)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexNumberTrailingDot(t *testing.T) {
	// A dot not followed by a digit stays out of the number, so member
	// access on a literal still tokenizes.
	tokens, rep := lexAll(t, "3.14 5. x")
	if rep.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", rep.FormatAll())
	}
	want := []TokenType{NUMBER, NUMBER, DOT, IDENTIFIER, EOF}
	got := tokenTypes(tokens)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if tokens[0].Lexeme != "3.14" || tokens[1].Lexeme != "5" {
		t.Errorf("number lexemes: got %q, %q", tokens[0].Lexeme, tokens[1].Lexeme)
	}
}

func TestLexStringEscapes(t *testing.T) {
	tokens, rep := lexAll(t, `"a\nb\t\"c\""`)
	if rep.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", rep.FormatAll())
	}
	if tokens[0].Lexeme != "a\nb\t\"c\"" {
		t.Errorf("unescaped value: got %q", tokens[0].Lexeme)
	}
}

func TestLexStringCommentInside(t *testing.T) {
	// A "//" inside a string literal is text, not a comment.
	tokens, rep := lexAll(t, `"http://example" x`)
	if rep.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", rep.FormatAll())
	}
	if tokens[0].Lexeme != "http://example" {
		t.Errorf("got %q", tokens[0].Lexeme)
	}
	if tokens[1].Type != IDENTIFIER {
		t.Errorf("following token: got %s", tokens[1].Type)
	}
}

func TestLexSingleQuotedString(t *testing.T) {
	tokens, rep := lexAll(t, `'it: "x"'`)
	if rep.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", rep.FormatAll())
	}
	if tokens[0].Type != STRING || tokens[0].Lexeme != `it: "x"` {
		t.Errorf("got %s %q", tokens[0].Type, tokens[0].Lexeme)
	}
}

func TestLexUnknownEscapeRecovers(t *testing.T) {
	tokens, rep := lexAll(t, `"a\qb" next`)
	if !rep.HasErrors() {
		t.Fatal("expected a diagnostic for the unknown escape")
	}
	// The literal still closes and scanning continues.
	if tokens[0].Lexeme != "aqb" {
		t.Errorf("recovered value: got %q", tokens[0].Lexeme)
	}
	if tokens[1].Type != IDENTIFIER || tokens[1].Lexeme != "next" {
		t.Errorf("scanning did not continue: got %v", tokens[1])
	}
}

func TestLexUnterminatedString(t *testing.T) {
	tokens, rep := lexAll(t, "\"oops\nx = 1")
	if !rep.HasErrors() {
		t.Fatal("expected a diagnostic for the unterminated string")
	}
	// The rest of the file still tokenizes.
	got := tokenTypes(tokens)
	want := []TokenType{STRING, IDENTIFIER, ASSIGN, NUMBER, EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexComments(t *testing.T) {
	src := `a // line comment with = and {
/* block
comment */ b`
	tokens, rep := lexAll(t, src)
	if rep.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", rep.FormatAll())
	}
	got := tokenTypes(tokens)
	want := []TokenType{IDENTIFIER, IDENTIFIER, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLexRawBlock(t *testing.T) {
	src := "%{ anything { } = $ goes here }% x"
	tokens, rep := lexAll(t, src)
	if rep.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", rep.FormatAll())
	}
	if tokens[0].Type != RAW {
		t.Fatalf("got %s, want RAW", tokens[0].Type)
	}
	if tokens[0].Lexeme != " anything { } = $ goes here " {
		t.Errorf("raw text: got %q", tokens[0].Lexeme)
	}
	if tokens[1].Type != IDENTIFIER {
		t.Errorf("following token: got %s", tokens[1].Type)
	}
}

func TestLexUnterminatedRawBlock(t *testing.T) {
	_, rep := lexAll(t, "%{ never closed")
	if !rep.HasErrors() {
		t.Fatal("expected a diagnostic")
	}
}

func TestLexInvalidCharacterRecovers(t *testing.T) {
	tokens, rep := lexAll(t, "a @ b $ c")
	if !rep.HasErrors() {
		t.Fatal("expected diagnostics for invalid characters")
	}
	if len(rep.Diagnostics()) != 2 {
		t.Errorf("got %d diagnostics, want 2", len(rep.Diagnostics()))
	}
	// All three identifiers survive.
	got := tokenTypes(tokens)
	want := []TokenType{IDENTIFIER, IDENTIFIER, IDENTIFIER, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLexPositions(t *testing.T) {
	tokens, _ := lexAll(t, "ab\n  cd")
	if tokens[0].Pos.Line != 1 || tokens[0].Pos.Column != 1 {
		t.Errorf("ab at %v", tokens[0].Pos)
	}
	if tokens[1].Pos.Line != 2 || tokens[1].Pos.Column != 3 {
		t.Errorf("cd at %v", tokens[1].Pos)
	}
	if tokens[1].Pos.Length != 2 {
		t.Errorf("cd length: got %d", tokens[1].Pos.Length)
	}
}
