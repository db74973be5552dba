package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER // variable / template name
	NUMBER     // numeric literal, integer or decimal
	STRING     // string literal "..." or '...'
	RAW        // verbatim pass-through block %{ ... }%

	// Keywords
	GAME   // "game"
	SPRITE // "sprite"
	SCENE  // "scene"
	ON     // "on"
	UPDATE // "update"
	DRAW   // "draw"
	IF     // "if"
	ELSE   // "else"
	WHILE  // "while"
	FOR    // "for"
	IN     // "in" (its own kind; for-in parsing depends on it)
	RETURN // "return"
	TRUE   // "true"
	FALSE  // "false"

	// Paired delimiters
	LBRACE   // {
	RBRACE   // }
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]

	// Punctuation
	DOT       // .
	COMMA     // ,
	COLON     // :
	SEMICOLON // ;

	// Arithmetic operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %

	// Logical operators ("and"/"or"/"not" lex to the same kinds as the symbols)
	LAND // && or "and"
	LOR  // || or "or"
	NOT  // ! or "not"

	// Assignment / comparison  (order matters: ASSIGN before EQUALS)
	ASSIGN     // =
	EQUALS     // ==
	NOT_EQ     // !=
	LESS       // <
	GREATER    // >
	LESS_EQ    // <=
	GREATER_EQ // >=
)

// tokenNames is indexed by TokenType.
var tokenNames = [...]string{
	EOF:        "EOF",
	IDENTIFIER: "IDENTIFIER",
	NUMBER:     "NUMBER",
	STRING:     "STRING",
	RAW:        "RAW",
	GAME:       "GAME",
	SPRITE:     "SPRITE",
	SCENE:      "SCENE",
	ON:         "ON",
	UPDATE:     "UPDATE",
	DRAW:       "DRAW",
	IF:         "IF",
	ELSE:       "ELSE",
	WHILE:      "WHILE",
	FOR:        "FOR",
	IN:         "IN",
	RETURN:     "RETURN",
	TRUE:       "TRUE",
	FALSE:      "FALSE",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	LBRACKET:   "LBRACKET",
	RBRACKET:   "RBRACKET",
	DOT:        "DOT",
	COMMA:      "COMMA",
	COLON:      "COLON",
	SEMICOLON:  "SEMICOLON",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	STAR:       "STAR",
	SLASH:      "SLASH",
	PERCENT:    "PERCENT",
	LAND:       "LAND",
	LOR:        "LOR",
	NOT:        "NOT",
	ASSIGN:     "ASSIGN",
	EQUALS:     "EQUALS",
	NOT_EQ:     "NOT_EQ",
	LESS:       "LESS",
	GREATER:    "GREATER",
	LESS_EQ:    "LESS_EQ",
	GREATER_EQ: "GREATER_EQ",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Pos is a source position used for diagnostics.
type Pos struct {
	Line   int // 1-based source line
	Column int // 1-based source column
	Length int // span of the token text, in runes
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // matched source text; for STRING, the unescaped value
	Pos    Pos
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Pos.Line)
}
