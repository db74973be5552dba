package compiler

import "unicode"

// keywords maps source text to its keyword TokenType. "and", "or" and "not"
// lex to the same kinds as "&&", "||" and "!" so the parser has a single path.
var keywords = map[string]TokenType{
	"game":   GAME,
	"sprite": SPRITE,
	"scene":  SCENE,
	"on":     ON,
	"update": UPDATE,
	"draw":   DRAW,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"in":     IN,
	"return": RETURN,
	"and":    LAND,
	"or":     LOR,
	"not":    NOT,
	"true":   TRUE,
	"false":  FALSE,
}

// Lexer holds all mutable state for a single scanning pass over src.
// Errors are recorded on the reporter; scanning always continues, so one
// pass surfaces every lexical problem in the file.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
	col  int // current 1-based source column
	rep  *Reporter
}

func newLexer(src string, rep *Reporter) *Lexer {
	return &Lexer{src: []rune(src), line: 1, col: 1, rep: rep}
}

// here returns the position of the next rune to consume.
func (l *Lexer) here() Pos {
	return Pos{Line: l.line, Column: l.col, Length: 1}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything from the current position to end-of-line.
// The opening "//" must already have been consumed.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment discards everything up to and including the closing "*/".
// The opening "/*" must already have been consumed.
func (l *Lexer) skipBlockComment(open Pos) {
	for l.pos < len(l.src) {
		if l.peek() == '*' && l.peek2() == '/' {
			l.advance() // *
			l.advance() // /
			return
		}
		l.advance()
	}
	l.rep.Errorf(open, "unterminated block comment")
}

// scanIdent collects a full identifier or keyword token.
// The first character (letter or '_') must still be at l.peek().
func (l *Lexer) scanIdent() Token {
	start := l.here()
	startPos := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[startPos:l.pos])
	start.Length = l.pos - startPos
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Pos: start}
}

// scanNumber collects an integer or decimal literal. A '.' is only consumed
// into the number when a digit immediately follows it; a bare trailing dot is
// left in the stream and comes back as a DOT token.
func (l *Lexer) scanNumber() Token {
	start := l.here()
	startPos := l.pos

	for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && unicode.IsDigit(l.peek2()) {
		l.advance() // the decimal point
		for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}

	start.Length = l.pos - startPos
	return Token{Type: NUMBER, Lexeme: string(l.src[startPos:l.pos]), Pos: start}
}

// scanString collects a string literal delimited by " or '. The Lexeme holds
// the unescaped value. An escaped quote does not terminate the literal; an
// unknown escape or a missing closing quote is recorded as a diagnostic.
func (l *Lexer) scanString() Token {
	start := l.here()
	startPos := l.pos
	quote := l.advance()

	var val []rune
	for l.pos < len(l.src) {
		r := l.peek()
		if r == quote {
			l.advance()
			start.Length = l.pos - startPos
			return Token{Type: STRING, Lexeme: string(val), Pos: start}
		}
		if r == '\n' {
			break
		}
		if r == '\\' {
			escPos := l.here()
			l.advance() // backslash
			next := l.peek()
			switch next {
			case 'n':
				val = append(val, '\n')
			case 't':
				val = append(val, '\t')
			case 'r':
				val = append(val, '\r')
			case '\\':
				val = append(val, '\\')
			case '"':
				val = append(val, '"')
			case '\'':
				val = append(val, '\'')
			default:
				escPos.Length = 2
				l.rep.Errorf(escPos, "unknown escape sequence \\%c in string literal", next)
				val = append(val, next)
			}
			l.advance()
			continue
		}
		val = append(val, l.advance())
	}

	start.Length = l.pos - startPos
	l.rep.Errorf(start, "unterminated string literal")
	return Token{Type: STRING, Lexeme: string(val), Pos: start}
}

// scanRaw collects a pass-through block %{ ... }%. Everything between the
// delimiters is kept byte-for-byte; the code generator only re-indents it.
func (l *Lexer) scanRaw() Token {
	start := l.here()
	l.advance() // %
	l.advance() // {
	startPos := l.pos

	for l.pos < len(l.src) {
		if l.peek() == '}' && l.peek2() == '%' {
			text := string(l.src[startPos:l.pos])
			l.advance() // }
			l.advance() // %
			start.Length = 2
			return Token{Type: RAW, Lexeme: text, Pos: start}
		}
		l.advance()
	}

	l.rep.Errorf(start, "unterminated pass-through block (missing closing }%%)")
	start.Length = 2
	return Token{Type: RAW, Lexeme: string(l.src[startPos:l.pos]), Pos: start}
}

// nextToken skips whitespace/comments and returns the next Token, or
// ok=false when the current character is invalid and was skipped.
func (l *Lexer) nextToken() (Token, bool) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Type: EOF, Pos: l.here()}, true
		}
		if l.peek() == '/' && l.peek2() == '/' {
			l.advance()
			l.advance()
			l.skipLineComment()
			continue
		}
		if l.peek() == '/' && l.peek2() == '*' {
			open := l.here()
			l.advance()
			l.advance()
			l.skipBlockComment(open)
			continue
		}
		break
	}

	ch := l.peek()
	pos := l.here()

	if unicode.IsLetter(ch) || ch == '_' {
		return l.scanIdent(), true
	}
	if unicode.IsDigit(ch) {
		return l.scanNumber(), true
	}
	if ch == '"' || ch == '\'' {
		return l.scanString(), true
	}
	if ch == '%' && l.peek2() == '{' {
		return l.scanRaw(), true
	}

	two := func(tt TokenType, lexeme string) (Token, bool) {
		l.advance()
		l.advance()
		pos.Length = 2
		return Token{Type: tt, Lexeme: lexeme, Pos: pos}, true
	}
	one := func(tt TokenType) (Token, bool) {
		l.advance()
		return Token{Type: tt, Lexeme: string(ch), Pos: pos}, true
	}

	switch ch {
	case '=':
		if l.peek2() == '=' {
			return two(EQUALS, "==")
		}
		return one(ASSIGN)
	case '!':
		if l.peek2() == '=' {
			return two(NOT_EQ, "!=")
		}
		return one(NOT)
	case '<':
		if l.peek2() == '=' {
			return two(LESS_EQ, "<=")
		}
		return one(LESS)
	case '>':
		if l.peek2() == '=' {
			return two(GREATER_EQ, ">=")
		}
		return one(GREATER)
	case '&':
		if l.peek2() == '&' {
			return two(LAND, "&&")
		}
	case '|':
		if l.peek2() == '|' {
			return two(LOR, "||")
		}
	case '+':
		return one(PLUS)
	case '-':
		return one(MINUS)
	case '*':
		return one(STAR)
	case '/':
		return one(SLASH)
	case '%':
		return one(PERCENT)
	case '{':
		return one(LBRACE)
	case '}':
		return one(RBRACE)
	case '(':
		return one(LPAREN)
	case ')':
		return one(RPAREN)
	case '[':
		return one(LBRACKET)
	case ']':
		return one(RBRACKET)
	case '.':
		return one(DOT)
	case ',':
		return one(COMMA)
	case ':':
		return one(COLON)
	case ';':
		return one(SEMICOLON)
	}

	// Invalid character: record it, skip just that character, keep going.
	l.rep.Errorf(pos, "invalid character %q", ch)
	l.advance()
	return Token{}, false
}

// Lex tokenizes src and returns all tokens including the final EOF token.
// Lexical errors are recorded on rep; the scan never aborts on one bad
// character.
func Lex(src string, rep *Reporter) []Token {
	l := newLexer(src, rep)
	var tokens []Token
	for {
		tok, ok := l.nextToken()
		if !ok {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}
