package compiler

import "strconv"

// Parser consumes the flat token slice produced by the Lexer and builds an AST.
//
// Grammar:
//
//	program    = (gameDecl | spriteDecl | sceneDecl | RAW)* EOF
//	gameDecl   = "game" IDENTIFIER "{" property* "}"
//	spriteDecl = "sprite" IDENTIFIER "{" (property | handler)* "}"
//	sceneDecl  = "scene" IDENTIFIER "{" (assignment | updateBlock | drawBlock | RAW)* "}"
//	property   = IDENTIFIER "=" expression
//	handler    = "on" IDENTIFIER "(" paramList? ")" block
//	block      = "{" statement* "}"
//	statement  = assignment | ifStmt | whileStmt | forInStmt | returnStmt | RAW | exprStmt
//	forInStmt  = "for" IDENTIFIER "in" expression block
//	expression = or
//	or         = and ("||" and)*
//	and        = equality ("&&" equality)*
//	equality   = relational (("=="|"!=") relational)*
//	relational = additive (("<"|">"|"<="|">=") additive)*
//	additive   = multiplicative (("+"|"-") multiplicative)*
//	multiplicative = unary (("*"|"/"|"%") unary)*
//	unary      = ("!"|"-") unary | postfix
//	postfix    = primary ("(" argList? ")" | "." IDENTIFIER)*
//	primary    = NUMBER | STRING | "true" | "false" | IDENTIFIER
//	           | "(" expression ("," expression)* ")"
//
// On a structural error the parser reports a diagnostic and synchronizes at
// the next statement or declaration boundary, so one invocation surfaces many
// independent syntax errors.
type Parser struct {
	tokens []Token
	pos    int
	rep    *Reporter
}

// Parse builds the AST for tokens. Syntax errors are recorded on rep; the
// returned Program carries whatever parsed cleanly.
func Parse(tokens []Token, rep *Reporter) *Program {
	p := &Parser{tokens: tokens, rep: rep}
	prog := &Program{}

	for p.peek().Type != EOF {
		switch p.peek().Type {
		case GAME:
			if d := p.parseGame(); d != nil {
				prog.Decls = append(prog.Decls, d)
			}
		case SPRITE:
			if d := p.parseSprite(); d != nil {
				prog.Decls = append(prog.Decls, d)
			}
		case SCENE:
			if d := p.parseScene(); d != nil {
				prog.Decls = append(prog.Decls, d)
			}
		case RAW:
			tok := p.advance()
			prog.Decls = append(prog.Decls, &RawDecl{Text: tok.Lexeme, Pos: tok.Pos})
		default:
			tok := p.peek()
			p.rep.Errorf(tok.Pos, "expected a game, sprite or scene declaration, got %q", tok.Lexeme)
			p.syncTopLevel()
		}
	}
	return prog
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	return p.peekAt(0)
}

// peekAt returns the token at the given offset from the current position.
func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos+offset]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt; otherwise it records a
// diagnostic and reports failure without consuming.
func (p *Parser) expect(tt TokenType) (Token, bool) {
	tok := p.peek()
	if tok.Type != tt {
		p.rep.Errorf(tok.Pos, "expected %s, got %s (%q)", tt, tok.Type, tok.Lexeme)
		return tok, false
	}
	return p.advance(), true
}

// isKeywordToken reports whether tt is a word keyword (not a symbol), so
// keyword text can be reused where the grammar wants a plain name.
func isKeywordToken(tt TokenType) bool {
	switch tt {
	case GAME, SPRITE, SCENE, ON, UPDATE, DRAW, IF, ELSE, WHILE, FOR, IN, RETURN, TRUE, FALSE:
		return true
	}
	return false
}

// syncTopLevel skips tokens until the next declaration keyword at brace
// depth zero.
func (p *Parser) syncTopLevel() {
	depth := 0
	for {
		switch p.peek().Type {
		case EOF:
			return
		case LBRACE:
			depth++
		case RBRACE:
			if depth > 0 {
				depth--
			}
		case GAME, SPRITE, SCENE:
			if depth == 0 {
				return
			}
		}
		p.advance()
	}
}

// syncStatement skips the remainder of the offending source line, stopping
// early at a closing brace so block structure is preserved.
func (p *Parser) syncStatement() {
	line := p.peek().Pos.Line
	for p.peek().Type != EOF && p.peek().Type != RBRACE {
		if p.peek().Pos.Line > line {
			return
		}
		p.advance()
	}
}

//  Declarations

func (p *Parser) parseGame() Decl {
	gameTok := p.advance()
	nameTok, ok := p.expect(IDENTIFIER)
	if !ok {
		p.syncTopLevel()
		return nil
	}
	if _, ok := p.expect(LBRACE); !ok {
		p.syncTopLevel()
		return nil
	}

	g := &GameDecl{Name: nameTok.Lexeme, Pos: gameTok.Pos}
	for p.peek().Type != RBRACE && p.peek().Type != EOF {
		prop, ok := p.parseProperty("game configuration")
		if !ok {
			continue
		}
		g.Props = append(g.Props, prop)
	}
	p.expect(RBRACE)
	return g
}

func (p *Parser) parseSprite() Decl {
	spriteTok := p.advance()
	nameTok, ok := p.expect(IDENTIFIER)
	if !ok {
		p.syncTopLevel()
		return nil
	}
	if _, ok := p.expect(LBRACE); !ok {
		p.syncTopLevel()
		return nil
	}

	s := &SpriteDecl{Name: nameTok.Lexeme, Pos: spriteTok.Pos}
	for p.peek().Type != RBRACE && p.peek().Type != EOF {
		if p.peek().Type == ON {
			if h := p.parseHandler(); h != nil {
				s.Handlers = append(s.Handlers, h)
			}
			continue
		}
		prop, ok := p.parseProperty("sprite")
		if !ok {
			continue
		}
		s.Fields = append(s.Fields, prop)
	}
	p.expect(RBRACE)
	return s
}

// parseProperty parses one "name = expression" entry. On failure it reports,
// synchronizes, and returns ok=false.
func (p *Parser) parseProperty(context string) (Property, bool) {
	tok := p.peek()
	if tok.Type != IDENTIFIER || p.peekAt(1).Type != ASSIGN {
		p.rep.Errorf(tok.Pos, "expected a %s entry (name = value), got %q", context, tok.Lexeme)
		p.syncStatement()
		return Property{}, false
	}
	nameTok := p.advance()
	p.advance() // =
	value := p.parseExpression()
	if value == nil {
		p.syncStatement()
		return Property{}, false
	}
	return Property{Name: nameTok.Lexeme, Value: value, Pos: nameTok.Pos}, true
}

func (p *Parser) parseHandler() *Handler {
	onTok := p.advance()
	evTok, ok := p.expect(IDENTIFIER)
	if !ok {
		p.syncStatement()
		return nil
	}
	if _, ok := p.expect(LPAREN); !ok {
		p.syncStatement()
		return nil
	}

	var params []*Ident
	for p.peek().Type != RPAREN && p.peek().Type != EOF {
		paramTok, ok := p.expect(IDENTIFIER)
		if !ok {
			p.syncStatement()
			return nil
		}
		params = append(params, &Ident{Name: paramTok.Lexeme, Pos: paramTok.Pos})
		if p.peek().Type != COMMA {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(RPAREN); !ok {
		p.syncStatement()
		return nil
	}

	body, ok := p.parseBlock()
	if !ok {
		return nil
	}
	return &Handler{Event: evTok.Lexeme, Params: params, Body: body, Pos: onTok.Pos}
}

func (p *Parser) parseScene() Decl {
	sceneTok := p.advance()
	nameTok, ok := p.expect(IDENTIFIER)
	if !ok {
		p.syncTopLevel()
		return nil
	}
	if _, ok := p.expect(LBRACE); !ok {
		p.syncTopLevel()
		return nil
	}

	s := &SceneDecl{Name: nameTok.Lexeme, Pos: sceneTok.Pos}
	for p.peek().Type != RBRACE && p.peek().Type != EOF {
		switch p.peek().Type {
		case UPDATE:
			tok := p.advance()
			body, ok := p.parseBlock()
			if !ok {
				continue
			}
			if s.Update != nil {
				p.rep.Errorf(tok.Pos, "scene %q already has an update block", s.Name)
				continue
			}
			s.Update = body
		case DRAW:
			tok := p.advance()
			body, ok := p.parseBlock()
			if !ok {
				continue
			}
			if s.Draw != nil {
				p.rep.Errorf(tok.Pos, "scene %q already has a draw block", s.Name)
				continue
			}
			s.Draw = body
		case RAW:
			tok := p.advance()
			s.Setup = append(s.Setup, &RawStmt{Text: tok.Lexeme, Pos: tok.Pos})
		default:
			stmt := p.parseSimpleStmt()
			if stmt == nil {
				continue
			}
			if _, ok := stmt.(*AssignStmt); !ok {
				p.rep.Errorf(stmt.Position(), "only assignments are allowed in scene setup")
				continue
			}
			s.Setup = append(s.Setup, stmt)
		}
	}
	p.expect(RBRACE)
	return s
}

//  Statements

// parseBlock parses "{" statement* "}".
func (p *Parser) parseBlock() ([]Stmt, bool) {
	if _, ok := p.expect(LBRACE); !ok {
		p.syncStatement()
		return nil, false
	}
	var stmts []Stmt
	for p.peek().Type != RBRACE && p.peek().Type != EOF {
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expect(RBRACE)
	return stmts, true
}

func (p *Parser) parseStatement() Stmt {
	switch p.peek().Type {
	case IF:
		return p.parseIf()
	case WHILE:
		return p.parseWhile()
	case FOR:
		return p.parseForIn()
	case RETURN:
		return p.parseReturn()
	case RAW:
		tok := p.advance()
		return &RawStmt{Text: tok.Lexeme, Pos: tok.Pos}
	case SEMICOLON:
		p.advance() // stray terminator, tolerated
		return nil
	default:
		return p.parseSimpleStmt()
	}
}

func (p *Parser) parseIf() Stmt {
	ifTok := p.advance()
	cond := p.parseExpression()
	if cond == nil {
		p.syncStatement()
		return nil
	}
	then, ok := p.parseBlock()
	if !ok {
		return nil
	}
	stmt := &IfStmt{Cond: cond, Then: then, Pos: ifTok.Pos}

	if p.peek().Type == ELSE {
		p.advance()
		if p.peek().Type == IF {
			if nested := p.parseIf(); nested != nil {
				stmt.Else = []Stmt{nested}
			}
		} else {
			body, ok := p.parseBlock()
			if !ok {
				return stmt
			}
			stmt.Else = body
			if stmt.Else == nil {
				stmt.Else = []Stmt{} // empty else block is still an else
			}
		}
	}
	return stmt
}

func (p *Parser) parseWhile() Stmt {
	whileTok := p.advance()
	cond := p.parseExpression()
	if cond == nil {
		p.syncStatement()
		return nil
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil
	}
	return &WhileStmt{Cond: cond, Body: body, Pos: whileTok.Pos}
}

// parseForIn parses "for <var> in <source> { ... }". The membership keyword
// carries its own token kind; expecting a generic IDENTIFIER in its place
// breaks this production.
func (p *Parser) parseForIn() Stmt {
	forTok := p.advance()
	varTok, ok := p.expect(IDENTIFIER)
	if !ok {
		p.syncStatement()
		return nil
	}
	if _, ok := p.expect(IN); !ok {
		p.syncStatement()
		return nil
	}
	src := p.parseExpression()
	if src == nil {
		p.syncStatement()
		return nil
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil
	}
	return &ForInStmt{
		Var:    &Ident{Name: varTok.Lexeme, Pos: varTok.Pos},
		Source: src,
		Body:   body,
		Pos:    forTok.Pos,
	}
}

func (p *Parser) parseReturn() Stmt {
	retTok := p.advance()
	stmt := &ReturnStmt{Pos: retTok.Pos}
	// A value on the same line belongs to the return.
	next := p.peek()
	if next.Type != RBRACE && next.Type != EOF && next.Pos.Line == retTok.Pos.Line {
		stmt.Value = p.parseExpression()
	}
	return stmt
}

// parseSimpleStmt parses either an assignment or a bare expression statement.
func (p *Parser) parseSimpleStmt() Stmt {
	start := p.peek().Pos
	expr := p.parseExpression()
	if expr == nil {
		p.syncStatement()
		return nil
	}

	if p.peek().Type == ASSIGN {
		p.advance()
		value := p.parseExpression()
		if value == nil {
			p.syncStatement()
			return nil
		}
		switch expr.(type) {
		case *Ident, *MemberExpr:
		default:
			p.rep.Errorf(start, "invalid assignment target")
			return nil
		}
		return &AssignStmt{Target: expr, Value: value, Pos: start}
	}
	return &ExprStmt{X: expr, Pos: start}
}

//  Expressions

// parseExpression is the entry point for expression parsing. It returns nil
// after recording a diagnostic when no expression can be formed.
func (p *Parser) parseExpression() Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() Expr {
	expr := p.parseAnd()
	if expr == nil {
		return nil
	}
	for p.peek().Type == LOR {
		opTok := p.advance()
		right := p.parseAnd()
		if right == nil {
			return nil
		}
		expr = &BinaryExpr{Op: LOR, Left: expr, Right: right, Pos: opTok.Pos}
	}
	return expr
}

func (p *Parser) parseAnd() Expr {
	expr := p.parseEquality()
	if expr == nil {
		return nil
	}
	for p.peek().Type == LAND {
		opTok := p.advance()
		right := p.parseEquality()
		if right == nil {
			return nil
		}
		expr = &BinaryExpr{Op: LAND, Left: expr, Right: right, Pos: opTok.Pos}
	}
	return expr
}

func (p *Parser) parseEquality() Expr {
	expr := p.parseRelational()
	if expr == nil {
		return nil
	}
	for p.peek().Type == EQUALS || p.peek().Type == NOT_EQ {
		opTok := p.advance()
		right := p.parseRelational()
		if right == nil {
			return nil
		}
		expr = &BinaryExpr{Op: opTok.Type, Left: expr, Right: right, Pos: opTok.Pos}
	}
	return expr
}

func (p *Parser) parseRelational() Expr {
	expr := p.parseAdditive()
	if expr == nil {
		return nil
	}
	for p.peek().Type == LESS || p.peek().Type == GREATER ||
		p.peek().Type == LESS_EQ || p.peek().Type == GREATER_EQ {
		opTok := p.advance()
		right := p.parseAdditive()
		if right == nil {
			return nil
		}
		expr = &BinaryExpr{Op: opTok.Type, Left: expr, Right: right, Pos: opTok.Pos}
	}
	return expr
}

func (p *Parser) parseAdditive() Expr {
	expr := p.parseMultiplicative()
	if expr == nil {
		return nil
	}
	for p.peek().Type == PLUS || p.peek().Type == MINUS {
		opTok := p.advance()
		right := p.parseMultiplicative()
		if right == nil {
			return nil
		}
		expr = &BinaryExpr{Op: opTok.Type, Left: expr, Right: right, Pos: opTok.Pos}
	}
	return expr
}

func (p *Parser) parseMultiplicative() Expr {
	expr := p.parseUnary()
	if expr == nil {
		return nil
	}
	for p.peek().Type == STAR || p.peek().Type == SLASH || p.peek().Type == PERCENT {
		opTok := p.advance()
		right := p.parseUnary()
		if right == nil {
			return nil
		}
		expr = &BinaryExpr{Op: opTok.Type, Left: expr, Right: right, Pos: opTok.Pos}
	}
	return expr
}

func (p *Parser) parseUnary() Expr {
	if p.peek().Type == NOT || p.peek().Type == MINUS {
		opTok := p.advance()
		right := p.parseUnary()
		if right == nil {
			return nil
		}
		return &UnaryExpr{Op: opTok.Type, Right: right, Pos: opTok.Pos}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() Expr {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}
	for {
		switch p.peek().Type {
		case LPAREN:
			lparen := p.advance()
			var args []Expr
			for p.peek().Type != RPAREN && p.peek().Type != EOF {
				arg := p.parseExpression()
				if arg == nil {
					return nil
				}
				args = append(args, arg)
				if p.peek().Type != COMMA {
					break
				}
				p.advance()
			}
			if _, ok := p.expect(RPAREN); !ok {
				return nil
			}
			expr = &CallExpr{Callee: expr, Args: args, Pos: lparen.Pos}
		case DOT:
			p.advance()
			// Keywords are fine as member names: ball.draw() must parse even
			// though "draw" has its own token kind.
			nameTok := p.peek()
			if nameTok.Type != IDENTIFIER && !isKeywordToken(nameTok.Type) {
				p.rep.Errorf(nameTok.Pos, "expected a member name, got %s (%q)", nameTok.Type, nameTok.Lexeme)
				return nil
			}
			p.advance()
			expr = &MemberExpr{Object: expr, Name: nameTok.Lexeme, Pos: nameTok.Pos}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() Expr {
	tok := p.peek()
	switch tok.Type {
	case NUMBER:
		p.advance()
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.rep.Errorf(tok.Pos, "malformed number literal %q", tok.Lexeme)
			return nil
		}
		return &NumberLit{Value: v, Text: tok.Lexeme, Pos: tok.Pos}
	case STRING:
		p.advance()
		return &StringLit{Value: tok.Lexeme, Pos: tok.Pos}
	case TRUE:
		p.advance()
		return &BoolLit{Value: true, Pos: tok.Pos}
	case FALSE:
		p.advance()
		return &BoolLit{Value: false, Pos: tok.Pos}
	case IDENTIFIER:
		p.advance()
		return &Ident{Name: tok.Lexeme, Pos: tok.Pos}
	case LPAREN:
		p.advance()
		first := p.parseExpression()
		if first == nil {
			return nil
		}
		if p.peek().Type == COMMA {
			elems := []Expr{first}
			for p.peek().Type == COMMA {
				p.advance()
				elem := p.parseExpression()
				if elem == nil {
					return nil
				}
				elems = append(elems, elem)
			}
			if _, ok := p.expect(RPAREN); !ok {
				return nil
			}
			return &TupleExpr{Elements: elems, Pos: tok.Pos}
		}
		if _, ok := p.expect(RPAREN); !ok {
			return nil
		}
		return first
	default:
		p.rep.Errorf(tok.Pos, "expected an expression, got %s (%q)", tok.Type, tok.Lexeme)
		return nil
	}
}
