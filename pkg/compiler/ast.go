package compiler

import (
	"fmt"
	"strings"
)

//  Expression nodes

// Expr is implemented by every node that produces a value.
type Expr interface {
	exprNode()
	Position() Pos
	String() string
}

// NumberLit is a numeric constant. Text preserves the source spelling so the
// generator can tell integral literals from decimals.
type NumberLit struct {
	Value float64
	Text  string
	Pos   Pos
}

func (*NumberLit) exprNode()        {}
func (n *NumberLit) Position() Pos  { return n.Pos }
func (n *NumberLit) String() string { return n.Text }

// StringLit is a string constant.
type StringLit struct {
	Value string
	Pos   Pos
}

func (*StringLit) exprNode()        {}
func (s *StringLit) Position() Pos  { return s.Pos }
func (s *StringLit) String() string { return fmt.Sprintf("%q", s.Value) }

// BoolLit is true or false.
type BoolLit struct {
	Value bool
	Pos   Pos
}

func (*BoolLit) exprNode()       {}
func (b *BoolLit) Position() Pos { return b.Pos }
func (b *BoolLit) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// RefKind is the scope resolver's classification of an identifier occurrence.
// Every Ident must leave analysis with a kind other than RefUnresolved; the
// code generator trusts this field and never re-resolves.
type RefKind int

const (
	RefUnresolved RefKind = iota
	RefNewLocal           // assignment target creating a binding in the current frame
	RefLocal              // read or write of an existing body-frame binding
	RefField              // read or write of an enclosing field frame (sprite field / scene var)
	RefTemplate           // sprite or scene template name
	RefBuiltin            // pre-declared builtin (collides, draw_text, ...)
)

var refKindNames = [...]string{
	RefUnresolved: "unresolved",
	RefNewLocal:   "new local",
	RefLocal:      "local",
	RefField:      "field",
	RefTemplate:   "template",
	RefBuiltin:    "builtin",
}

func (k RefKind) String() string {
	if int(k) >= 0 && int(k) < len(refKindNames) {
		return refKindNames[k]
	}
	return fmt.Sprintf("RefKind(%d)", int(k))
}

// Ident is a reference to a named binding. Ref and Sym are filled in by the
// scope resolver; they are the single source of truth for code generation.
type Ident struct {
	Name string
	Pos  Pos

	Ref RefKind
	Sym *Symbol // nil until resolved
}

func (*Ident) exprNode()        {}
func (i *Ident) Position() Pos  { return i.Pos }
func (i *Ident) String() string { return i.Name }

// BinaryExpr represents Left Op Right.
type BinaryExpr struct {
	Op    TokenType
	Left  Expr
	Right Expr
	Pos   Pos
}

func (*BinaryExpr) exprNode()       {}
func (b *BinaryExpr) Position() Pos { return b.Pos }
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// UnaryExpr represents Op Right (not x, -x).
type UnaryExpr struct {
	Op    TokenType
	Right Expr
	Pos   Pos
}

func (*UnaryExpr) exprNode()        {}
func (u *UnaryExpr) Position() Pos  { return u.Pos }
func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s %s)", u.Op, u.Right) }

// CallExpr represents callee(args). The callee is an Ident (builtin or
// template constructor) or a MemberExpr (instance method like player.draw).
type CallExpr struct {
	Callee Expr
	Args   []Expr
	Pos    Pos
}

func (*CallExpr) exprNode()       {}
func (c *CallExpr) Position() Pos { return c.Pos }
func (c *CallExpr) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(parts, ", "))
}

// MemberExpr represents Object.Name.
type MemberExpr struct {
	Object Expr
	Name   string
	Pos    Pos
}

func (*MemberExpr) exprNode()        {}
func (m *MemberExpr) Position() Pos  { return m.Pos }
func (m *MemberExpr) String() string { return fmt.Sprintf("%s.%s", m.Object, m.Name) }

// TupleExpr represents a parenthesized comma list, e.g. the color literal
// (255, 255, 255). The language only admits tuples as color arguments.
type TupleExpr struct {
	Elements []Expr
	Pos      Pos
}

func (*TupleExpr) exprNode()       {}
func (t *TupleExpr) Position() Pos { return t.Pos }
func (t *TupleExpr) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

//  Statement nodes

// Stmt is implemented by every node that does not produce a value.
type Stmt interface {
	stmtNode()
	Position() Pos
}

// AssignStmt represents Target = Value. Target is an Ident or a MemberExpr.
type AssignStmt struct {
	Target Expr
	Value  Expr
	Pos    Pos
}

func (*AssignStmt) stmtNode()       {}
func (a *AssignStmt) Position() Pos { return a.Pos }

// IfStmt represents if cond { } [else { }]. Else holds either the else-block
// statements or a single nested IfStmt for else-if chains.
type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt // nil when absent
	Pos  Pos
}

func (*IfStmt) stmtNode()       {}
func (i *IfStmt) Position() Pos { return i.Pos }

// WhileStmt represents while cond { }.
type WhileStmt struct {
	Cond Expr
	Body []Stmt
	Pos  Pos
}

func (*WhileStmt) stmtNode()       {}
func (w *WhileStmt) Position() Pos { return w.Pos }

// ForInStmt represents for var in source { }.
type ForInStmt struct {
	Var    *Ident
	Source Expr
	Body   []Stmt
	Pos    Pos
}

func (*ForInStmt) stmtNode()       {}
func (f *ForInStmt) Position() Pos { return f.Pos }

// ReturnStmt represents return [expr]. Handlers produce no value, so a
// returned expression is discarded (the analyzer warns about it).
type ReturnStmt struct {
	Value Expr // may be nil
	Pos   Pos
}

func (*ReturnStmt) stmtNode()       {}
func (r *ReturnStmt) Position() Pos { return r.Pos }

// ExprStmt is an expression evaluated for its side effects (a call).
type ExprStmt struct {
	X   Expr
	Pos Pos
}

func (*ExprStmt) stmtNode()       {}
func (e *ExprStmt) Position() Pos { return e.Pos }

// RawStmt is a pass-through block in statement position.
type RawStmt struct {
	Text string
	Pos  Pos
}

func (*RawStmt) stmtNode()       {}
func (r *RawStmt) Position() Pos { return r.Pos }

//  Declaration nodes

// Decl is implemented by top-level declarations.
type Decl interface {
	declNode()
	Position() Pos
}

// Property is a name = expression entry inside a game or sprite block.
type Property struct {
	Name  string
	Value Expr
	Pos   Pos

	Sym *Symbol // filled in by the scope resolver for sprite fields
}

// GameDecl is the program configuration block.
type GameDecl struct {
	Name  string
	Props []Property
	Pos   Pos
}

func (*GameDecl) declNode()       {}
func (g *GameDecl) Position() Pos { return g.Pos }

// Handler is procedural code attached to an input event kind.
type Handler struct {
	Event  string   // keydown, keyup, mousedown, mouseup, mousemove
	Params []*Ident // parameter names; declared in the handler's frame
	Body   []Stmt
	Pos    Pos
}

// SpriteDecl is an entity template: persistent fields plus event handlers.
type SpriteDecl struct {
	Name     string
	Fields   []Property
	Handlers []*Handler
	Pos      Pos
}

func (*SpriteDecl) declNode()       {}
func (s *SpriteDecl) Position() Pos { return s.Pos }

// SceneDecl is a scene template. Setup holds the free assignments that run
// once at scene construction (instance spawns and scene variables); Update
// and Draw are the per-frame blocks.
type SceneDecl struct {
	Name   string
	Setup  []Stmt
	Update []Stmt // nil when the block is absent
	Draw   []Stmt // nil when the block is absent
	Pos    Pos
}

func (*SceneDecl) declNode()       {}
func (s *SceneDecl) Position() Pos { return s.Pos }

// RawDecl is a pass-through block at top level, emitted at file scope.
type RawDecl struct {
	Text string
	Pos  Pos
}

func (*RawDecl) declNode()       {}
func (r *RawDecl) Position() Pos { return r.Pos }

// Program is the root of the AST: the declarations in source order.
type Program struct {
	Decls []Decl
}

// Game returns the program's game configuration block, or nil.
func (p *Program) Game() *GameDecl {
	for _, d := range p.Decls {
		if g, ok := d.(*GameDecl); ok {
			return g
		}
	}
	return nil
}

// Sprites returns the sprite declarations in source order.
func (p *Program) Sprites() []*SpriteDecl {
	var out []*SpriteDecl
	for _, d := range p.Decls {
		if s, ok := d.(*SpriteDecl); ok {
			out = append(out, s)
		}
	}
	return out
}

// Scenes returns the scene declarations in source order.
func (p *Program) Scenes() []*SceneDecl {
	var out []*SceneDecl
	for _, d := range p.Decls {
		if s, ok := d.(*SceneDecl); ok {
			out = append(out, s)
		}
	}
	return out
}
