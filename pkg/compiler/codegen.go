package compiler

import (
	"fmt"
	"strings"
)

// CodeGen walks an annotated AST and emits the Go source of a runnable
// Ebiten program. It consumes the scope resolver's classifications verbatim:
// every Ident must carry a RefKind, and re-resolving here is a bug.
//
// Any value the generator cannot represent in target syntax is a
// stage-contract violation: generation aborts with an error and emits
// nothing.
type CodeGen struct {
	out    strings.Builder
	indent int

	prog       *Program
	scenes     []*SceneDecl
	sceneIndex map[string]int
	receiver   string // "s" in sprite methods, "sc" in scene bodies, "" elsewhere
}

// Generate renders prog as Go source. prog must have passed Analyze with no
// errors; the returned error is the fatal internal kind, never a user
// diagnostic.
func Generate(prog *Program) (string, error) {
	cg := &CodeGen{
		prog:       prog,
		scenes:     prog.Scenes(),
		sceneIndex: make(map[string]int),
	}
	for i, s := range cg.scenes {
		cg.sceneIndex[s.Name] = i
	}

	if err := cg.genProgram(); err != nil {
		return "", err
	}
	return cg.out.String(), nil
}

func (cg *CodeGen) line(format string, args ...any) {
	cg.out.WriteString(strings.Repeat("\t", cg.indent))
	fmt.Fprintf(&cg.out, format+"\n", args...)
}

func (cg *CodeGen) blank() {
	cg.out.WriteByte('\n')
}

// errf builds the fatal CodeGen error.
func (cg *CodeGen) errf(pos Pos, format string, args ...any) error {
	return fmt.Errorf("codegen: %s: %s", pos, fmt.Sprintf(format, args...))
}

//  Naming

// goKeywords are names that cannot appear as Go identifiers.
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true,
	"for": true, "func": true, "go": true, "goto": true, "if": true,
	"import": true, "interface": true, "map": true, "package": true,
	"range": true, "return": true, "select": true, "struct": true,
	"switch": true, "type": true, "var": true,
}

// reservedIdents are names the generated code claims for itself.
var reservedIdents = map[string]bool{
	"s": true, "sc": true, "ev": true, "screen": true, "app": true,
	"activeScene": true, "host": true, "ebiten": true, "log": true,
}

// safeName maps a source identifier onto a Go identifier that cannot collide
// with keywords or generated plumbing.
func safeName(name string) string {
	if goKeywords[name] || reservedIdents[name] {
		return name + "_"
	}
	return name
}

func upperFirst(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func lowerFirst(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// typeName is the Go type generated for a sprite or scene template.
func typeName(name string) string {
	return upperFirst(name)
}

// sceneVarName is the package-level variable holding a scene singleton. The
// Scene suffix keeps it clear of func main and the sprite constructors.
func sceneVarName(name string) string {
	n := lowerFirst(typeName(name))
	if !strings.HasSuffix(n, "Scene") {
		n += "Scene"
	}
	return safeName(n)
}

// handlerMethod maps an event kind onto its generated method name.
func handlerMethod(event string) string {
	return "On" + upperFirst(event)
}

// goType renders the Go type for a symbol's advisory value type. Unknown
// values fall back to float64, the language's native numeric type.
func goType(sym *Symbol) string {
	if sym == nil {
		return "float64"
	}
	switch sym.Type {
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeInstance:
		return "*" + typeName(sym.Sprite)
	default:
		return "float64"
	}
}

//  Program layout

func (cg *CodeGen) genProgram() error {
	game := cg.prog.Game()

	cg.line("// Code generated by spritec. DO NOT EDIT.")
	cg.line("package main")
	cg.blank()
	cg.line("import (")
	cg.indent++
	cg.line(`"log"`)
	cg.blank()
	cg.line(`"github.com/hajimehoshi/ebiten/v2"`)
	cg.blank()
	cg.line(`"spritec/pkg/host"`)
	cg.indent--
	cg.line(")")
	cg.blank()

	// Pass-through blocks come right after the import block so user imports
	// stay in the file's import section.
	for _, d := range cg.prog.Decls {
		if r, ok := d.(*RawDecl); ok {
			cg.emitRaw(r.Text)
			cg.blank()
		}
	}

	if err := cg.genConfig(game); err != nil {
		return err
	}

	for _, s := range cg.prog.Sprites() {
		cg.blank()
		if err := cg.genSprite(s); err != nil {
			return err
		}
	}

	if len(cg.scenes) > 0 {
		cg.blank()
		cg.line("var activeScene int")
		for _, s := range cg.scenes {
			cg.blank()
			if err := cg.genScene(s); err != nil {
				return err
			}
		}
	}

	cg.blank()
	if err := cg.genDriver(game); err != nil {
		return err
	}
	return nil
}

func (cg *CodeGen) genConfig(game *GameDecl) error {
	width, height := 800, 600
	if game != nil {
		for _, prop := range game.Props {
			switch prop.Name {
			case "width", "height":
				lit, ok := prop.Value.(*NumberLit)
				if !ok {
					return cg.errf(prop.Pos, "game %s survived validation without a number literal", prop.Name)
				}
				if prop.Name == "width" {
					width = int(lit.Value)
				} else {
					height = int(lit.Value)
				}
			}
		}
	}
	cg.line("const (")
	cg.indent++
	cg.line("screenWidth  = %d", width)
	cg.line("screenHeight = %d", height)
	cg.indent--
	cg.line(")")
	return nil
}

//  Sprites

func (cg *CodeGen) genSprite(s *SpriteDecl) error {
	name := typeName(s.Name)

	cg.line("type %s struct {", name)
	cg.indent++
	for _, f := range s.Fields {
		cg.line("%s %s", safeName(f.Name), goType(f.Sym))
	}
	cg.indent--
	cg.line("}")
	cg.blank()

	// Field initializers may read fields declared above them, so the
	// constructor assigns sequentially instead of using a struct literal.
	cg.line("func New%s() *%s {", name, name)
	cg.indent++
	cg.line("s := &%s{}", name)
	cg.receiver = "s"
	for _, f := range s.Fields {
		expr, err := cg.genExpr(f.Value)
		if err != nil {
			return err
		}
		cg.line("s.%s = %s", safeName(f.Name), expr)
	}
	cg.receiver = ""
	cg.line("return s")
	cg.indent--
	cg.line("}")

	if err := cg.genSpriteGeometry(s, name); err != nil {
		return err
	}

	for _, h := range s.Handlers {
		cg.blank()
		if err := cg.genHandler(s, h); err != nil {
			return err
		}
	}
	return nil
}

// genSpriteGeometry emits the Frame and Draw methods backing collides() and
// instance.draw(). Position and size come from the conventional x/y/width/
// height fields when declared.
func (cg *CodeGen) genSpriteGeometry(s *SpriteDecl, name string) error {
	has := make(map[string]bool)
	for _, f := range s.Fields {
		has[f.Name] = true
	}
	coord := func(field, fallback string) string {
		if has[field] {
			return "s." + field
		}
		return fallback
	}

	cg.blank()
	cg.line("func (s *%s) Frame() host.Box {", name)
	cg.indent++
	cg.line("return host.Box{X: %s, Y: %s, W: %s, H: %s}",
		coord("x", "0"), coord("y", "0"),
		coord("width", "32"), coord("height", "32"))
	cg.indent--
	cg.line("}")

	cg.blank()
	cg.line("func (s *%s) Draw(screen *ebiten.Image) {", name)
	cg.indent++
	cg.line("host.DrawRect(screen, s.Frame())")
	cg.indent--
	cg.line("}")
	return nil
}

func (cg *CodeGen) genHandler(s *SpriteDecl, h *Handler) error {
	params := make([]string, len(h.Params))
	for i, p := range h.Params {
		typ := "float64"
		if eventParamType(h.Event, i) == TypeString {
			typ = "string"
		}
		params[i] = safeName(p.Name) + " " + typ
	}

	cg.line("func (s *%s) %s(%s) {", typeName(s.Name), handlerMethod(h.Event), strings.Join(params, ", "))
	cg.indent++
	cg.receiver = "s"
	err := cg.genBody(h.Body)
	cg.receiver = ""
	cg.indent--
	cg.line("}")
	return err
}

//  Scenes

// sceneVars lists the scene's variable symbols in declaration order.
func sceneVars(s *SceneDecl) []*Symbol {
	var out []*Symbol
	seen := make(map[*Symbol]bool)
	for _, stmt := range s.Setup {
		assign, ok := stmt.(*AssignStmt)
		if !ok {
			continue
		}
		id, ok := assign.Target.(*Ident)
		if !ok || id.Sym == nil || seen[id.Sym] {
			continue
		}
		seen[id.Sym] = true
		out = append(out, id.Sym)
	}
	return out
}

func (cg *CodeGen) genScene(s *SceneDecl) error {
	name := typeName(s.Name)

	cg.line("type %s struct {", name)
	cg.indent++
	for _, sym := range sceneVars(s) {
		cg.line("%s %s", safeName(sym.Name), goType(sym))
	}
	cg.indent--
	cg.line("}")
	cg.blank()

	cg.line("var %s = new%s()", sceneVarName(s.Name), name)
	cg.blank()

	cg.line("func new%s() *%s {", name, name)
	cg.indent++
	cg.line("sc := &%s{}", name)
	cg.receiver = "sc"
	for _, stmt := range s.Setup {
		if err := cg.genStmt(stmt); err != nil {
			cg.receiver = ""
			return err
		}
	}
	cg.receiver = ""
	cg.line("return sc")
	cg.indent--
	cg.line("}")

	cg.blank()
	cg.line("func (sc *%s) update() {", name)
	cg.indent++
	cg.receiver = "sc"
	if err := cg.genBody(s.Update); err != nil {
		cg.receiver = ""
		return err
	}
	cg.receiver = ""
	cg.indent--
	cg.line("}")

	cg.blank()
	cg.line("func (sc *%s) draw(screen *ebiten.Image) {", name)
	cg.indent++
	cg.receiver = "sc"
	if err := cg.genBody(s.Draw); err != nil {
		cg.receiver = ""
		return err
	}
	cg.receiver = ""
	cg.indent--
	cg.line("}")

	cg.blank()
	return cg.genSceneDispatch(s, name)
}

// eventDispatchOrder fixes the case order of generated event switches.
var eventDispatchOrder = []struct {
	event string
	kind  string
	args  string
}{
	{"keydown", "host.KeyDown", "ev.Key"},
	{"keyup", "host.KeyUp", "ev.Key"},
	{"mousedown", "host.MouseDown", "ev.Button, ev.X, ev.Y"},
	{"mouseup", "host.MouseUp", "ev.Button, ev.X, ev.Y"},
	{"mousemove", "host.MouseMove", "ev.X, ev.Y"},
}

// genSceneDispatch emits handleEvent, which forwards one input event to the
// matching handler of every live instance in this scene.
func (cg *CodeGen) genSceneDispatch(s *SceneDecl, name string) error {
	handlersOf := make(map[string][]string) // event kind -> receiver exprs
	for _, sym := range sceneVars(s) {
		if sym.Type != TypeInstance {
			continue
		}
		sprite := cg.spriteByName(sym.Sprite)
		if sprite == nil {
			return cg.errf(s.Pos, "scene %q spawns unknown sprite %q", s.Name, sym.Sprite)
		}
		for _, h := range sprite.Handlers {
			handlersOf[h.Event] = append(handlersOf[h.Event], "sc."+safeName(sym.Name))
		}
	}

	cg.line("func (sc *%s) handleEvent(ev host.Event) {", name)
	cg.indent++
	any := false
	for _, d := range eventDispatchOrder {
		if len(handlersOf[d.event]) > 0 {
			any = true
		}
	}
	if !any {
		cg.line("_ = ev")
	} else {
		cg.line("switch ev.Kind {")
		for _, d := range eventDispatchOrder {
			targets := handlersOf[d.event]
			if len(targets) == 0 {
				continue
			}
			cg.line("case %s:", d.kind)
			cg.indent++
			for _, target := range targets {
				cg.line("%s.%s(%s)", target, handlerMethod(d.event), d.args)
			}
			cg.indent--
		}
		cg.line("}")
	}
	cg.indent--
	cg.line("}")
	return nil
}

func (cg *CodeGen) spriteByName(name string) *SpriteDecl {
	for _, s := range cg.prog.Sprites() {
		if s.Name == name {
			return s
		}
	}
	return nil
}

//  Frame loop driver

func (cg *CodeGen) genDriver(game *GameDecl) error {
	cg.line("type app struct{}")
	cg.blank()

	cg.line("func (*app) Update() error {")
	cg.indent++
	if len(cg.scenes) == 0 {
		cg.line("host.PollEvents()")
	} else {
		cg.line("for _, ev := range host.PollEvents() {")
		cg.indent++
		cg.genSceneSwitch(func(s *SceneDecl) {
			cg.line("%s.handleEvent(ev)", sceneVarName(s.Name))
		})
		cg.indent--
		cg.line("}")
		cg.genSceneSwitch(func(s *SceneDecl) {
			cg.line("%s.update()", sceneVarName(s.Name))
		})
	}
	cg.line("return nil")
	cg.indent--
	cg.line("}")
	cg.blank()

	cg.line("func (*app) Draw(screen *ebiten.Image) {")
	cg.indent++
	cg.genSceneSwitch(func(s *SceneDecl) {
		cg.line("%s.draw(screen)", sceneVarName(s.Name))
	})
	cg.indent--
	cg.line("}")
	cg.blank()

	cg.line("func (*app) Layout(outsideWidth, outsideHeight int) (int, int) {")
	cg.indent++
	cg.line("return screenWidth, screenHeight")
	cg.indent--
	cg.line("}")
	cg.blank()

	title := "Untitled"
	fps := 0
	if game != nil {
		for _, prop := range game.Props {
			switch prop.Name {
			case "title":
				if lit, ok := prop.Value.(*StringLit); ok {
					title = lit.Value
				}
			case "fps":
				if lit, ok := prop.Value.(*NumberLit); ok {
					fps = int(lit.Value)
				}
			}
		}
	}

	cg.line("func main() {")
	cg.indent++
	cg.line("ebiten.SetWindowSize(screenWidth, screenHeight)")
	cg.line("ebiten.SetWindowTitle(%q)", title)
	if fps > 0 {
		cg.line("ebiten.SetTPS(%d)", fps)
	}
	cg.line("if err := ebiten.RunGame(&app{}); err != nil {")
	cg.indent++
	cg.line("log.Fatal(err)")
	cg.indent--
	cg.line("}")
	cg.indent--
	cg.line("}")
	return nil
}

// genSceneSwitch emits either an unconditional call (single scene) or a
// dispatch over the mutable active-scene index, so every declared scene is
// reachable. Discarding all but the first scene is a correctness bug this
// construct exists to prevent.
func (cg *CodeGen) genSceneSwitch(emit func(*SceneDecl)) {
	switch len(cg.scenes) {
	case 0:
		// no scenes: nothing to run each frame
	case 1:
		emit(cg.scenes[0])
	default:
		cg.line("switch activeScene {")
		for i, s := range cg.scenes {
			cg.line("case %d:", i)
			cg.indent++
			emit(s)
			cg.indent--
		}
		cg.line("}")
	}
}

//  Statements

// genBody emits hoisted declarations for every new-local binding in stmts,
// then the statements themselves. Hoisting keeps the DSL's function-level
// scoping intact inside Go's block-scoped target syntax.
func (cg *CodeGen) genBody(stmts []Stmt) error {
	locals := collectNewLocals(stmts)
	if len(locals) > 0 {
		for _, sym := range locals {
			cg.line("var %s %s", safeName(sym.Name), goType(sym))
		}
		blanks := make([]string, len(locals))
		names := make([]string, len(locals))
		for i, sym := range locals {
			blanks[i] = "_"
			names[i] = safeName(sym.Name)
		}
		cg.line("%s = %s", strings.Join(blanks, ", "), strings.Join(names, ", "))
	}
	for _, stmt := range stmts {
		if err := cg.genStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

// collectNewLocals gathers the symbols of every RefNewLocal assignment
// target in stmts, in first-appearance order.
func collectNewLocals(stmts []Stmt) []*Symbol {
	var out []*Symbol
	seen := make(map[*Symbol]bool)

	var walkStmts func([]Stmt)
	add := func(id *Ident) {
		if id != nil && id.Ref == RefNewLocal && id.Sym != nil && !seen[id.Sym] {
			seen[id.Sym] = true
			out = append(out, id.Sym)
		}
	}
	walkStmts = func(list []Stmt) {
		for _, stmt := range list {
			switch n := stmt.(type) {
			case *AssignStmt:
				if id, ok := n.Target.(*Ident); ok {
					add(id)
				}
			case *IfStmt:
				walkStmts(n.Then)
				walkStmts(n.Else)
			case *WhileStmt:
				walkStmts(n.Body)
			case *ForInStmt:
				add(n.Var)
				walkStmts(n.Body)
			}
		}
	}
	walkStmts(stmts)
	return out
}

func (cg *CodeGen) genStmt(stmt Stmt) error {
	switch n := stmt.(type) {
	case *AssignStmt:
		target, err := cg.genExpr(n.Target)
		if err != nil {
			return err
		}
		value, err := cg.genExpr(n.Value)
		if err != nil {
			return err
		}
		cg.line("%s = %s", target, value)
		return nil

	case *IfStmt:
		cond, err := cg.genExpr(n.Cond)
		if err != nil {
			return err
		}
		cg.line("if %s {", cond)
		cg.indent++
		for _, s := range n.Then {
			if err := cg.genStmt(s); err != nil {
				return err
			}
		}
		cg.indent--
		if n.Else != nil {
			cg.line("} else {")
			cg.indent++
			for _, s := range n.Else {
				if err := cg.genStmt(s); err != nil {
					return err
				}
			}
			cg.indent--
		}
		cg.line("}")
		return nil

	case *WhileStmt:
		cond, err := cg.genExpr(n.Cond)
		if err != nil {
			return err
		}
		cg.line("for %s {", cond)
		cg.indent++
		for _, s := range n.Body {
			if err := cg.genStmt(s); err != nil {
				return err
			}
		}
		cg.indent--
		cg.line("}")
		return nil

	case *ForInStmt:
		src, err := cg.genExpr(n.Source)
		if err != nil {
			return err
		}
		v, err := cg.genExpr(n.Var)
		if err != nil {
			return err
		}
		// The loop variable is hoisted (or an existing binding), so the range
		// clause assigns instead of declaring; reads after the loop stay valid.
		cg.line("for _, %s = range %s {", v, src)
		cg.indent++
		for _, s := range n.Body {
			if err := cg.genStmt(s); err != nil {
				return err
			}
		}
		cg.indent--
		cg.line("}")
		return nil

	case *ReturnStmt:
		cg.line("return")
		return nil

	case *ExprStmt:
		// goto_scene mutates the active-scene index; it is a statement in
		// target syntax, not an expression.
		if call, ok := n.X.(*CallExpr); ok {
			if id, ok := call.Callee.(*Ident); ok && id.Ref == RefBuiltin && id.Name == "goto_scene" {
				return cg.genGotoScene(call)
			}
		}
		expr, err := cg.genExpr(n.X)
		if err != nil {
			return err
		}
		cg.line("%s", expr)
		return nil

	case *RawStmt:
		cg.emitRaw(n.Text)
		return nil

	default:
		return cg.errf(stmt.Position(), "statement %T cannot be represented", stmt)
	}
}

func (cg *CodeGen) genGotoScene(call *CallExpr) error {
	lit, ok := call.Args[0].(*StringLit)
	if !ok {
		return cg.errf(call.Pos, "goto_scene survived validation without a scene literal")
	}
	idx, ok := cg.sceneIndex[lit.Value]
	if !ok {
		return cg.errf(lit.Pos, "goto_scene names unknown scene %q", lit.Value)
	}
	cg.line("activeScene = %d", idx)
	return nil
}

// emitRaw copies a pass-through block into the output byte-for-byte, with
// only the surrounding indentation adjusted.
func (cg *CodeGen) emitRaw(text string) {
	lines := strings.Split(text, "\n")

	// Trim leading/trailing blank lines that belong to the delimiters.
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	// The common leading whitespace of non-blank lines is the block's own
	// indentation in the source file.
	prefix := ""
	for i, ln := range lines {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		ws := ln[:len(ln)-len(strings.TrimLeft(ln, " \t"))]
		if i == 0 || len(ws) < len(prefix) {
			prefix = ws
		}
		if prefix == "" {
			break
		}
	}

	for _, ln := range lines {
		if strings.TrimSpace(ln) == "" {
			cg.blank()
			continue
		}
		cg.line("%s", strings.TrimPrefix(ln, prefix))
	}
}

//  Expressions

// binaryOps maps DSL operators onto Go operators. PERCENT is absent: float64
// has no % in Go, so it lowers to host.Mod.
var binaryOps = map[TokenType]string{
	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	SLASH:      "/",
	EQUALS:     "==",
	NOT_EQ:     "!=",
	LESS:       "<",
	GREATER:    ">",
	LESS_EQ:    "<=",
	GREATER_EQ: ">=",
	LAND:       "&&",
	LOR:        "||",
}

func (cg *CodeGen) genExpr(e Expr) (string, error) {
	switch n := e.(type) {
	case *NumberLit:
		return numberText(n), nil

	case *StringLit:
		return fmt.Sprintf("%q", n.Value), nil

	case *BoolLit:
		if n.Value {
			return "true", nil
		}
		return "false", nil

	case *Ident:
		return cg.genIdent(n)

	case *BinaryExpr:
		left, err := cg.genExpr(n.Left)
		if err != nil {
			return "", err
		}
		right, err := cg.genExpr(n.Right)
		if err != nil {
			return "", err
		}
		if n.Op == PERCENT {
			return fmt.Sprintf("host.Mod(%s, %s)", left, right), nil
		}
		op, ok := binaryOps[n.Op]
		if !ok {
			return "", cg.errf(n.Pos, "operator %s cannot be represented", n.Op)
		}
		return fmt.Sprintf("(%s %s %s)", left, op, right), nil

	case *UnaryExpr:
		right, err := cg.genExpr(n.Right)
		if err != nil {
			return "", err
		}
		if n.Op == NOT {
			return "!" + right, nil
		}
		// Parenthesize the operand: a nested negation would otherwise
		// concatenate into the `--` token.
		return "-(" + right + ")", nil

	case *CallExpr:
		return cg.genCall(n)

	case *MemberExpr:
		obj, err := cg.genExpr(n.Object)
		if err != nil {
			return "", err
		}
		return obj + "." + safeName(n.Name), nil

	case *TupleExpr:
		return cg.genColor(n)

	default:
		return "", cg.errf(e.Position(), "expression %T cannot be represented", e)
	}
}

// numberText renders a numeric literal as a float64 literal, the language's
// native numeric type.
func numberText(n *NumberLit) string {
	if strings.Contains(n.Text, ".") {
		return n.Text
	}
	return n.Text + ".0"
}

// genIdent emits an identifier reference using the resolver's classification
// as the single source of truth. Field references are qualified with the
// enclosing receiver; locals and parameters stay bare.
func (cg *CodeGen) genIdent(id *Ident) (string, error) {
	switch id.Ref {
	case RefLocal, RefNewLocal:
		return safeName(id.Name), nil
	case RefField:
		if cg.receiver == "" {
			return "", cg.errf(id.Pos, "field %q referenced outside a receiver context", id.Name)
		}
		return cg.receiver + "." + safeName(id.Name), nil
	case RefUnresolved:
		return "", cg.errf(id.Pos, "identifier %q reached the generator unresolved", id.Name)
	default:
		return "", cg.errf(id.Pos, "%s %q used as a value", id.Ref, id.Name)
	}
}

func (cg *CodeGen) genCall(call *CallExpr) (string, error) {
	switch callee := call.Callee.(type) {
	case *Ident:
		switch callee.Ref {
		case RefTemplate:
			return fmt.Sprintf("New%s()", typeName(callee.Name)), nil
		case RefBuiltin:
			return cg.genBuiltinCall(callee.Name, call)
		default:
			return "", cg.errf(call.Pos, "call target %q reached the generator unclassified", callee.Name)
		}

	case *MemberExpr:
		if id, ok := callee.Object.(*Ident); ok && id.Ref == RefBuiltin && id.Name == screenObject {
			clr, err := cg.genColorArg(call.Args[0])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("host.Fill(screen, %s)", clr), nil
		}
		obj, err := cg.genExpr(callee.Object)
		if err != nil {
			return "", err
		}
		if callee.Name != "draw" {
			return "", cg.errf(call.Pos, "method %q cannot be represented", callee.Name)
		}
		return obj + ".Draw(screen)", nil

	default:
		return "", cg.errf(call.Pos, "call target cannot be represented")
	}
}

func (cg *CodeGen) genBuiltinCall(name string, call *CallExpr) (string, error) {
	args := make([]string, len(call.Args))
	for i, arg := range call.Args {
		s, err := cg.genExpr(arg)
		if err != nil {
			return "", err
		}
		args[i] = s
	}

	switch name {
	case "collides":
		return fmt.Sprintf("host.Collides(%s.Frame(), %s.Frame())", args[0], args[1]), nil
	case "draw_text":
		out := fmt.Sprintf("host.DrawText(screen, %s, %s, %s", args[0], args[1], args[2])
		if len(call.Args) == 4 {
			clr, err := cg.genColorArg(call.Args[3])
			if err != nil {
				return "", err
			}
			out += ", " + clr
		}
		return out + ")", nil
	case "str":
		return fmt.Sprintf("host.Str(%s)", args[0]), nil
	case "abs":
		return fmt.Sprintf("host.Abs(%s)", args[0]), nil
	case "random":
		return fmt.Sprintf("host.Random(%s, %s)", args[0], args[1]), nil
	case "clamp":
		return fmt.Sprintf("host.Clamp(%s, %s, %s)", args[0], args[1], args[2]), nil
	case "range":
		return fmt.Sprintf("host.Range(%s, %s)", args[0], args[1]), nil
	case "goto_scene":
		return "", cg.errf(call.Pos, "goto_scene cannot be used inside an expression")
	default:
		return "", cg.errf(call.Pos, "builtin %q cannot be represented", name)
	}
}

// genColorArg renders a color-position argument: a (r, g, b) tuple lowers to
// host.RGB.
func (cg *CodeGen) genColorArg(arg Expr) (string, error) {
	tuple, ok := arg.(*TupleExpr)
	if !ok {
		return "", cg.errf(arg.Position(), "color argument must be an (r, g, b) tuple")
	}
	return cg.genColor(tuple)
}

func (cg *CodeGen) genColor(t *TupleExpr) (string, error) {
	if len(t.Elements) != 3 {
		return "", cg.errf(t.Pos, "color tuple needs exactly three components, got %d", len(t.Elements))
	}
	parts := make([]string, 3)
	for i, el := range t.Elements {
		s, err := cg.genExpr(el)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return fmt.Sprintf("host.RGB(%s, %s, %s)", parts[0], parts[1], parts[2]), nil
}
