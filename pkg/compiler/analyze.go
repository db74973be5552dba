package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// Analyzer is the combined scope resolver and semantic validator. It walks
// the AST once, maintains the scope-frame stack, annotates every Ident with
// its classification, and accumulates diagnostics without short-circuiting.
type Analyzer struct {
	rep    *Reporter
	global *Scope
	scope  *Scope // innermost frame

	sprites    map[string]*SpriteDecl
	scenes     map[string]*SceneDecl
	fieldTypes map[string]map[string]ValueType // sprite name -> field -> type

	inDraw bool
}

// Analyze resolves and validates prog in place. Every identifier reference
// leaves this pass with a classification other than RefUnresolved, or with a
// recorded semantic error.
func Analyze(prog *Program, rep *Reporter) {
	a := &Analyzer{
		rep:        rep,
		global:     newScope(nil, frameGlobal),
		sprites:    make(map[string]*SpriteDecl),
		scenes:     make(map[string]*SceneDecl),
		fieldTypes: make(map[string]map[string]ValueType),
	}
	a.scope = a.global
	a.seedBuiltins()
	a.declareTemplates(prog)

	// Sprites are analyzed before scenes regardless of source order so that
	// member accesses on spawned instances can see every field.
	var game *GameDecl
	for _, d := range prog.Decls {
		if g, ok := d.(*GameDecl); ok {
			if game != nil {
				a.rep.Errorf(g.Pos, "duplicate game block %q (first was %q)", g.Name, game.Name)
				continue
			}
			game = g
			a.checkGame(g)
		}
	}
	for _, s := range prog.Sprites() {
		a.checkSprite(s)
	}
	for _, s := range prog.Scenes() {
		a.checkScene(s)
	}
}

func (a *Analyzer) seedBuiltins() {
	for name := range builtins {
		a.global.Define(&Symbol{Name: name, Kind: SymBuiltin})
	}
	a.global.Define(&Symbol{Name: screenObject, Kind: SymBuiltin})
}

// declareTemplates records every sprite and scene name in the global frame,
// catching duplicate declarations up front.
func (a *Analyzer) declareTemplates(prog *Program) {
	// Template names map to exported Go types, so names differing only in
	// the leading letter's case would collide in the output.
	byType := map[string]string{}
	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *SpriteDecl:
			if first, ok := byType[typeName(n.Name)]; ok && first != n.Name {
				a.rep.Errorf(n.Pos, "template %q collides with %q; names may not differ only by case", n.Name, first)
				continue
			}
			sym := &Symbol{Name: n.Name, Kind: SymSprite, Pos: n.Pos}
			if !a.global.Define(sym) {
				a.rep.Errorf(n.Pos, "duplicate declaration of %q", n.Name)
				continue
			}
			byType[typeName(n.Name)] = n.Name
			a.sprites[n.Name] = n
		case *SceneDecl:
			if first, ok := byType[typeName(n.Name)]; ok && first != n.Name {
				a.rep.Errorf(n.Pos, "template %q collides with %q; names may not differ only by case", n.Name, first)
				continue
			}
			sym := &Symbol{Name: n.Name, Kind: SymScene, Pos: n.Pos}
			if !a.global.Define(sym) {
				a.rep.Errorf(n.Pos, "duplicate declaration of %q", n.Name)
				continue
			}
			byType[typeName(n.Name)] = n.Name
			a.scenes[n.Name] = n
		}
	}
}

// gameKeys are the recognized configuration entries and their advisory types.
var gameKeys = map[string]ValueType{
	"title":  TypeString,
	"width":  TypeNumber,
	"height": TypeNumber,
	"fps":    TypeNumber,
}

func (a *Analyzer) checkGame(g *GameDecl) {
	seen := make(map[string]bool)
	for _, prop := range g.Props {
		if seen[prop.Name] {
			a.rep.Errorf(prop.Pos, "duplicate game configuration entry %q", prop.Name)
			continue
		}
		seen[prop.Name] = true

		// The generator bakes configuration into constants, so values must
		// be literals.
		switch prop.Value.(type) {
		case *NumberLit, *StringLit, *BoolLit:
		default:
			a.rep.Errorf(prop.Pos, "game configuration values must be literals")
			continue
		}

		got := a.resolveExpr(prop.Value)
		want, known := gameKeys[prop.Name]
		if !known {
			a.rep.Warnf(prop.Pos, "unknown game configuration entry %q", prop.Name)
			continue
		}
		if got != TypeUnknown && want != got {
			a.rep.Errorf(prop.Pos, "game entry %q expects a %s value, got %s", prop.Name, want, got)
		}
	}
}

func (a *Analyzer) checkSprite(s *SpriteDecl) {
	fields := newScope(a.global, frameFields)
	a.scope = fields
	defer func() { a.scope = a.global }()

	types := make(map[string]ValueType)
	a.fieldTypes[s.Name] = types

	for i := range s.Fields {
		f := &s.Fields[i]
		// The initializer is resolved before the field is declared, so a
		// field may reference fields declared above it but not itself.
		t := a.resolveExpr(f.Value)
		sym := &Symbol{Name: f.Name, Kind: SymField, Pos: f.Pos, Type: t}
		if !fields.Define(sym) {
			a.rep.Errorf(f.Pos, "duplicate field %q on sprite %q", f.Name, s.Name)
			continue
		}
		f.Sym = sym
		types[f.Name] = t
	}

	seenEvents := make(map[string]bool)
	for _, h := range s.Handlers {
		a.checkHandler(s, h, seenEvents)
	}
}

func (a *Analyzer) checkHandler(s *SpriteDecl, h *Handler, seen map[string]bool) {
	shape, known := eventParamShapes[h.Event]
	if !known {
		kinds := make([]string, 0, len(eventParamShapes))
		for k := range eventParamShapes {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		a.rep.ErrorWithHint(h.Pos,
			fmt.Sprintf("recognized event kinds: %s", strings.Join(kinds, ", ")),
			"unknown event kind %q", h.Event)
		return
	}
	if seen[h.Event] {
		a.rep.Errorf(h.Pos, "sprite %q already handles %q", s.Name, h.Event)
		return
	}
	seen[h.Event] = true

	if len(h.Params) != len(shape) {
		a.rep.ErrorWithHint(h.Pos,
			fmt.Sprintf("expected signature: on %s(%s)", h.Event, strings.Join(shape, ", ")),
			"handler for %q takes %d parameter(s), got %d", h.Event, len(shape), len(h.Params))
		return
	}

	body := newScope(a.scope, frameBody)
	prev := a.scope
	a.scope = body
	for i, param := range h.Params {
		sym := &Symbol{Name: param.Name, Kind: SymParam, Pos: param.Pos, Type: eventParamType(h.Event, i)}
		if !body.Define(sym) {
			a.rep.Errorf(param.Pos, "duplicate parameter %q", param.Name)
		}
		param.Ref = RefLocal
		param.Sym = sym
	}
	a.walkStmts(h.Body)
	a.scope = prev
}

func (a *Analyzer) checkScene(s *SceneDecl) {
	vars := newScope(a.global, frameFields)
	a.scope = vars
	defer func() { a.scope = a.global }()

	for _, stmt := range s.Setup {
		a.walkStmt(stmt)
	}

	if s.Update != nil {
		body := newScope(vars, frameBody)
		a.scope = body
		a.walkStmts(s.Update)
		a.scope = vars
	}
	if s.Draw != nil {
		body := newScope(vars, frameBody)
		a.scope = body
		a.inDraw = true
		a.walkStmts(s.Draw)
		a.inDraw = false
		a.scope = vars
	}
}

//  Statements

func (a *Analyzer) walkStmts(stmts []Stmt) {
	for _, stmt := range stmts {
		a.walkStmt(stmt)
	}
}

func (a *Analyzer) walkStmt(stmt Stmt) {
	switch n := stmt.(type) {
	case *AssignStmt:
		t := a.resolveExpr(n.Value)
		switch target := n.Target.(type) {
		case *Ident:
			a.resolveAssignTarget(target, t, n.Value)
		case *MemberExpr:
			a.resolveMemberTarget(target)
		}
	case *IfStmt:
		a.resolveExpr(n.Cond)
		a.walkStmts(n.Then)
		a.walkStmts(n.Else)
	case *WhileStmt:
		a.resolveExpr(n.Cond)
		a.walkStmts(n.Body)
	case *ForInStmt:
		a.resolveExpr(n.Source)
		a.resolveAssignTarget(n.Var, TypeNumber, nil)
		a.walkStmts(n.Body)
	case *ReturnStmt:
		if n.Value != nil {
			a.resolveExpr(n.Value)
			a.rep.Warnf(n.Pos, "handlers produce no value; the returned expression is discarded")
		}
	case *ExprStmt:
		a.resolveExpr(n.X)
		if _, isCall := n.X.(*CallExpr); !isCall {
			a.rep.Warnf(n.Pos, "expression result is unused")
		}
	case *RawStmt:
		// pass-through: never inspected
	}
}

// resolveAssignTarget classifies an assignment-target identifier following
// lookup-before-declare semantics: an existing binding in any enclosing
// non-global frame is mutated; only when no binding exists anywhere is a new
// local created in the current frame.
func (a *Analyzer) resolveAssignTarget(id *Ident, valType ValueType, value Expr) {
	sym, frame, found := a.scope.Lookup(id.Name)
	switch {
	case !found:
		kind := SymLocal
		if a.scope.kind == frameFields {
			kind = SymField // scene setup declares scene variables
		}
		sym = &Symbol{Name: id.Name, Kind: kind, Pos: id.Pos, Type: valType}
		if inst, ok := instanceOf(value); ok {
			sym.Type = TypeInstance
			sym.Sprite = inst
		}
		a.scope.Define(sym)
		if kind == SymField {
			id.Ref = RefField
		} else {
			id.Ref = RefNewLocal
		}
		id.Sym = sym

	case frame.kind == frameBody:
		id.Ref = RefLocal
		id.Sym = sym
		if sym.Type == TypeUnknown {
			sym.Type = valType
		}

	case frame.kind == frameFields:
		// Field access/mutation; never shadow a field with a fresh local.
		id.Ref = RefField
		id.Sym = sym

	default: // global frame: template or builtin name
		a.rep.Errorf(id.Pos, "cannot assign to %s %q", sym.Kind, id.Name)
	}
}

// resolveMemberTarget handles assignments like player.x = ... .
func (a *Analyzer) resolveMemberTarget(m *MemberExpr) {
	t := a.resolveExpr(m.Object)
	if t != TypeInstance {
		return // unknown object: dynamically typed, let it through
	}
	a.checkInstanceField(m)
}

// checkInstanceField validates that the member names a declared field of the
// instance's sprite template.
func (a *Analyzer) checkInstanceField(m *MemberExpr) ValueType {
	id, ok := m.Object.(*Ident)
	if !ok || id.Sym == nil || id.Sym.Sprite == "" {
		return TypeUnknown
	}
	fields, ok := a.fieldTypes[id.Sym.Sprite]
	if !ok {
		return TypeUnknown
	}
	t, ok := fields[m.Name]
	if !ok {
		a.rep.Errorf(m.Pos, "sprite %q has no field %q", id.Sym.Sprite, m.Name)
		return TypeUnknown
	}
	return t
}

// instanceOf reports the sprite template name when value is an instance
// creation call like Player().
func instanceOf(value Expr) (string, bool) {
	call, ok := value.(*CallExpr)
	if !ok {
		return "", false
	}
	id, ok := call.Callee.(*Ident)
	if !ok || id.Ref != RefTemplate || id.Sym == nil || id.Sym.Kind != SymSprite {
		return "", false
	}
	return id.Name, true
}

//  Expressions

// resolveExpr resolves every identifier in e and returns e's advisory type.
func (a *Analyzer) resolveExpr(e Expr) ValueType {
	switch n := e.(type) {
	case *NumberLit:
		return TypeNumber
	case *StringLit:
		return TypeString
	case *BoolLit:
		return TypeBool
	case *Ident:
		t := a.resolveRead(n)
		if n.Ref == RefBuiltin || n.Ref == RefTemplate {
			a.rep.Errorf(n.Pos, "%q cannot be used as a value", n.Name)
			return TypeUnknown
		}
		return t
	case *BinaryExpr:
		return a.resolveBinary(n)
	case *UnaryExpr:
		t := a.resolveExpr(n.Right)
		if n.Op == NOT {
			return TypeBool
		}
		if t == TypeString {
			a.rep.Errorf(n.Pos, "cannot negate a string value")
		}
		return TypeNumber
	case *CallExpr:
		return a.resolveCall(n)
	case *MemberExpr:
		t := a.resolveExpr(n.Object)
		if t == TypeInstance {
			return a.checkInstanceField(n)
		}
		return TypeUnknown
	case *TupleExpr:
		for _, el := range n.Elements {
			a.resolveExpr(el)
		}
		if len(n.Elements) != 3 {
			a.rep.Warnf(n.Pos, "color tuples have three components (r, g, b)")
		}
		return TypeUnknown
	default:
		return TypeUnknown
	}
}

// resolveRead classifies a read of an identifier. An unresolved read is a
// semantic error, never a silent default.
func (a *Analyzer) resolveRead(id *Ident) ValueType {
	sym, frame, found := a.scope.Lookup(id.Name)
	if !found {
		hint := ""
		if near := a.closestName(id.Name); near != "" {
			hint = fmt.Sprintf("did you mean %q?", near)
		}
		if hint != "" {
			a.rep.ErrorWithHint(id.Pos, hint, "unresolved reference %q", id.Name)
		} else {
			a.rep.Errorf(id.Pos, "unresolved reference %q", id.Name)
		}
		return TypeUnknown
	}

	id.Sym = sym
	switch {
	case frame.kind == frameBody:
		id.Ref = RefLocal
	case frame.kind == frameFields:
		id.Ref = RefField
	case sym.Kind == SymBuiltin:
		id.Ref = RefBuiltin
	default:
		id.Ref = RefTemplate
	}
	return sym.Type
}

func (a *Analyzer) resolveBinary(b *BinaryExpr) ValueType {
	lt := a.resolveExpr(b.Left)
	rt := a.resolveExpr(b.Right)

	switch b.Op {
	case PLUS:
		if (lt == TypeString && rt == TypeNumber) || (lt == TypeNumber && rt == TypeString) {
			a.rep.ErrorWithHint(b.Pos, "wrap the numeric operand with str()",
				"cannot add %s and %s", lt, rt)
			return TypeUnknown
		}
		if lt == rt && lt != TypeUnknown {
			return lt
		}
		return TypeUnknown
	case MINUS, STAR, SLASH, PERCENT:
		if lt == TypeString || rt == TypeString {
			a.rep.Errorf(b.Pos, "arithmetic on a string value")
		}
		return TypeNumber
	case LESS, GREATER, LESS_EQ, GREATER_EQ:
		if (lt == TypeString && rt == TypeNumber) || (lt == TypeNumber && rt == TypeString) {
			a.rep.Errorf(b.Pos, "cannot compare %s with %s", lt, rt)
		}
		return TypeBool
	case EQUALS, NOT_EQ, LAND, LOR:
		return TypeBool
	default:
		return TypeUnknown
	}
}

func (a *Analyzer) resolveCall(c *CallExpr) ValueType {
	for _, arg := range c.Args {
		a.resolveExpr(arg)
	}

	switch callee := c.Callee.(type) {
	case *Ident:
		a.resolveRead(callee)
		switch callee.Ref {
		case RefTemplate:
			if callee.Sym.Kind != SymSprite {
				a.rep.Errorf(c.Pos, "scene template %q cannot be instantiated", callee.Name)
				return TypeUnknown
			}
			if len(c.Args) != 0 {
				a.rep.Errorf(c.Pos, "sprite constructor %q takes no arguments", callee.Name)
			}
			return TypeInstance
		case RefBuiltin:
			return a.checkBuiltinCall(callee.Name, c)
		case RefUnresolved:
			return TypeUnknown // already reported
		default:
			a.rep.Errorf(c.Pos, "%q is not callable", callee.Name)
			return TypeUnknown
		}

	case *MemberExpr:
		return a.resolveMethodCall(callee, c)

	default:
		a.rep.Errorf(c.Pos, "expression is not callable")
		return TypeUnknown
	}
}

func (a *Analyzer) checkBuiltinCall(name string, c *CallExpr) ValueType {
	if name == screenObject {
		a.rep.Errorf(c.Pos, "%q is not callable; use %s.fill(...)", name, screenObject)
		return TypeUnknown
	}
	spec := builtins[name]
	if len(c.Args) < spec.minArgs || len(c.Args) > spec.maxArgs {
		a.rep.Errorf(c.Pos, "%s expects %s, got %d", name, argCountText(spec), len(c.Args))
		return spec.result
	}
	if spec.drawOnly && !a.inDraw {
		a.rep.Errorf(c.Pos, "%s can only be used inside a draw block", name)
	}

	switch name {
	case "collides":
		for _, arg := range c.Args {
			if t := a.typeOf(arg); t != TypeUnknown && t != TypeInstance {
				a.rep.Errorf(arg.Position(), "collides expects sprite instances, got %s", t)
			}
		}
	case "goto_scene":
		lit, ok := c.Args[0].(*StringLit)
		if !ok {
			a.rep.Errorf(c.Args[0].Position(), "goto_scene requires a scene name string literal")
			break
		}
		if _, ok := a.scenes[lit.Value]; !ok {
			a.rep.Errorf(lit.Pos, "unknown scene %q", lit.Value)
		}
	}
	return spec.result
}

func (a *Analyzer) resolveMethodCall(m *MemberExpr, c *CallExpr) ValueType {
	// screen.fill(color) is the one builtin-object method.
	if id, ok := m.Object.(*Ident); ok && id.Name == screenObject {
		a.resolveRead(id)
		if m.Name != "fill" {
			a.rep.Errorf(m.Pos, "screen has no method %q", m.Name)
			return TypeUnknown
		}
		if !a.inDraw {
			a.rep.Errorf(c.Pos, "screen.fill can only be used inside a draw block")
		}
		if len(c.Args) != 1 {
			a.rep.Errorf(c.Pos, "screen.fill expects one color argument, got %d", len(c.Args))
		}
		return TypeUnknown
	}

	t := a.resolveExpr(m.Object)
	if t != TypeInstance {
		return TypeUnknown // dynamically typed object, let it through
	}
	want, ok := spriteMethods[m.Name]
	if !ok {
		a.rep.Errorf(m.Pos, "sprite instances have no method %q", m.Name)
		return TypeUnknown
	}
	if m.Name == "draw" && !a.inDraw {
		a.rep.Errorf(c.Pos, "%s.draw can only be used inside a draw block", m.Object)
	}
	if len(c.Args) != want {
		a.rep.Errorf(c.Pos, "%s takes %d argument(s), got %d", m.Name, want, len(c.Args))
	}
	return TypeUnknown
}

// typeOf computes an expression's advisory type without re-resolving or
// re-reporting: it only consults annotations already in place.
func (a *Analyzer) typeOf(e Expr) ValueType {
	switch n := e.(type) {
	case *NumberLit:
		return TypeNumber
	case *StringLit:
		return TypeString
	case *BoolLit:
		return TypeBool
	case *Ident:
		if n.Sym != nil {
			return n.Sym.Type
		}
	}
	return TypeUnknown
}

func argCountText(spec builtinSpec) string {
	if spec.minArgs == spec.maxArgs {
		return fmt.Sprintf("%d argument(s)", spec.minArgs)
	}
	return fmt.Sprintf("%d to %d arguments", spec.minArgs, spec.maxArgs)
}

// closestName suggests a visible name within a small edit distance of name.
func (a *Analyzer) closestName(name string) string {
	var candidates []string
	for fr := a.scope; fr != nil; fr = fr.parent {
		for candidate := range fr.symbols {
			candidates = append(candidates, candidate)
		}
	}
	sort.Strings(candidates) // deterministic suggestions

	best := ""
	bestDist := 3 // suggestions beyond distance 2 are noise
	for _, candidate := range candidates {
		if d := editDistance(name, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// editDistance is a plain Levenshtein distance over bytes.
func editDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
