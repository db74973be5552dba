package compiler

// SymbolKind classifies a named binding.
type SymbolKind int

const (
	SymSprite SymbolKind = iota // entity template name
	SymScene                    // scene template name
	SymField                    // persistent sprite field or scene variable
	SymLocal                    // transient body-frame binding
	SymParam                    // handler parameter
	SymBuiltin                  // pre-declared callable or object
)

var symbolKindNames = [...]string{
	SymSprite:  "sprite",
	SymScene:   "scene",
	SymField:   "field",
	SymLocal:   "local",
	SymParam:   "parameter",
	SymBuiltin: "builtin",
}

func (k SymbolKind) String() string {
	if int(k) >= 0 && int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return "unknown"
}

// ValueType is the advisory static type attached to a symbol. The language
// is value-level dynamically typed; TypeUnknown flows through every check
// without complaint.
type ValueType int

const (
	TypeUnknown ValueType = iota
	TypeNumber
	TypeString
	TypeBool
	TypeInstance // a spawned sprite instance
)

var valueTypeNames = [...]string{
	TypeUnknown:  "unknown",
	TypeNumber:   "number",
	TypeString:   "string",
	TypeBool:     "bool",
	TypeInstance: "sprite instance",
}

func (t ValueType) String() string {
	if int(t) >= 0 && int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return "unknown"
}

// Symbol is one named binding discovered during analysis.
type Symbol struct {
	Name   string
	Kind   SymbolKind
	Pos    Pos
	Type   ValueType
	Sprite string // sprite template name when Type == TypeInstance
}

// frameKind distinguishes the lookup frames the classification algorithm
// cares about: body frames hold transient locals, field frames hold
// persistent per-instance state, the global frame holds template and builtin
// names.
type frameKind int

const (
	frameGlobal frameKind = iota
	frameFields           // sprite field frame or scene variable frame
	frameBody             // handler / update / draw body frame
)

// Scope is one lookup frame. Lookup walks outward through parent links.
type Scope struct {
	parent  *Scope
	kind    frameKind
	symbols map[string]*Symbol
}

func newScope(parent *Scope, kind frameKind) *Scope {
	return &Scope{parent: parent, kind: kind, symbols: make(map[string]*Symbol)}
}

// Define adds sym to this frame. It reports whether the name was new; on a
// duplicate the existing symbol stays in place.
func (s *Scope) Define(sym *Symbol) bool {
	if _, exists := s.symbols[sym.Name]; exists {
		return false
	}
	s.symbols[sym.Name] = sym
	return true
}

// LookupLocal finds name in this frame only.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Lookup walks frames innermost-to-outermost and returns the symbol together
// with the frame that declared it.
func (s *Scope) Lookup(name string) (*Symbol, *Scope, bool) {
	for fr := s; fr != nil; fr = fr.parent {
		if sym, ok := fr.symbols[name]; ok {
			return sym, fr, true
		}
	}
	return nil, nil, false
}
