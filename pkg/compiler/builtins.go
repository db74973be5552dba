package compiler

// builtinSpec describes one pre-declared callable: its accepted argument
// count range and advisory result type.
type builtinSpec struct {
	minArgs  int
	maxArgs  int
	result   ValueType
	drawOnly bool // usable only inside a scene draw block
}

// builtins are seeded into the global frame before analysis. The code
// generator maps each one onto a helper in spritec/pkg/host.
var builtins = map[string]builtinSpec{
	"collides":   {minArgs: 2, maxArgs: 2, result: TypeBool},
	"draw_text":  {minArgs: 3, maxArgs: 4, drawOnly: true},
	"str":        {minArgs: 1, maxArgs: 1, result: TypeString},
	"abs":        {minArgs: 1, maxArgs: 1, result: TypeNumber},
	"random":     {minArgs: 2, maxArgs: 2, result: TypeNumber},
	"clamp":      {minArgs: 3, maxArgs: 3, result: TypeNumber},
	"range":      {minArgs: 2, maxArgs: 2},
	"goto_scene": {minArgs: 1, maxArgs: 1},
}

// screenObject is the name of the builtin drawing surface available in draw
// blocks (screen.fill(...)).
const screenObject = "screen"

// spriteMethods are the methods every sprite instance exposes in source
// syntax, with their argument counts.
var spriteMethods = map[string]int{
	"draw": 0,
}

// eventParamShapes fixes the parameter contract for each recognized event
// kind. The slice gives the canonical parameter roles, in order.
var eventParamShapes = map[string][]string{
	"keydown":   {"key"},
	"keyup":     {"key"},
	"mousedown": {"button", "x", "y"},
	"mouseup":   {"button", "x", "y"},
	"mousemove": {"x", "y"},
}

// eventParamType returns the advisory type of parameter i of the given event
// kind: key identity is text, everything else is numeric.
func eventParamType(event string, i int) ValueType {
	if (event == "keydown" || event == "keyup") && i == 0 {
		return TypeString
	}
	return TypeNumber
}
