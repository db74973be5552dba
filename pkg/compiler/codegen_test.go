package compiler

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	prog, rep := analyzeSource(t, src)
	require.False(t, rep.HasErrors(), "unexpected errors:\n%s", rep.FormatAll())
	code, err := Generate(prog)
	require.NoError(t, err)
	return code
}

// requireValidGo parses code with the target language's own parser; every
// generated program must be syntactically valid.
func requireValidGo(t *testing.T, code string) {
	t.Helper()
	_, err := parser.ParseFile(token.NewFileSet(), "gen.go", code, 0)
	require.NoError(t, err, "generated code does not parse:\n%s", code)
}

func TestGenerateFieldQualification(t *testing.T) {
	code := generate(t, `sprite Player {
	x = 100

	on keydown(key) {
		x = x + 1
		y = x
	}
}`)
	requireValidGo(t, code)

	// Both uses of the field x are qualified; the fresh local y is not.
	assert.Contains(t, code, "s.x = (s.x + 1.0)")
	assert.Contains(t, code, "y = s.x")
	assert.Contains(t, code, "var y float64")
	assert.NotContains(t, code, "s.y")
}

func TestGenerateSpriteStruct(t *testing.T) {
	code := generate(t, `sprite Player {
	x = 10
	name = "p1"
	alive = true
}`)
	requireValidGo(t, code)

	assert.Contains(t, code, "type Player struct {")
	assert.Contains(t, code, "x float64")
	assert.Contains(t, code, "name string")
	assert.Contains(t, code, "alive bool")
	assert.Contains(t, code, "func NewPlayer() *Player {")
	assert.Contains(t, code, `s.name = "p1"`)
	assert.Contains(t, code, "func (s *Player) Frame() host.Box {")
	assert.Contains(t, code, "func (s *Player) Draw(screen *ebiten.Image) {")
}

func TestGenerateFieldInitializerOrder(t *testing.T) {
	code := generate(t, `sprite S {
	speed = 5
	velocity = speed * 2
}`)
	requireValidGo(t, code)
	// Sequential constructor assignments let initializers read earlier fields.
	assert.Contains(t, code, "s.speed = 5.0")
	assert.Contains(t, code, "s.velocity = (s.speed * 2.0)")
}

func TestGenerateHandlerSignatures(t *testing.T) {
	code := generate(t, `sprite S {
	on keydown(key) { }
	on mousedown(button, mx, my) { }
	on mousemove(mx, my) { }
}`)
	requireValidGo(t, code)

	assert.Contains(t, code, "func (s *S) OnKeydown(key string) {")
	assert.Contains(t, code, "func (s *S) OnMousedown(button float64, mx float64, my float64) {")
	assert.Contains(t, code, "func (s *S) OnMousemove(mx float64, my float64) {")
}

func TestGenerateSceneSingle(t *testing.T) {
	code := generate(t, `sprite Ball { x = 0 }
scene Main {
	ball = Ball()
	score = 0

	update {
		score = score + 1
	}
	draw {
		ball.draw()
	}
}`)
	requireValidGo(t, code)

	assert.Contains(t, code, "type Main struct {")
	assert.Contains(t, code, "ball *Ball")
	assert.Contains(t, code, "score float64")
	assert.Contains(t, code, "sc.ball = NewBall()")
	assert.Contains(t, code, "sc.score = (sc.score + 1.0)")
	assert.Contains(t, code, "sc.ball.Draw(screen)")

	// One scene: the frame loop calls it unconditionally.
	assert.Contains(t, code, "mainScene.update()")
	assert.NotContains(t, code, "switch activeScene")
}

func TestGenerateSceneDispatch(t *testing.T) {
	code := generate(t, `scene MenuScene {
	update {
		goto_scene("GameScene")
	}
}
scene GameScene {
	update { }
}`)
	requireValidGo(t, code)

	assert.Contains(t, code, "var activeScene int")
	assert.Contains(t, code, "switch activeScene {")
	assert.Contains(t, code, "case 0:")
	assert.Contains(t, code, "case 1:")
	// goto_scene lowers to an index assignment on the declared order.
	assert.Contains(t, code, "activeScene = 1")
}

func TestGenerateEventDispatch(t *testing.T) {
	code := generate(t, `sprite Paddle {
	on keydown(key) { }
	on mouseup(b, mx, my) { }
}
scene Main {
	paddle = Paddle()
}`)
	requireValidGo(t, code)

	assert.Contains(t, code, "func (sc *Main) handleEvent(ev host.Event) {")
	assert.Contains(t, code, "case host.KeyDown:")
	assert.Contains(t, code, "sc.paddle.OnKeydown(ev.Key)")
	assert.Contains(t, code, "case host.MouseUp:")
	assert.Contains(t, code, "sc.paddle.OnMouseup(ev.Button, ev.X, ev.Y)")
	assert.NotContains(t, code, "case host.KeyUp:", "no keyup handler declared")
}

func TestGenerateBuiltins(t *testing.T) {
	code := generate(t, `sprite Ball { x = 0 }
sprite Paddle { x = 0 }
scene Main {
	ball = Ball()
	paddle = Paddle()
	score = 0

	update {
		hit = collides(ball, paddle)
		v = clamp(abs(0 - 3), 0, random(1, 2))
		r = 7 % 3
	}
	draw {
		screen.fill((10, 20, 30))
		draw_text("Score: " + str(score), 10, 10, (255, 255, 255))
	}
}`)
	requireValidGo(t, code)

	assert.Contains(t, code, "hit = host.Collides(sc.ball.Frame(), sc.paddle.Frame())")
	assert.Contains(t, code, "host.Clamp(host.Abs((0.0 - 3.0)), 0.0, host.Random(1.0, 2.0))")
	assert.Contains(t, code, "host.Mod(7.0, 3.0)")
	assert.Contains(t, code, "host.Fill(screen, host.RGB(10.0, 20.0, 30.0))")
	assert.Contains(t, code, `host.DrawText(screen, ("Score: " + host.Str(sc.score)), 10.0, 10.0, host.RGB(255.0, 255.0, 255.0))`)
}

func TestGenerateForIn(t *testing.T) {
	code := generate(t, `sprite S {
	on keydown(key) {
		total = 0
		for i in range(0, 5) {
			total = total + i
		}
	}
}`)
	requireValidGo(t, code)

	// The loop variable is hoisted like any other new local.
	assert.Contains(t, code, "var i float64")
	assert.Contains(t, code, "for _, i = range host.Range(0.0, 5.0) {")
	assert.Contains(t, code, "total = (total + i)")
}

func TestGenerateControlFlow(t *testing.T) {
	code := generate(t, `sprite S {
	x = 0

	on keydown(key) {
		if key == "LEFT" {
			x = x - 1
		} else if key == "RIGHT" {
			x = x + 1
		} else {
			x = 0
		}
		while x > 10 {
			x = x - 10
		}
	}
}`)
	requireValidGo(t, code)

	assert.Contains(t, code, `if (key == "LEFT") {`)
	assert.Contains(t, code, "for (s.x > 10.0) {")
	assert.Contains(t, code, "} else {")
}

func TestGenerateNumberFormatting(t *testing.T) {
	code := generate(t, `sprite S {
	a = 3
	b = 2.5
}`)
	// Integral literals gain a decimal so everything stays float64.
	assert.Contains(t, code, "s.a = 3.0")
	assert.Contains(t, code, "s.b = 2.5")
}

func TestGenerateNestedNegation(t *testing.T) {
	code := generate(t, `sprite Ball {
	y = 10

	on keydown(key) {
		x = -(-y)
		y = -x
	}
}`)
	// Bare token concatenation would yield the illegal `--` sequence.
	requireValidGo(t, code)
	assert.Contains(t, code, "x = -(-(s.y))")
	assert.Contains(t, code, "s.y = -(x)")
}

func TestGenerateGameConfig(t *testing.T) {
	code := generate(t, `game Pong {
	title = "Pong"
	width = 640
	height = 480
	fps = 30
}
scene Main { }`)
	requireValidGo(t, code)

	assert.Contains(t, code, "screenWidth  = 640")
	assert.Contains(t, code, "screenHeight = 480")
	assert.Contains(t, code, `ebiten.SetWindowTitle("Pong")`)
	assert.Contains(t, code, "ebiten.SetTPS(30)")
}

func TestGenerateRawBlocksVerbatim(t *testing.T) {
	code := generate(t, `%{
import "math"

func wobble(v float64) float64 {
	return math.Sin(v)
}
}%
sprite S {
	x = 0

	on keydown(key) {
		%{ s.x = wobble(s.x) }%
	}
}`)
	requireValidGo(t, code)
	assert.Contains(t, code, "func wobble(v float64) float64 {")
	assert.Contains(t, code, "return math.Sin(v)")
	assert.Contains(t, code, "s.x = wobble(s.x)")
}

func TestGenerateKeywordCollisionsRenamed(t *testing.T) {
	code := generate(t, `sprite S {
	type = 1

	on keydown(key) {
		type = type + 1
	}
}`)
	requireValidGo(t, code)
	assert.Contains(t, code, "type_ float64")
	assert.Contains(t, code, "s.type_ = (s.type_ + 1.0)")
}

func TestGenerateDeterministic(t *testing.T) {
	src := `game G { width = 320 height = 240 }
sprite A { x = 1
	on keydown(key) { x = x + 1 }
}
sprite B { y = 2 }
scene S1 {
	a = A()
	b = B()
	update { goto_scene("S2") }
}
scene S2 { update { } }`

	first := generate(t, src)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, generate(t, src), "generation must be deterministic")
	}
}

func TestGenerateNothingOnErrors(t *testing.T) {
	res, err := Compile(`sprite S {
	on keydown(key) {
		x = missing
	}
}`, "test.spr")
	require.NoError(t, err)
	assert.True(t, res.HasErrors())
	assert.Empty(t, res.Code, "no code may be produced from an invalid program")
}
