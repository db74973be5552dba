package compiler

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pongSource = `game Pong {
	title = "Pong"
	width = 800
	height = 600
	fps = 60
}

sprite Paddle {
	x = 350
	y = 550
	width = 100
	height = 20
	speed = 40

	on keydown(key) {
		if key == "LEFT" {
			x = clamp(x - speed, 0, 700)
		} else if key == "RIGHT" {
			x = clamp(x + speed, 0, 700)
		}
	}
}

sprite Ball {
	x = 400
	y = 300
	width = 16
	height = 16
	vx = 4
	vy = 4
}

scene GameScene {
	paddle = Paddle()
	ball = Ball()
	score = 0

	update {
		ball.x = ball.x + ball.vx
		ball.y = ball.y + ball.vy
		if ball.x < 0 or ball.x > 784 {
			ball.vx = 0 - ball.vx
		}
		if ball.y < 0 {
			ball.vy = 0 - ball.vy
		}
		if collides(ball, paddle) {
			ball.vy = 0 - abs(ball.vy)
			score = score + 1
		}
		if ball.y > 600 {
			goto_scene("OverScene")
		}
	}
	draw {
		screen.fill((20, 20, 40))
		paddle.draw()
		ball.draw()
		draw_text("Score: " + str(score), 10, 10)
	}
}

scene OverScene {
	draw {
		screen.fill((0, 0, 0))
		draw_text("Game Over", 360, 280, (255, 80, 80))
	}
}
`

func TestCompilePong(t *testing.T) {
	res, err := Compile(pongSource, "pong.spr")
	require.NoError(t, err)
	require.False(t, res.HasErrors(), "diagnostics:\n%s", res.Rendered)
	assert.Empty(t, res.Diagnostics, "pong should compile clean")

	_, perr := parser.ParseFile(token.NewFileSet(), "pong.go", res.Code, 0)
	require.NoError(t, perr, "generated pong does not parse:\n%s", res.Code)

	// Spot-check the pieces of the generated program.
	assert.Contains(t, res.Code, "// Code generated by spritec. DO NOT EDIT.")
	assert.Contains(t, res.Code, "type Paddle struct {")
	assert.Contains(t, res.Code, "type Ball struct {")
	assert.Contains(t, res.Code, "func (s *Paddle) OnKeydown(key string) {")
	assert.Contains(t, res.Code, "sc.ball.x = (sc.ball.x + sc.ball.vx)")
	assert.Contains(t, res.Code, "host.Collides(sc.ball.Frame(), sc.paddle.Frame())")
	assert.Contains(t, res.Code, "activeScene = 1")
	assert.Contains(t, res.Code, `ebiten.SetWindowTitle("Pong")`)
	assert.Contains(t, res.Code, "ebiten.SetTPS(60)")
	assert.Contains(t, res.Code, "ebiten.RunGame(&app{})")

	// Collision size comes from the declared width/height fields.
	assert.Contains(t, res.Code, "W: s.width, H: s.height")
}

func TestCompileIsDeterministic(t *testing.T) {
	first, err := Compile(pongSource, "pong.spr")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := Compile(pongSource, "pong.spr")
		require.NoError(t, err)
		assert.Equal(t, first.Code, again.Code)
		assert.Equal(t, first.Rendered, again.Rendered)
	}
}

func TestCompileInvalidProducesOnlyDiagnostics(t *testing.T) {
	res, err := Compile(`sprite S {
	on keydown(key) {
		x = sped
	}
	on wobble(a) { }
}`, "bad.spr")
	require.NoError(t, err, "user mistakes are diagnostics, not errors")
	assert.True(t, res.HasErrors())
	assert.Empty(t, res.Code)
	assert.NotEmpty(t, res.Rendered)
}

func TestCompileCollectsErrorsAcrossStages(t *testing.T) {
	// A lexical error, a syntax error and a semantic error in one file all
	// surface in a single run.
	res, err := Compile(`sprite A {
	x = 1 @ 2
}
sprite {
}
sprite C {
	on keydown(key) {
		y = nowhere
	}
}`, "multi.spr")
	require.NoError(t, err)

	errs := 0
	for _, d := range res.Diagnostics {
		if d.Severity == SevError {
			errs++
		}
	}
	assert.GreaterOrEqual(t, errs, 3, "got:\n%s", res.Rendered)
}
