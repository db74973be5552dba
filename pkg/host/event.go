// Package host is the runtime support library linked by generated game
// programs. It wraps Ebiten's immediate-mode input and drawing APIs in the
// event-driven surface the language exposes: polled input events, axis-
// aligned collision boxes, and a handful of numeric helpers.
package host

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EventKind discriminates the input events a sprite can handle.
type EventKind int

const (
	KeyDown EventKind = iota
	KeyUp
	MouseDown
	MouseUp
	MouseMove
)

// Event is one input occurrence. Key is set for keyboard kinds; Button, X
// and Y for mouse kinds (MouseMove carries only X and Y).
type Event struct {
	Kind   EventKind
	Key    string
	Button float64
	X, Y   float64
}

// trackedKeys maps the keys generated programs can observe onto their
// language-level names. A slice rather than a map keeps the event order
// stable from frame to frame.
var trackedKeys = []struct {
	key  ebiten.Key
	name string
}{
	{ebiten.KeyArrowLeft, "LEFT"},
	{ebiten.KeyArrowRight, "RIGHT"},
	{ebiten.KeyArrowUp, "UP"},
	{ebiten.KeyArrowDown, "DOWN"},
	{ebiten.KeySpace, "SPACE"},
	{ebiten.KeyEnter, "ENTER"},
	{ebiten.KeyEscape, "ESCAPE"},
	{ebiten.KeyTab, "TAB"},
	{ebiten.KeyBackspace, "BACKSPACE"},
	{ebiten.KeyShiftLeft, "SHIFT"},
	{ebiten.KeyA, "A"}, {ebiten.KeyB, "B"}, {ebiten.KeyC, "C"},
	{ebiten.KeyD, "D"}, {ebiten.KeyE, "E"}, {ebiten.KeyF, "F"},
	{ebiten.KeyG, "G"}, {ebiten.KeyH, "H"}, {ebiten.KeyI, "I"},
	{ebiten.KeyJ, "J"}, {ebiten.KeyK, "K"}, {ebiten.KeyL, "L"},
	{ebiten.KeyM, "M"}, {ebiten.KeyN, "N"}, {ebiten.KeyO, "O"},
	{ebiten.KeyP, "P"}, {ebiten.KeyQ, "Q"}, {ebiten.KeyR, "R"},
	{ebiten.KeyS, "S"}, {ebiten.KeyT, "T"}, {ebiten.KeyU, "U"},
	{ebiten.KeyV, "V"}, {ebiten.KeyW, "W"}, {ebiten.KeyX, "X"},
	{ebiten.KeyY, "Y"}, {ebiten.KeyZ, "Z"},
	{ebiten.KeyDigit0, "0"}, {ebiten.KeyDigit1, "1"}, {ebiten.KeyDigit2, "2"},
	{ebiten.KeyDigit3, "3"}, {ebiten.KeyDigit4, "4"}, {ebiten.KeyDigit5, "5"},
	{ebiten.KeyDigit6, "6"}, {ebiten.KeyDigit7, "7"}, {ebiten.KeyDigit8, "8"},
	{ebiten.KeyDigit9, "9"},
}

// Mouse buttons use the conventional 1/2/3 numbering (left, middle, right).
var mouseButtons = []struct {
	button ebiten.MouseButton
	number float64
}{
	{ebiten.MouseButtonLeft, 1},
	{ebiten.MouseButtonMiddle, 2},
	{ebiten.MouseButtonRight, 3},
}

var lastCursorX, lastCursorY int

// PollEvents collects the input events that occurred since the previous
// frame, in a stable order. Call it exactly once per Update.
func PollEvents() []Event {
	var evs []Event

	for _, tk := range trackedKeys {
		if inpututil.IsKeyJustPressed(tk.key) {
			evs = append(evs, Event{Kind: KeyDown, Key: tk.name})
		}
		if inpututil.IsKeyJustReleased(tk.key) {
			evs = append(evs, Event{Kind: KeyUp, Key: tk.name})
		}
	}

	cx, cy := ebiten.CursorPosition()
	for _, mb := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(mb.button) {
			evs = append(evs, Event{Kind: MouseDown, Button: mb.number, X: float64(cx), Y: float64(cy)})
		}
		if inpututil.IsMouseButtonJustReleased(mb.button) {
			evs = append(evs, Event{Kind: MouseUp, Button: mb.number, X: float64(cx), Y: float64(cy)})
		}
	}

	if cx != lastCursorX || cy != lastCursorY {
		evs = append(evs, Event{Kind: MouseMove, X: float64(cx), Y: float64(cy)})
		lastCursorX, lastCursorY = cx, cy
	}

	return evs
}
