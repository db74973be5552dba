package compiler

import (
	"strings"
	"testing"
)

func TestFormatDiagnostic(t *testing.T) {
	src := "x = x + spede\n"
	rep := NewReporter("pong.spr", src)
	rep.ErrorWithHint(
		Pos{Line: 1, Column: 9, Length: 5},
		"did you mean \"speed\"?",
		"unresolved reference %q", "spede")

	got := rep.Format(rep.Diagnostics()[0])
	want := `error: unresolved reference "spede"
  --> pong.spr:1:9
   | x = x + spede
   |         ^^^^^
   = help: did you mean "speed"?
`
	if got != want {
		t.Errorf("format mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatWithoutSuggestion(t *testing.T) {
	rep := NewReporter("a.spr", "game {\n")
	rep.Errorf(Pos{Line: 1, Column: 6, Length: 1}, "expected IDENTIFIER, got LBRACE (%q)", "{")

	got := rep.Format(rep.Diagnostics()[0])
	if strings.Contains(got, "help:") {
		t.Errorf("unexpected help line:\n%s", got)
	}
	if !strings.Contains(got, "--> a.spr:1:6") {
		t.Errorf("missing location line:\n%s", got)
	}
}

func TestFormatOutOfRangeLine(t *testing.T) {
	// EOF-position diagnostics may point one past the last line; the source
	// excerpt is simply omitted.
	rep := NewReporter("a.spr", "x")
	rep.Errorf(Pos{Line: 99, Column: 1}, "unexpected end of input")

	got := rep.Format(rep.Diagnostics()[0])
	if !strings.Contains(got, "a.spr:99:1") {
		t.Errorf("missing location:\n%s", got)
	}
	if strings.Contains(got, "   | ") {
		t.Errorf("unexpected excerpt for out-of-range line:\n%s", got)
	}
}

func TestDiagnosticCap(t *testing.T) {
	rep := NewReporter("a.spr", "")
	for i := 0; i < maxDiagnostics+25; i++ {
		rep.Errorf(Pos{Line: 1, Column: 1}, "error %d", i)
	}

	if got := len(rep.Diagnostics()); got != maxDiagnostics {
		t.Errorf("stored diagnostics: got %d, want %d", got, maxDiagnostics)
	}
	if !rep.HasErrors() {
		t.Error("HasErrors must hold past the cap")
	}
	out := rep.FormatAll()
	if !strings.Contains(out, "25 further diagnostics suppressed") {
		t.Errorf("missing suppression note:\n%s", out)
	}
}

func TestWarningsAreNotErrors(t *testing.T) {
	rep := NewReporter("a.spr", "x")
	rep.Warnf(Pos{Line: 1, Column: 1}, "just a warning")
	if rep.HasErrors() {
		t.Error("a warning must not count as an error")
	}
	if len(rep.Diagnostics()) != 1 {
		t.Errorf("got %d diagnostics", len(rep.Diagnostics()))
	}
}
