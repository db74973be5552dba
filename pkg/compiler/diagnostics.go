package compiler

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SevError Severity = iota
	SevWarning
)

func (s Severity) String() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is a single location-tagged message produced by any stage.
type Diagnostic struct {
	Severity   Severity
	Message    string
	Pos        Pos
	Suggestion string // optional "help:" line
}

// maxDiagnostics bounds the collector so pathological input cannot grow the
// list without limit. Anything past the cap is counted but not stored.
const maxDiagnostics = 100

// Reporter is the append-only diagnostic sink shared by all pipeline stages.
// One Reporter belongs to one compiler invocation; it is not safe for
// concurrent use.
type Reporter struct {
	filename string
	lines    []string
	diags    []Diagnostic
	errors   int
	dropped  int
}

func NewReporter(filename, source string) *Reporter {
	return &Reporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

func (r *Reporter) add(d Diagnostic) {
	if d.Severity == SevError {
		r.errors++
	}
	if len(r.diags) >= maxDiagnostics {
		r.dropped++
		return
	}
	r.diags = append(r.diags, d)
}

// Errorf records an error at pos.
func (r *Reporter) Errorf(pos Pos, format string, args ...any) {
	r.add(Diagnostic{Severity: SevError, Message: fmt.Sprintf(format, args...), Pos: pos})
}

// Warnf records a warning at pos.
func (r *Reporter) Warnf(pos Pos, format string, args ...any) {
	r.add(Diagnostic{Severity: SevWarning, Message: fmt.Sprintf(format, args...), Pos: pos})
}

// ErrorWithHint records an error carrying a suggestion line.
func (r *Reporter) ErrorWithHint(pos Pos, hint, format string, args ...any) {
	r.add(Diagnostic{
		Severity:   SevError,
		Message:    fmt.Sprintf(format, args...),
		Pos:        pos,
		Suggestion: hint,
	})
}

// HasErrors reports whether any error-severity diagnostic was recorded,
// including ones dropped past the cap.
func (r *Reporter) HasErrors() bool { return r.errors > 0 }

// Diagnostics returns the recorded diagnostics in insertion order.
func (r *Reporter) Diagnostics() []Diagnostic { return r.diags }

// Format renders one diagnostic in the standard layout:
//
//	error: unresolved reference "spede"
//	  --> pong.spr:14:9
//	   | x = x + spede
//	   |         ^^^^^
//	   = help: declare it with an assignment before reading it
func (r *Reporter) Format(d Diagnostic) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", d.Severity, d.Message)
	fmt.Fprintf(&sb, "  --> %s:%d:%d\n", r.filename, d.Pos.Line, d.Pos.Column)

	lineIdx := d.Pos.Line - 1
	if lineIdx >= 0 && lineIdx < len(r.lines) {
		src := strings.ReplaceAll(r.lines[lineIdx], "\t", " ")
		fmt.Fprintf(&sb, "   | %s\n", src)

		width := d.Pos.Length
		if width < 1 {
			width = 1
		}
		col := d.Pos.Column
		if col < 1 {
			col = 1
		}
		fmt.Fprintf(&sb, "   | %s%s\n", strings.Repeat(" ", col-1), strings.Repeat("^", width))
	}
	if d.Suggestion != "" {
		fmt.Fprintf(&sb, "   = help: %s\n", d.Suggestion)
	}
	return sb.String()
}

// FormatAll renders every recorded diagnostic, plus a trailing note when the
// cap truncated the list.
func (r *Reporter) FormatAll() string {
	var sb strings.Builder
	for _, d := range r.diags {
		sb.WriteString(r.Format(d))
	}
	if r.dropped > 0 {
		fmt.Fprintf(&sb, "note: %d further diagnostics suppressed\n", r.dropped)
	}
	return sb.String()
}
