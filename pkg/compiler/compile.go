package compiler

// Result is the outcome of one compilation run. Code is empty whenever the
// diagnostics contain at least one error: nothing is ever generated from an
// invalid program.
type Result struct {
	Code        string
	Diagnostics []Diagnostic
	Rendered    string // diagnostics formatted for terminal output
}

// HasErrors reports whether any diagnostic is an error.
func (r Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SevError {
			return true
		}
	}
	return false
}

// Compile runs the full pipeline over src: lexing, parsing, scope resolution
// and validation, then code generation. The stages run strictly in order and
// every stage consumes only its predecessor's output.
//
// User mistakes come back as Diagnostics, never as the error return; the
// error is reserved for internal generator failures.
func Compile(src, filename string) (Result, error) {
	rep := NewReporter(filename, src)

	tokens := Lex(src, rep)
	prog := Parse(tokens, rep)
	Analyze(prog, rep)

	res := Result{Diagnostics: rep.Diagnostics(), Rendered: rep.FormatAll()}
	if rep.HasErrors() {
		return res, nil
	}

	code, err := Generate(prog)
	if err != nil {
		return res, err
	}
	res.Code = code
	return res, nil
}
