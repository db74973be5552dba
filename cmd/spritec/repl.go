package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"spritec/pkg/compiler"
)

const (
	historyFile = ".spritec_history"
	promptMain  = "spr> "
	promptCont  = "...> "
	banner      = "spritec REPL — Ctrl+C to cancel input, Ctrl+D to exit. Type :help for commands."
	helpText    = `
REPL commands:
  :help            Show this help
  :quit / :exit    Exit the REPL
  :list            Print the accumulated program source
  :gen             Compile the program and print the generated Go
  :load <file>     Append a source file to the program
  :reset           Discard the accumulated program
`
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively build and check a game program",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL()
	},
}

// replSession accumulates top-level declarations; every accepted chunk is
// re-validated against the whole program, so cross-declaration errors show
// up as soon as they are introduced.
type replSession struct {
	source strings.Builder
}

func runREPL() error {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sess := &replSession{}
	for {
		chunk, ok := readDeclaration(ln)
		if !ok {
			fmt.Println()
			return nil
		}
		if chunk == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(chunk, "\n", " "))

		if strings.HasPrefix(chunk, ":") {
			if exit := sess.handleCommand(chunk); exit {
				return nil
			}
			continue
		}
		sess.tryAppend(chunk)
	}
}

// readDeclaration accumulates lines until every opened brace is closed, so a
// whole sprite or scene block can be entered across multiple lines.
func readDeclaration(ln *liner.State) (string, bool) {
	var buf strings.Builder
	prompt := promptMain
	depth := 0

	for {
		line, err := ln.Prompt(prompt)
		if err != nil { // Ctrl+D or Ctrl+C
			if err == liner.ErrPromptAborted {
				return "", true // cancel current input, stay in the REPL
			}
			return "", false
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)

		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth <= 0 {
			return strings.TrimSpace(buf.String()), true
		}
		prompt = promptCont
	}
}

func (s *replSession) handleCommand(cmd string) (exit bool) {
	name, arg, _ := strings.Cut(cmd, " ")
	switch name {
	case ":quit", ":exit":
		return true
	case ":help":
		fmt.Print(helpText)
	case ":list":
		fmt.Print(s.source.String())
	case ":reset":
		s.source.Reset()
		fmt.Println("program cleared")
	case ":gen":
		res, err := compiler.Compile(s.source.String(), "repl")
		if err != nil {
			fmt.Fprintf(os.Stderr, "internal error: %v\n", err)
			break
		}
		fmt.Fprint(os.Stderr, res.Rendered)
		if !res.HasErrors() {
			fmt.Print(res.Code)
		}
	case ":load":
		if arg == "" {
			fmt.Println("usage: :load <file>")
			break
		}
		src, err := os.ReadFile(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot read %s: %v\n", arg, err)
			break
		}
		s.tryAppend(string(src))
	default:
		fmt.Printf("unknown command %s (try :help)\n", name)
	}
	return false
}

// tryAppend validates the program with chunk added; chunks that introduce
// errors are rejected and the session keeps its previous state.
func (s *replSession) tryAppend(chunk string) {
	candidate := s.source.String() + chunk + "\n"
	res, err := compiler.Compile(candidate, "repl")
	if err != nil {
		fmt.Fprintf(os.Stderr, "internal error: %v\n", err)
		return
	}
	fmt.Fprint(os.Stderr, res.Rendered)
	if res.HasErrors() {
		fmt.Println("rejected")
		return
	}
	s.source.Reset()
	s.source.WriteString(candidate)
}
