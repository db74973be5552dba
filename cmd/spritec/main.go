package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"spritec/pkg/compiler"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "spritec",
	Short:         "Compiler for the sprite game language",
	Long:          "Spritec compiles .spr game sources into standalone Go programs built on Ebiten.",
	SilenceErrors: true,
	SilenceUsage:  true,
	// No Run — prints help by default.
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(replCmd)
}

var flagOutput string

var buildCmd = &cobra.Command{
	Use:   "build <file.spr>",
	Short: "Compile a game source file to Go",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output path (default: source name with .go extension)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	path := args[0]
	res, err := compileFile(path)
	if err != nil {
		return err
	}
	if res.HasErrors() {
		fmt.Fprint(os.Stderr, res.Rendered)
		return fmt.Errorf("%s: compilation failed", path)
	}
	// Warnings still print on a successful build.
	fmt.Fprint(os.Stderr, res.Rendered)

	out := flagOutput
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".go"
	}
	if err := os.WriteFile(out, []byte(res.Code), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

var checkCmd = &cobra.Command{
	Use:   "check <file.spr>",
	Short: "Validate a game source file without generating code",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	res, err := compileFile(path)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stderr, res.Rendered)
	if res.HasErrors() {
		return fmt.Errorf("%s: validation failed", path)
	}
	fmt.Printf("%s: ok\n", path)
	return nil
}

func compileFile(path string) (compiler.Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return compiler.Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return compiler.Compile(string(src), filepath.Base(path))
}
