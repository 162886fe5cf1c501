// Package controller renders analysis results to the terminal.
package controller

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "cnext.dev/pkg/sema/internal/model"
)

// UI defines the interface for displaying analysis output.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayReport(report m.Report) error
	DisplaySymbols(entries []m.SymbolEntry) error
	DisplayDiff(unified string) error
}

// NewUI picks the interactive browser when stdout is a terminal and the
// caller allows it, and falls back to plain tables otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive && IsTTY(cmd) {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether the command's output stream is a terminal.
func IsTTY(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
