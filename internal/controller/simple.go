package controller

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "cnext.dev/pkg/sema/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayReport prints the parameter decision table followed by the
// identifier rewrite table.
func (s *SimpleUI) DisplayReport(report m.Report) error {
	s.printf("\n%s", renderParamTable(report))

	if rewrites := renderRewriteTable(report); rewrites != "" {
		s.printf("\n%s", rewrites)
	}

	return nil
}

// DisplaySymbols prints one row per registered symbol.
func (s *SimpleUI) DisplaySymbols(entries []m.SymbolEntry) error {
	s.printf("\n%s", renderSymbolTable(entries))

	return nil
}

// DisplayDiff prints a unified diff between two reports.
func (s *SimpleUI) DisplayDiff(unified string) error {
	if unified == "" {
		s.printf("Reports are identical.\n")
		return nil
	}

	s.printf("%s", unified)

	return nil
}

func renderParamTable(report m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Function", "Param", "Type", "Mutated", "Convention"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	params := 0
	byValue := 0

	for _, fn := range report.Functions {
		for _, p := range fn.Params {
			conv := "by-ref"
			if p.PassByValue {
				conv = "by-value"
				byValue++
			}

			table.Append([]string{fn.Qualified, p.Name, p.Type, yesNo(p.Mutated), conv})

			params++
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("%d function(s)", len(report.Functions)),
		fmt.Sprintf("%d param(s)", params),
		"",
		"",
		fmt.Sprintf("%d by-value", byValue),
	})

	table.Render()

	return tableBuffer.String()
}

func renderRewriteTable(report m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Function", "Identifier", "Rewritten"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	rows := 0

	for _, fn := range report.Functions {
		for _, r := range fn.Rewrites {
			table.Append([]string{fn.Qualified, r.Ident, r.Rewritten})

			rows++
		}
	}

	if rows == 0 {
		return ""
	}

	table.Render()

	return tableBuffer.String()
}

func renderSymbolTable(entries []m.SymbolEntry) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Symbol", "Kind", "Scope", "Detail"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, e := range entries {
		table.Append([]string{e.Qualified, string(e.Kind), e.Scope, e.Detail})
	}

	table.SetFooter([]string{fmt.Sprintf("Total %d", len(entries)), "", "", ""})
	table.Render()

	return tableBuffer.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}

	return "no"
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
