package cmd

import (
	"github.com/spf13/cobra"

	"cnext.dev/pkg/sema/internal/domain"
	m "cnext.dev/pkg/sema/internal/model"
)

// diffCmd represents the diff command.
var diffCmd = newDiffCmd()

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "Compare two analysis reports",
		Long: `Compare two saved reports and show the parameter calling conventions
that changed between the runs. Arguments may name report files or the
directories containing them.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Diff(domain.DiffArgs{
				Before: m.Path(args[0]),
				After:  m.Path(args[1]),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
