package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cnext.dev/pkg/sema/internal/domain"
	m "cnext.dev/pkg/sema/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [report]",
		Short: "View a previously generated analysis report",
		Long:  "View a previously generated analysis report. Without an argument the configured output directory is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			report := m.Path(viper.GetString(outputFlagName))
			if len(args) == 1 {
				report = m.Path(args[0])
			}

			return workflow.View(domain.ViewArgs{Report: report})
		},
	}
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
