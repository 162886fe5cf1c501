package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cnext.dev/pkg/sema/internal/domain"
)

var symbolsRecursiveFlag bool

// symbolsCmd represents the symbols command.
var symbolsCmd = newSymbolsCmd()

func newSymbolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols [paths...]",
		Short: "List the symbol registry for the given paths",
		Long:  symbolsLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Symbols(cmd.Context(), domain.SymbolsArgs{
				Paths:     parsePaths(args),
				Exclude:   viper.GetStringSlice(excludeConfigKey),
				Recursive: symbolsRecursiveFlag,
				Threads:   viper.GetInt(parallelConfigKey),
			})
		},
	}

	cmd.Flags().BoolVarP(&symbolsRecursiveFlag, recursiveFlagName, "r", true, "descend into subdirectories when scanning for units")

	return cmd
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
}
