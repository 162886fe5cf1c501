package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cnext.dev/pkg/sema/internal/domain"
	m "cnext.dev/pkg/sema/internal/model"
)

var analyzeParallelFlag int
var analyzeMaxValueBitsFlag int
var analyzeRecursiveFlag bool

// analyzeCmd represents the analyze command.
var analyzeCmd = newAnalyzeCmd()

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Run semantic analysis and write a report",
		Long:  analyzeLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := workflow.Analyze(cmd.Context(), domain.AnalyzeArgs{
				Paths:        parsePaths(args),
				Exclude:      viper.GetStringSlice(excludeConfigKey),
				Recursive:    analyzeRecursiveFlag,
				Output:       m.Path(viper.GetString(outputFlagName)),
				MaxValueBits: viper.GetInt(maxValueBitsConfigKey),
				Threads:      viper.GetInt(parallelConfigKey),
			})

			return err
		},
	}

	configureAnalyzeFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func configureAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&analyzeParallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of parallel workers for unit decoding")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.Flags().IntVarP(&analyzeMaxValueBitsFlag, maxValueBitsFlagName, "b", viper.GetInt(maxValueBitsConfigKey), "largest primitive width (bits) still passed by value")
	bindFlagToConfig(cmd.Flags().Lookup(maxValueBitsFlagName), maxValueBitsConfigKey)

	cmd.Flags().BoolVarP(&analyzeRecursiveFlag, recursiveFlagName, "r", true, "descend into subdirectories when scanning for units")
}
