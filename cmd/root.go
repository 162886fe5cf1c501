// Package cmd provides the root command and CLI setup for sema.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"cnext.dev/pkg/sema/internal/adapter"
	"cnext.dev/pkg/sema/internal/controller"
	"cnext.dev/pkg/sema/internal/domain"
	m "cnext.dev/pkg/sema/internal/model"
)

var unitFSAdapter adapter.UnitFSAdapter
var unitDecoder adapter.UnitDecoder
var reportStore adapter.ReportStore
var ui controller.UI
var workflow domain.Workflow

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// excludePatterns is a root-level flag that filters unit files for applicable commands.
var excludePatterns []string

// verboseFlag switches the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	unitFSAdapter = adapter.NewLocalUnitFSAdapter()
	unitDecoder = adapter.NewYAMLUnitDecoder()
	reportStore = adapter.NewYAMLReportStore()
	ui = controller.NewUI(rootCmd, controller.IsTTY(rootCmd))
	workflow = domain.NewWorkflow(unitFSAdapter, unitDecoder, reportStore, ui)
}

const pathArgsHelp = `Paths name directories (or single files) containing *.unit.yaml
compilation units produced by the parser front end:
  - ./units          analyze every unit under units/
  - ./a ./b          analyze multiple directories`

const rootLongDescription = `Sema is the semantic-resolution stage of the C'next compiler. It builds a
symbol graph from serialized compilation units, resolves bare identifiers
against scope membership, analyzes parameter mutation across the whole
program and reports the calling convention chosen for every parameter.

` + pathArgsHelp

const analyzeLongDescription = `Run the full semantic analysis for the given paths and write a report.

` + pathArgsHelp

const symbolsLongDescription = `List every symbol the registry collects from the given paths, with its
qualified name and kind, without running the analysis passes.

` + pathArgsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sema",
		Short: "C'next semantic analyzer",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), verboseFlag || viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for analysis reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude unit files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log at debug level")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
