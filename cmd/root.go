// Package cmd provides the root command and CLI setup for oxmut.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/oxmut/oxmut/internal/adapter"
	"github.com/oxmut/oxmut/internal/controller"
	"github.com/oxmut/oxmut/internal/domain"
	m "github.com/oxmut/oxmut/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var rustAdapter adapter.RustFileAdapter
var cargoAdapter adapter.CargoAdapter
var reportStore adapter.ReportStore
var orchestrator domain.Orchestrator
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

// errorValueFlag holds the Rust expression used for Err(...) mutants.
var errorValueFlag string

// verboseFlag switches file logging to debug level.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	rustAdapter = adapter.NewTreeSitterRustAdapter()
	cargoAdapter = adapter.NewLocalCargoAdapter()
	reportStore = adapter.NewReportStore()
	orchestrator = domain.NewOrchestrator(fsAdapter, cargoAdapter, domain.NewMutator())
	workflow = domain.NewWorkflow(
		fsAdapter,
		rustAdapter,
		reportStore,
		orchestrator,
		ui,
	)
}

const pathArgsHelp = `Paths name files or directories inside a Cargo crate:
  - (none)         scan the current directory recursively
  - src/lib.rs     scan a single file
  - src/ tests/    scan multiple directories`

const rootLongDescription = `Oxmut is a mutation testing tool for Rust that assesses the quality of a
crate's test suite by replacing function bodies with trivial values and
verifying that the tests notice.

` + pathArgsHelp

const runLongDescription = `Run mutation testing for the given paths (default: current crate).

` + pathArgsHelp

const listLongDescription = `List the mutants that would be tested, without building anything.

` + pathArgsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "oxmut",
		Short: "Rust mutation testing tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for mutation testing reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().StringVar(&errorValueFlag, errorFlagName, viper.GetString(errorValueConfigKey), "Rust expression used as the error value for Err(...) mutants")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(errorFlagName), errorValueConfigKey)

	cmd.PersistentFlags().BoolVar(&verboseFlag, verboseFlagName, viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
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
//
// A run with surviving mutants exits with code 2 so CI can tell "tests are
// too weak" apart from "the tool failed".
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		if errors.Is(err, domain.ErrMissedMutants) {
			os.Exit(2)
		}

		os.Exit(1)
	}
}

// configuredErrorValue validates the --error flag (or its config key) and
// returns the parsed expression, nil when unset.
func configuredErrorValue(cmd *cobra.Command) (*m.ErrorValue, error) {
	return domain.NewErrorValue(cmd.Context(), rustAdapter, viper.GetString(errorValueConfigKey))
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
