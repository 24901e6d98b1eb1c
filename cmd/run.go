package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oxmut/oxmut/internal/domain"
	m "github.com/oxmut/oxmut/internal/model"
)

var runParallelFlag int
var runShardFlag string
var runShuffleFlag bool

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run mutation testing",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			errValue, err := configuredErrorValue(cmd)
			if err != nil {
				return err
			}

			if domain.LooksWrapped(errValue) {
				cmd.PrintErrln("warning: error value already wraps Err(..); pass the inner expression instead")
			}

			shardIndex, totalShards, err := parseShardFlag(runShardFlag)
			if err != nil {
				return err
			}

			reportsPath := m.Path(viper.GetString(outputFlagName))

			return workflow.Test(cmd.Context(), domain.TestArgs{
				EstimateArgs: domain.EstimateArgs{
					Paths:      parsePaths(args),
					Exclude:    viper.GetStringSlice(excludeConfigKey),
					ErrorValue: errValue,
				},
				Reports:         reportsPath,
				Threads:         viper.GetInt(runParallelConfigKey),
				ShardIndex:      shardIndex,
				TotalShardCount: totalShards,
				MutationTimeout: viper.GetDuration(mutationTimeoutKey),
				Shuffle:         viper.GetBool(runShuffleConfigKey),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of parallel workers for mutation testing")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().Duration(runTimeoutFlagName, viper.GetDuration(mutationTimeoutKey), "timeout for building and testing one mutant")
	bindFlagToConfig(cmd.Flags().Lookup(runTimeoutFlagName), mutationTimeoutKey)

	cmd.Flags().BoolVar(&runShuffleFlag, runShuffleFlagName, viper.GetBool(runShuffleConfigKey), "test mutants in random order")
	bindFlagToConfig(cmd.Flags().Lookup(runShuffleFlagName), runShuffleConfigKey)

	cmd.Flags().StringVarP(&runShardFlag, "shard", "s", "", "shard index and total shard count in the format INDEX/TOTAL (e.g., 0/3)")
}

func parseShardFlag(shard string) (int, int, error) {
	if shard == "" {
		return 0, 1, nil
	}

	var index, total int

	if _, err := fmt.Sscanf(shard, "%d/%d", &index, &total); err != nil {
		return 0, 0, fmt.Errorf("invalid shard %q: expected INDEX/TOTAL", shard)
	}

	if total <= 0 || index < 0 || index >= total {
		return 0, 0, fmt.Errorf("invalid shard %q: index must be in [0, TOTAL)", shard)
	}

	return index, total, nil
}
