package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oxmut/oxmut/internal/domain"
	m "github.com/oxmut/oxmut/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge sharded reports into a single directory",
		Long:  "Merge reports from shard_* subdirectories into a single reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportsPath := m.Path(viper.GetString(outputFlagName))
			return workflow.Merge(cmd.Context(), domain.MergeArgs{Reports: reportsPath})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
