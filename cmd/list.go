package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oxmut/oxmut/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List mutants without testing them",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			errValue, err := configuredErrorValue(cmd)
			if err != nil {
				return err
			}

			return workflow.Estimate(cmd.Context(), domain.EstimateArgs{
				Paths:      parsePaths(args),
				Exclude:    viper.GetStringSlice(excludeConfigKey),
				ErrorValue: errValue,
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
