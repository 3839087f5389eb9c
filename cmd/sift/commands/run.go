package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/sift/internal/app"
	"go.trai.ch/sift/internal/core/domain"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [experiment-file]",
		Short: "Run the steps of an experiment file",
		Long: "Run the steps of an experiment file in order. Without an argument, " +
			domain.ExperimentFileName + " in the current directory is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			experimenter, _ := cmd.Flags().GetString("experimenter")
			output, _ := cmd.Flags().GetString("output")

			m, err := c.app.Run(cmd.Context(), path, app.RunOptions{
				Experimenter: experimenter,
				Output:       output,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), m.Root)
			return nil
		},
	}
	cmd.Flags().StringP("experimenter", "e", "", "Experimenter name prefixed to the run directory")
	cmd.Flags().StringP("output", "o", "", "Base directory for run directories")
	return cmd
}
