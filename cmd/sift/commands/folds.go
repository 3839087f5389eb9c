package commands

import (
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.trai.ch/sift/internal/app"
	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newFoldsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folds <data-file>",
		Short: "Write a stratified fold file for a labelled data set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			total, _ := flags.GetInt("total")
			shuffle, _ := flags.GetBool("shuffle")
			seed, _ := flags.GetInt64("seed")
			out, _ := flags.GetString("out")
			idColumn, _ := flags.GetString("id-column")
			labelColumn, _ := flags.GetString("label-column")
			foldColumn, _ := flags.GetString("fold-column")
			delimiter, _ := flags.GetString("delimiter")

			sep, size := utf8.DecodeRuneInString(delimiter)
			if size == 0 || size != len(delimiter) {
				err := zerr.Wrap(domain.ErrInvalidArgument, "delimiter must be a single character")
				return zerr.With(err, "parameter", "delimiter")
			}

			return c.app.Folds(cmd.Context(), app.FoldsOptions{
				Data:        args[0],
				Delimiter:   sep,
				IDColumn:    idColumn,
				LabelColumn: labelColumn,
				FoldColumn:  foldColumn,
				Total:       total,
				Shuffle:     shuffle,
				Seed:        seed,
				Out:         out,
			})
		},
	}
	cmd.Flags().IntP("total", "k", 5, "Number of folds")
	cmd.Flags().Bool("shuffle", false, "Shuffle samples within each class before assignment")
	cmd.Flags().Int64("seed", 0, "Seed used when shuffling")
	cmd.Flags().String("out", "", "Output file (default: folds.csv next to the data file)")
	cmd.Flags().String("id-column", "id", "Sample id column")
	cmd.Flags().String("label-column", "label", "Binary label column")
	cmd.Flags().String("fold-column", "fold", "Fold column written to the output")
	cmd.Flags().String("delimiter", ",", "Field delimiter")
	return cmd
}
