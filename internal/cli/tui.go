package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tuiOCRModel string

func newTUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive detector",
		Long: `Open the interactive detector with empty upload and text forms.

Type a file path or switch to the text form with tab, then press enter to
analyze. ctrl+o switches the OCR model used for images.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flag("ocr-model").Changed {
				if err := validateOCRModel(tuiOCRModel); err != nil {
					return err
				}
			}
			cfg := *GetGlobalConfig()
			if err := runInteractive(&cfg, tuiOCRModel, nil); err != nil {
				return fmt.Errorf("interactive UI failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tuiOCRModel, "ocr-model", "", "initial OCR model for images (printed, handwritten)")

	return cmd
}
