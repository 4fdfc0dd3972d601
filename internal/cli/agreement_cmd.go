package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newAgreementCmd(app *App) *cobra.Command {
	var (
		effectiveDate string
		outPath       string
	)
	cmd := &cobra.Command{
		Use:   "agreement SPRINT_ID",
		Short: "Render the services agreement for a sprint as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := app.Agreements.Generate(cmd.Context(), args[0], effectiveDate)
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Fprint(cmd.OutOrStdout(), doc.Text)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(doc.Text), 0o644); err != nil {
				return fmt.Errorf("writing agreement: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Agreement written to %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&effectiveDate, "effective-date", "", "date the agreement takes effect (default: last signature)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to a file instead of stdout")
	return cmd
}
