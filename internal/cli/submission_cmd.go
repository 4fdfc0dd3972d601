package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintdesk/internal/cli/formatter"
)

func newSubmissionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "submission",
		Aliases: []string{"sub"},
		Short:   "Store and inspect intake submissions",
	}

	cmd.AddCommand(
		newSubmissionAddCmd(app),
		newSubmissionListCmd(app),
		newSubmissionProfileCmd(app),
	)

	return cmd
}

func newSubmissionAddCmd(app *App) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "add FILE",
		Short: "Store a questionnaire submission (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				payload []byte
				err     error
			)
			if args[0] == "-" {
				payload, err = io.ReadAll(cmd.InOrStdin())
			} else {
				payload, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading submission: %w", err)
			}
			sub, err := app.Submissions.Create(cmd.Context(), source, payload)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Submission %s stored.\n", sub.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "cli", "where the submission came from")
	return cmd
}

func newSubmissionListCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			subs, err := app.Submissions.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(subs) == 0 {
				fmt.Fprintln(out, "No submissions found.")
				return nil
			}
			rows := make([][]string, 0, len(subs))
			for _, s := range subs {
				rows = append(rows, []string{s.ID, s.Source, formatter.HumanTimestamp(s.ReceivedAt, app.now())})
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"ID", "Source", "Received"}, rows))
			return nil
		},
	}
	addListFlags(cmd.Flags(), nil, &limit)
	return cmd
}

func newSubmissionProfileCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profile SUBMISSION_ID",
		Short: "Show the client profile extracted from a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Submissions.Profile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProfile(p))
			return nil
		},
	}
}
