package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintdesk/internal/cli/formatter"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/proposal"
)

func newProposalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposal",
		Short: "Generate sprint drafts and inspect generation runs",
	}

	cmd.AddCommand(
		newProposalGenerateCmd(app),
		newProposalRunCmd(app),
		newProposalRunsCmd(app),
	)

	return cmd
}

func newProposalGenerateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate SUBMISSION_ID",
		Short: "Ask the model for a sprint draft grounded in the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var res *proposal.Result
			err := withSpinner(cmd.Context(), out, "Generating proposal…", func(ctx context.Context) error {
				var err error
				res, err = app.Proposals.Generate(ctx, args[0])
				return err
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s %s\n", formatter.StyleGreen.Render("✔"), formatter.Bold(res.Title))
			fmt.Fprintf(out, "  Sprint:  %s\n", res.SprintID)
			fmt.Fprintf(out, "  Run:     %s\n", formatter.Dim(res.RunID))
			source := "recommended deliverables"
			if res.UsedPackage {
				source = "package"
			}
			fmt.Fprintf(out, "  Lines:   %d from %s\n", res.LineCount, source)
			if len(res.Dropped) > 0 {
				fmt.Fprintf(out, "  Dropped: %s\n", formatter.StyleYellow.Render(strings.Join(res.Dropped, ", ")))
			}
			return nil
		},
	}
}

func newProposalRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run RUN_ID",
		Short: "Show a generation run, including the raw model response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := app.Proposals.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRun(run))
			return nil
		},
	}
}

func newProposalRunsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "runs SUBMISSION_ID",
		Short: "List generation runs for a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.Proposals.ListRuns(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs found.")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{r.ID, formatter.RunPill(r.Status), r.Model, sprintRef(r), formatter.HumanTimestamp(r.CreatedAt, app.now())})
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"Run", "Status", "Model", "Sprint", "When"}, rows))
			return nil
		},
	}
}

func sprintRef(r *domain.ProposalRun) string {
	if r.SprintID == nil {
		return formatter.Dim("none")
	}
	return *r.SprintID
}
