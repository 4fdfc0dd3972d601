package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintdesk/internal/apierr"
	"github.com/alexanderramin/sprintdesk/internal/cli/formatter"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/service"
)

func newSprintCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprint",
		Short: "Show and edit sprint drafts",
	}

	cmd.AddCommand(
		newSprintListCmd(app),
		newSprintShowCmd(app),
		newSprintAddCmd(app),
		newSprintRemoveCmd(app),
		newSprintComplexityCmd(app),
		newSprintQuantityCmd(app),
		newSprintNotesCmd(app),
		newSprintStatusCmd(app),
	)

	return cmd
}

func newSprintListCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent sprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sprints, err := app.Sprints.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSprintList(sprints, app.currency(), app.now()))
			return nil
		},
	}
	addListFlags(cmd.Flags(), nil, &limit)
	return cmd
}

func newSprintShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show SPRINT_ID",
		Short: "Show a sprint with its lines, totals and payment plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSprint(cmd, app, args[0])
		},
	}
}

func printSprint(cmd *cobra.Command, app *App, id string) error {
	d, err := app.Sprints.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSprint(d.Sprint, d.Lines, d.Plan, app.currency()))
	return nil
}

func newSprintAddCmd(app *App) *cobra.Command {
	var (
		deliverable string
		pkg         string
		quantity    int
	)
	complexity := newComplexityFlag()
	cmd := &cobra.Command{
		Use:   "add SPRINT_ID",
		Short: "Add a deliverable, or every active item of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			switch {
			case (deliverable == "") == (pkg == ""):
				return apierr.Invalid("set exactly one of --deliverable or --package")
			case pkg != "":
				n, err := app.Sprints.ApplyPackage(ctx, args[0], pkg)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Added %d lines from %s.\n", n, pkg)
			default:
				line, err := app.Sprints.AddDeliverable(ctx, args[0], deliverable, quantity, complexity.value)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Added %s (%s).\n", line.NameSnapshot, formatter.Money(app.currency(), line.CustomPrice))
			}
			return printSprint(cmd, app, args[0])
		},
	}
	cmd.Flags().StringVarP(&deliverable, "deliverable", "d", "", "deliverable id")
	cmd.Flags().StringVarP(&pkg, "package", "p", "", "package id or slug")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "quantity")
	cmd.Flags().VarP(complexity, "complexity", "c", "0.75, 1, 1.5, 2 or simple|normal|complex|very-complex")
	return cmd
}

func newSprintRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove SPRINT_ID LINE",
		Short: "Remove a line (by id or its # in sprint show)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd.Context(), app, args[0], args[1])
			if err != nil {
				return err
			}
			if err := app.Sprints.RemoveLine(cmd.Context(), args[0], lineID); err != nil {
				return err
			}
			return printSprint(cmd, app, args[0])
		},
	}
}

func newSprintComplexityCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complexity SPRINT_ID LINE VALUE",
		Short: "Set a line's complexity multiplier",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := domain.ParseComplexityString(args[2])
			if err != nil {
				return err
			}
			lineID, err := resolveLine(cmd.Context(), app, args[0], args[1])
			if err != nil {
				return err
			}
			if _, err := app.Sprints.SetComplexity(cmd.Context(), args[0], lineID, c); err != nil {
				return err
			}
			return printSprint(cmd, app, args[0])
		},
	}
}

func newSprintQuantityCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quantity SPRINT_ID LINE N",
		Short: "Set a line's quantity",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return apierr.Invalid(fmt.Sprintf("quantity %q is not a whole number", args[2]))
			}
			lineID, err := resolveLine(cmd.Context(), app, args[0], args[1])
			if err != nil {
				return err
			}
			if _, err := app.Sprints.SetQuantity(cmd.Context(), args[0], lineID, n); err != nil {
				return err
			}
			return printSprint(cmd, app, args[0])
		},
	}
}

func newSprintNotesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "notes SPRINT_ID LINE TEXT...",
		Short: "Set a line's notes",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd.Context(), app, args[0], args[1])
			if err != nil {
				return err
			}
			if _, err := app.Sprints.SetLineNotes(cmd.Context(), args[0], lineID, strings.Join(args[2:], " ")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Notes updated.")
			return nil
		},
	}
}

func newSprintStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status SPRINT_ID STATUS",
		Short: "Move a sprint to draft, studio_review, sent, accepted or declined",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, err := app.Sprints.SetStatus(cmd.Context(), args[0], domain.SprintStatus(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", sp.Title, formatter.StatusPill(sp.Status))
			return nil
		},
	}
}

// resolveLine accepts a line id or the 1-based position shown by sprint show.
func resolveLine(ctx context.Context, app *App, sprintID, ref string) (string, error) {
	n, err := strconv.Atoi(ref)
	if err != nil {
		return ref, nil
	}
	d, err := app.Sprints.Get(ctx, sprintID)
	if err != nil {
		return "", err
	}
	return lineAt(d, n)
}

func lineAt(d *service.SprintDetail, n int) (string, error) {
	if n < 1 || n > len(d.Lines) {
		return "", apierr.Invalid(fmt.Sprintf("line #%d does not exist; the sprint has %d lines", n, len(d.Lines)))
	}
	return d.Lines[n-1].ID, nil
}
