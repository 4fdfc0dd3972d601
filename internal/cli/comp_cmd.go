package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintdesk/internal/apierr"
	"github.com/alexanderramin/sprintdesk/internal/cli/formatter"
)

func newCompCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comp",
		Short: "Set and show a sprint's payment plan",
	}

	cmd.AddCommand(
		newCompSetCmd(app),
		newCompShowCmd(app),
	)

	return cmd
}

func newCompSetCmd(app *App) *cobra.Command {
	var (
		interactive bool
		deferred    bool
		timing      string
		miss        string
		milestones  []string
		upfront     fractionFlag
		equity      fractionFlag
	)
	cmd := &cobra.Command{
		Use:   "set SPRINT_ID",
		Short: "Save a payment plan and compute its outputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !upfront.set {
				upfront.value = app.Pricing.DefaultUpfront
			}
			a := defaultCompAnswers(upfront.value)
			if interactive {
				if !isTerminal(cmd.OutOrStdout()) {
					return apierr.Invalid("--interactive needs a terminal")
				}
				if err := compPlanForm(&a).RunWithContext(cmd.Context()); err != nil {
					return err
				}
			} else {
				a.Deferred = deferred
				if timing != "" {
					a.Timing = timing
				}
				if miss != "" {
					a.Miss = miss
				}
				a.Equity = equity.String()
				a.Milestones = strings.Join(milestones, "\n")
				if !deferred && (equity.set || len(milestones) > 0) {
					return apierr.Invalid("--equity and --milestone need --deferred")
				}
			}

			plan, err := a.plan()
			if err != nil {
				return err
			}
			saved, err := app.CompPlans.Save(cmd.Context(), args[0], plan)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCompPlan(saved, app.currency()))
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&interactive, "interactive", "i", false, "fill the plan in a form")
	f.BoolVar(&deferred, "deferred", false, "defer part of the fee against milestones")
	f.Var(&upfront, "upfront", "upfront share, 0 to 1 or a percentage (default from the rate card)")
	f.StringVar(&timing, "timing", "", "on_signing, on_kickoff, net_15 or net_30")
	f.Var(&equity, "equity", "equity share of the deferred amount")
	f.StringArrayVar(&milestones, "milestone", nil, `"summary | YYYY-MM-DD | multiplier", repeatable`)
	f.StringVar(&miss, "miss", "", "forgiven, reduced-50 (half paid), reduced-20 (a fifth paid), still-owed or renegotiate")
	cmd.MarkFlagsMutuallyExclusive("interactive", "deferred")
	return cmd
}

func newCompShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show SPRINT_ID",
		Short: "Show the effective payment plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := app.CompPlans.Latest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCompPlan(plan, app.currency()))
			return nil
		},
	}
}
