// Package cli is the sprintdesk command line: catalog management, intake,
// proposal generation, sprint editing, payment plans and agreements.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintdesk/internal/apierr"
	"github.com/alexanderramin/sprintdesk/internal/pricing"
	"github.com/alexanderramin/sprintdesk/internal/proposal"
	"github.com/alexanderramin/sprintdesk/internal/service"
)

// App holds the use cases the commands run against.
type App struct {
	Catalog     service.CatalogService
	Submissions service.SubmissionService
	Proposals   service.ProposalService
	Sprints     service.SprintService
	CompPlans   service.CompPlanService
	Agreements  service.AgreementService

	// Pricing supplies the currency symbol and default upfront share.
	Pricing pricing.Config
	// Serve runs the HTTP API until ctx is cancelled.
	Serve func(ctx context.Context) error
	Now   func() time.Time
}

func (a *App) currency() string {
	if a.Pricing.CurrencySymbol == "" {
		return "$"
	}
	return a.Pricing.CurrencySymbol
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// NewRootCmd creates the top-level "sprintdesk" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "sprintdesk",
		Short:         "Sprint proposals, pricing and agreements for a design studio",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apierr.Invalid(err.Error())
	})

	root.AddCommand(
		newServeCmd(app),
		newCatalogCmd(app),
		newSubmissionCmd(app),
		newProposalCmd(app),
		newSprintCmd(app),
		newCompCmd(app),
		newAgreementCmd(app),
	)

	return root
}

// Execute runs the command tree and prints any error as "code: message".
// It returns the process exit code.
func Execute(ctx context.Context, app *App, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, FormatError(err))
		return 1
	}
	return 0
}

// FormatError renders err with its stable code. Errors tied to a proposal
// run name the run so its audit record can be inspected.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	ae := apierr.Classify(err)
	msg := fmt.Sprintf("%s: %s", ae.Code, ae.Error())
	if runID, ok := proposal.RunIDOf(err); ok {
		msg += fmt.Sprintf("\ninspect with: sprintdesk proposal run %s", runID)
	}
	return msg
}

// errUnavailable is returned when a command's use case was not wired.
var errUnavailable = errors.New("command not available in this build")
