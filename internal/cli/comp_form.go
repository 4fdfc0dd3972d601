package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/sprintdesk/internal/cli/formatter"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// compAnswers holds payment plan input as typed, before parsing.
type compAnswers struct {
	Deferred   bool
	Upfront    string
	Timing     string
	Equity     string
	Milestones string // one "summary | YYYY-MM-DD | multiplier" per line
	Miss       string
}

func defaultCompAnswers(upfront float64) compAnswers {
	return compAnswers{
		Upfront: strconv.FormatFloat(upfront, 'f', -1, 64),
		Timing:  string(domain.TimingOnKickoff),
		Equity:  "0",
		Miss:    string(domain.MissForgiven),
	}
}

// plan converts the answers into a comp plan ready to save.
func (a compAnswers) plan() (*domain.CompPlan, error) {
	upfront, err := parseFraction(a.Upfront)
	if err != nil {
		return nil, fmt.Errorf("%w: upfront %v", domain.ErrInvalidCompPlan, err)
	}
	p := &domain.CompPlan{
		IsDeferred:     a.Deferred,
		UpfrontPayment: upfront,
		UpfrontTiming:  domain.UpfrontTiming(a.Timing),
		MissOutcome:    domain.MissOutcome(a.Miss),
	}
	if !a.Deferred {
		return p, nil
	}
	if strings.TrimSpace(a.Equity) != "" {
		if p.EquitySplit, err = parseFraction(a.Equity); err != nil {
			return nil, fmt.Errorf("%w: equity %v", domain.ErrInvalidCompPlan, err)
		}
	}
	for _, line := range strings.Split(a.Milestones, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m, err := parseMilestone(line)
		if err != nil {
			return nil, err
		}
		p.Milestones = append(p.Milestones, m)
	}
	return p, nil
}

// parseMilestone reads "summary | YYYY-MM-DD | multiplier". The date may be
// left empty.
func parseMilestone(s string) (domain.Milestone, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 3 {
		return domain.Milestone{}, fmt.Errorf("%w: milestone %q must look like \"summary | 2026-06-30 | 1.5\"", domain.ErrInvalidCompPlan, strings.TrimSpace(s))
	}
	m := domain.Milestone{
		Summary:    strings.TrimSpace(parts[0]),
		TargetDate: strings.TrimSpace(parts[1]),
	}
	if m.Summary == "" {
		return domain.Milestone{}, fmt.Errorf("%w: milestone summary is required", domain.ErrInvalidCompPlan)
	}
	if err := validateOptionalDate(m.TargetDate); err != nil {
		return domain.Milestone{}, fmt.Errorf("%w: milestone %q: %v", domain.ErrInvalidCompPlan, m.Summary, err)
	}
	mult, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil || math.IsNaN(mult) || math.IsInf(mult, 0) {
		return domain.Milestone{}, fmt.Errorf("%w: milestone %q multiplier is not a number", domain.ErrInvalidCompPlan, m.Summary)
	}
	m.Multiplier = mult
	return m, nil
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func validateFraction(s string) error {
	_, err := parseFraction(s)
	return err
}

func validateMilestones(s string) error {
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, err := parseMilestone(line); err != nil {
			return err
		}
	}
	return nil
}

func sprintdeskHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func timingOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("On signing", string(domain.TimingOnSigning)),
		huh.NewOption("On kickoff", string(domain.TimingOnKickoff)),
		huh.NewOption("Net 15", string(domain.TimingNet15)),
		huh.NewOption("Net 30", string(domain.TimingNet30)),
	}
}

func missOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Forgiven", string(domain.MissForgiven)),
		huh.NewOption("Reduced to 50%", string(domain.MissReduced50)),
		huh.NewOption("Reduced to 20%", string(domain.MissReduced20)),
		huh.NewOption("Still owed in full", string(domain.MissStillOwed)),
		huh.NewOption("Renegotiate", string(domain.MissRenegotiate)),
	}
}

// compPlanForm asks for a payment plan. The deferral group is skipped for
// plans paid in full.
func compPlanForm(a *compAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Defer part of the fee against milestones?").
				Value(&a.Deferred),
			huh.NewInput().
				Title("Upfront share").
				Description("0 to 1, or a percentage such as 40%").
				Value(&a.Upfront).
				Validate(validateFraction),
			huh.NewSelect[string]().
				Title("Upfront due").
				Options(timingOptions()...).
				Value(&a.Timing),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Equity share of the deferred amount").
				Value(&a.Equity).
				Validate(validateFraction),
			huh.NewText().
				Title("Milestones").
				Description("One per line: summary | YYYY-MM-DD | multiplier").
				Value(&a.Milestones).
				Validate(validateMilestones),
			huh.NewSelect[string]().
				Title("If no milestone is met").
				Options(missOptions()...).
				Value(&a.Miss),
		).WithHideFunc(func() bool { return !a.Deferred }),
	).WithTheme(sprintdeskHuhTheme()).WithShowHelp(false)
}
