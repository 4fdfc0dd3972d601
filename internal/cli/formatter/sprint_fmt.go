package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// FormatSprint renders a sprint header, its line table with totals, and
// the effective payment plan when there is one.
func FormatSprint(sp *domain.Sprint, lines []domain.SprintLine, plan *domain.CompPlan, symbol string) string {
	var b strings.Builder

	b.WriteString(Header(sp.Title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  ID:       %s\n", Dim(sp.ID))
	fmt.Fprintf(&b, "  Status:   %s\n", StatusPill(sp.Status))
	fmt.Fprintf(&b, "  Client:   %s\n", clientLine(sp))
	if sp.ProjectName != "" {
		fmt.Fprintf(&b, "  Project:  %s\n", sp.ProjectName)
	}
	b.WriteString("\n")

	if len(lines) == 0 {
		b.WriteString(Dim("  No deliverables yet.") + "\n")
	} else {
		t := Table{
			Headers: []string{"#", "Deliverable", "Qty", "Complexity", "Points", "Hours", "Price", "Line"},
			Right:   map[int]bool{2: true, 4: true, 5: true, 6: true},
		}
		for i, l := range lines {
			t.Rows = append(t.Rows, []string{
				strconv.Itoa(i + 1),
				Truncate(l.NameSnapshot, 36),
				strconv.Itoa(l.Quantity),
				ComplexityLabel(l.Complexity),
				Number(l.CustomPoints),
				Number(l.CustomHours),
				Money(symbol, l.CustomPrice),
				Dim(l.ID),
			})
		}
		t.Footer = []string{"", "Total", strconv.Itoa(sp.DeliverableCount), "", Number(sp.TotalPoints), Number(sp.TotalHours), Money(symbol, sp.TotalPrice), ""}
		b.WriteString(t.Render())
	}

	if plan != nil {
		b.WriteString("\n")
		b.WriteString(FormatCompPlan(plan, symbol))
	}
	return b.String()
}

func clientLine(sp *domain.Sprint) string {
	switch {
	case sp.ClientName != "" && sp.ClientEmail != "":
		return fmt.Sprintf("%s <%s>", sp.ClientName, sp.ClientEmail)
	case sp.ClientName != "":
		return sp.ClientName
	case sp.ClientEmail != "":
		return sp.ClientEmail
	}
	return Dim("unknown")
}

// FormatSprintList renders one row per sprint.
func FormatSprintList(sprints []*domain.Sprint, symbol string, now time.Time) string {
	if len(sprints) == 0 {
		return "No sprints found.\n"
	}
	t := Table{
		Headers: []string{"Title", "Status", "Items", "Total", "Updated", "ID"},
		Right:   map[int]bool{2: true, 3: true},
	}
	for _, s := range sprints {
		t.Rows = append(t.Rows, []string{
			Truncate(s.Title, 40),
			StatusPill(s.Status),
			strconv.Itoa(s.DeliverableCount),
			Money(symbol, s.TotalPrice),
			HumanTimestamp(s.UpdatedAt, now),
			Dim(s.ID),
		})
	}
	return t.Render()
}

// FormatCompPlan renders a plan's terms and computed outputs.
func FormatCompPlan(plan *domain.CompPlan, symbol string) string {
	var b strings.Builder
	b.WriteString(Header("Payment plan"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s\n", RenderSplit(plan.UpfrontPayment, 20, plan.IsDeferred))
	fmt.Fprintf(&b, "  Timing:   %s\n", plan.UpfrontTiming)

	out := plan.Outputs
	if out == nil {
		b.WriteString(Dim("  Outputs not computed.") + "\n")
		return b.String()
	}
	fmt.Fprintf(&b, "  Total:    %s\n", Money(symbol, out.TotalValue))
	fmt.Fprintf(&b, "  Upfront:  %s\n", Money(symbol, out.UpfrontAmount))
	if !plan.IsDeferred {
		fmt.Fprintf(&b, "  On completion: %s\n", Money(symbol, out.CompletionAmount))
		return b.String()
	}

	fmt.Fprintf(&b, "  Deferred: %s (equity %s)\n", Money(symbol, out.DeferredBase), Money(symbol, out.EquityAmount))
	if len(out.Milestones) > 0 {
		t := Table{Headers: []string{"Milestone", "Target", "Multiplier", "Payout"}, Right: map[int]bool{2: true, 3: true}}
		for _, m := range out.Milestones {
			t.Rows = append(t.Rows, []string{m.Summary, m.TargetDate, fmt.Sprintf("%g×", m.Multiplier), Money(symbol, m.Payout)})
		}
		b.WriteString(t.Render())
	}
	fmt.Fprintf(&b, "  Range:    %s to %s\n", Money(symbol, out.MinPayout), Money(symbol, out.MaxPayout))
	fmt.Fprintf(&b, "  If missed (%s): %s\n", plan.MissOutcome, Money(symbol, out.MissAmount))
	return b.String()
}

// FormatDeliverables renders the catalog deliverables.
func FormatDeliverables(ds []*domain.Deliverable, symbol string) string {
	if len(ds) == 0 {
		return "No deliverables found.\n"
	}
	t := Table{
		Headers: []string{"Name", "Category", "Points", "Hours", "Price", "Active", "ID"},
		Right:   map[int]bool{2: true, 3: true, 4: true},
	}
	for _, d := range ds {
		active := StyleGreen.Render("yes")
		if !d.Active {
			active = StyleRed.Render("no")
		}
		t.Rows = append(t.Rows, []string{
			Truncate(d.Name, 36),
			d.Category,
			Number(d.PointEstimate),
			Number(d.FixedHours),
			Money(symbol, d.FixedPrice),
			active,
			Dim(d.ID),
		})
	}
	return t.Render()
}

// FormatPackages renders packages with their item counts.
func FormatPackages(ps []*domain.Package) string {
	if len(ps) == 0 {
		return "No packages found.\n"
	}
	t := Table{Headers: []string{"Slug", "Name", "Items", "Featured", "Tagline"}, Right: map[int]bool{2: true}}
	for _, p := range ps {
		featured := ""
		if p.Featured {
			featured = StyleYellow.Render("★")
		}
		t.Rows = append(t.Rows, []string{p.Slug, p.Name, strconv.Itoa(len(p.Items)), featured, Truncate(p.Tagline, 48)})
	}
	return t.Render()
}

// FormatRun renders a proposal run audit record, raw response included.
func FormatRun(r *domain.ProposalRun) string {
	var b strings.Builder
	b.WriteString(Header("Proposal run"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  ID:         %s\n", r.ID)
	fmt.Fprintf(&b, "  Status:     %s\n", RunPill(r.Status))
	fmt.Fprintf(&b, "  Submission: %s\n", r.SubmissionID)
	fmt.Fprintf(&b, "  Model:      %s\n", r.Model)
	fmt.Fprintf(&b, "  Tokens:     %d prompt, %d completion\n", r.PromptTokens, r.CompletionTokens)
	fmt.Fprintf(&b, "  Latency:    %dms\n", r.LatencyMs)
	if r.SprintID != nil {
		fmt.Fprintf(&b, "  Sprint:     %s\n", *r.SprintID)
	}
	if r.Error != "" {
		fmt.Fprintf(&b, "  Error:      %s\n", StyleRed.Render(r.Error))
	}
	if r.RawResponse != "" {
		b.WriteString("\n")
		b.WriteString(RenderBox("Raw response", r.RawResponse))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatProfile renders the populated fields of a client profile.
func FormatProfile(p domain.ClientProfile) string {
	var b strings.Builder
	b.WriteString(Header("Client profile"))
	b.WriteString("\n")
	field := func(label, v string) {
		if v != "" {
			fmt.Fprintf(&b, "  %-14s %s\n", label+":", v)
		}
	}
	field("Project", p.ProjectName)
	field("Name", p.FullName)
	field("Email", p.Email)
	field("Stage", p.CurrentStage)
	field("Team size", p.TeamSize)
	field("Timeline", p.Timeline)
	field("Help needed", p.HelpNeeded)
	field("Designs", p.ExistingDesigns)
	field("Roles", strings.Join(p.Roles, ", "))
	field("Priorities", strings.Join(p.PrioritizedDeliverables, ", "))
	field("Use cases", strings.Join(p.MainUseCases, ", "))
	field("Description", p.ProjectDescription)
	return b.String()
}
