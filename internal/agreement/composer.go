// Package agreement renders a sprint and its optional compensation plan
// into a markdown services agreement. It formats amounts it is given and
// never recomputes sprint totals or plan outputs.
package agreement

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/pricing"
)

var (
	// ErrUnresolvedPlaceholder indicates a template marker had no value.
	ErrUnresolvedPlaceholder = errors.New("unresolved template placeholder")

	// ErrMissingOutputs indicates a comp plan without computed outputs.
	ErrMissingOutputs = errors.New("comp plan has no computed outputs")

	// ErrStaleOutputs indicates plan outputs computed for a different total
	// than the sprint's.
	ErrStaleOutputs = errors.New("comp plan outputs do not match the sprint total")
)

// StudioInfo is the studio side of the agreement.
type StudioInfo struct {
	Name           string `env:"NAME" envDefault:"The Studio"`
	Signatory      string `env:"SIGNATORY" envDefault:"Studio Director"`
	SignatoryTitle string `env:"SIGNATORY_TITLE" envDefault:"Director"`
	Email          string `env:"EMAIL" envDefault:"hello@studio.example"`
	Jurisdiction   string `env:"JURISDICTION" envDefault:"the State of Delaware"`
}

// LineView is a sprint line with the catalog scope resolved by the caller:
// the live catalog text when the line is still linked, else its snapshot.
type LineView struct {
	Line         domain.SprintLine
	CatalogScope string
}

// Input is everything one agreement is rendered from.
type Input struct {
	Sprint        domain.Sprint
	Lines         []LineView
	Plan          *domain.CompPlan
	EffectiveDate string
}

// Document is a rendered agreement. GeneratedAt is kept apart from Text so
// identical input always yields identical Text.
type Document struct {
	Text        string
	GeneratedAt time.Time
}

// Composer renders agreements.
type Composer struct {
	Pricing pricing.Config
	Studio  StudioInfo
	Now     func() time.Time
}

var printer = message.NewPrinter(language.AmericanEnglish)

func NewComposer(cfg pricing.Config, studio StudioInfo) *Composer {
	return &Composer{
		Pricing: cfg,
		Studio:  studio,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

// Compose renders the agreement for in.
func (c *Composer) Compose(in Input) (Document, error) {
	var outputs *domain.CompOutputs
	if in.Plan != nil {
		if in.Plan.Outputs == nil {
			return Document{}, ErrMissingOutputs
		}
		outputs = in.Plan.Outputs
		if pricing.RoundCents(outputs.TotalValue) != pricing.RoundCents(in.Sprint.TotalPrice) {
			return Document{}, fmt.Errorf("%w: plan %s, sprint %s",
				ErrStaleOutputs, c.money(outputs.TotalValue), c.money(in.Sprint.TotalPrice))
		}
	}

	s := in.Sprint
	clientName := domain.FirstNonBlank(s.ClientName, s.ClientEmail, "Client")
	vals := map[string]string{
		"studio_name":            domain.FirstNonBlank(c.Studio.Name, "Studio"),
		"studio_signatory":       domain.FirstNonBlank(c.Studio.Signatory, "______________________________"),
		"studio_signatory_title": domain.FirstNonBlank(c.Studio.SignatoryTitle, "______________________________"),
		"studio_email":           domain.FirstNonBlank(c.Studio.Email, "the address on file"),
		"jurisdiction":           domain.FirstNonBlank(c.Studio.Jurisdiction, "the Studio's principal place of business"),
		"client_name":            clientName,
		"client_contact":         domain.FirstNonBlank(s.ClientName, "______________________________"),
		"client_email":           domain.FirstNonBlank(s.ClientEmail, "______________________________"),
		"project_name":           domain.FirstNonBlank(s.ProjectName, s.Title),
		"sprint_title":           domain.FirstNonBlank(s.Title, domain.DefaultSprintTitle),
		"effective_date":         domain.FirstNonBlank(in.EffectiveDate, "the date of the last signature below"),
		"deliverable_count":      fmt.Sprintf("%d", s.DeliverableCount),
		"total_hours":            printer.Sprintf("%.1f", s.TotalHours),
		"total_price":            c.money(s.TotalPrice),
		"summary":                "",
		"deliverables_table":     c.deliverablesTable(s, in.Lines),
		"payment_terms":          c.paymentTerms(s, in.Plan, outputs),
		"compensation_section":   c.compensationSection(in.Plan, outputs),
	}
	if sum := strings.TrimSpace(s.Summary); sum != "" {
		vals["summary"] = "\n\n" + sum
	}

	sig, err := fill(signatureTemplate, vals)
	if err != nil {
		return Document{}, err
	}
	vals["signature_block"] = sig

	text, err := fill(agreementTemplate, vals)
	if err != nil {
		return Document{}, err
	}
	now := time.Now().UTC()
	if c.Now != nil {
		now = c.Now()
	}
	return Document{Text: text, GeneratedAt: now}, nil
}

var placeholder = regexp.MustCompile(`\{\{\s*([a-z_]+)\s*\}\}`)

// fill substitutes every placeholder in tmpl. Values are not rescanned, and
// braces inside them are broken up so output never carries a marker.
func fill(tmpl string, vals map[string]string) (string, error) {
	var missing []string
	out := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		v, ok := vals[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return strings.ReplaceAll(v, "{{", "{ {")
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrUnresolvedPlaceholder, strings.Join(missing, ", "))
	}
	if strings.Contains(out, "{{") {
		return "", fmt.Errorf("%w: malformed marker", ErrUnresolvedPlaceholder)
	}
	return out, nil
}

func (c *Composer) money(v float64) string {
	return printer.Sprintf("%s%.2f", c.Pricing.CurrencySymbol, pricing.RoundCents(v))
}

func percent(f float64) string {
	return fmt.Sprintf("%.0f%%", math.Round(f*100))
}

func (c *Composer) deliverablesTable(s domain.Sprint, lines []LineView) string {
	if len(lines) == 0 {
		return "_No deliverables have been added to this sprint._"
	}
	var b strings.Builder
	b.WriteString("| # | Deliverable | Scope | Qty | Complexity | Hours | Price |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for i, lv := range lines {
		l := lv.Line
		scope := domain.FirstNonBlank(l.Notes, l.CustomScope, lv.CatalogScope, "—")
		fmt.Fprintf(&b, "| %d | %s | %s | %d | %s | %s | %s |\n",
			i+1, cell(l.NameSnapshot), cell(scope), l.Quantity, l.Complexity.Label(),
			printer.Sprintf("%.1f", l.CustomHours), c.money(l.CustomPrice))
	}
	fmt.Fprintf(&b, "| | **Total** | | %d | | %s | **%s** |",
		s.DeliverableCount, printer.Sprintf("%.1f", s.TotalHours), c.money(s.TotalPrice))
	return b.String()
}

// cell makes text safe inside a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", "<br>")
	return strings.ReplaceAll(s, "|", `\|`)
}

func (c *Composer) fullPayment(total float64, phrase string) string {
	return fmt.Sprintf("Client will pay the full fee of %s in a single payment due %s.", c.money(total), phrase)
}

func (c *Composer) paymentTerms(s domain.Sprint, plan *domain.CompPlan, out *domain.CompOutputs) string {
	if plan == nil {
		kickoff := domain.TimingOnKickoff.Phrase()
		if c.Pricing.FullUpfront() {
			return c.fullPayment(s.TotalPrice, kickoff)
		}
		upfront := pricing.RoundCents(s.TotalPrice * c.Pricing.DefaultUpfront)
		rest := pricing.RoundCents(s.TotalPrice - upfront)
		return fmt.Sprintf("- %s of the fee (%s) is due %s.\n- %s of the fee (%s) is due on completion of the deliverables in Section 1.",
			percent(c.Pricing.DefaultUpfront), c.money(upfront), kickoff,
			percent(1-c.Pricing.DefaultUpfront), c.money(rest))
	}

	total := out.TotalValue
	phrase := plan.UpfrontTiming.Phrase()

	if !plan.IsDeferred {
		switch {
		case c.Pricing.Negligible(out.CompletionAmount, total):
			return c.fullPayment(total, phrase)
		case c.Pricing.Negligible(out.UpfrontAmount, total):
			return c.fullPayment(total, "on completion of the deliverables in Section 1")
		}
		return fmt.Sprintf("- %s of the fee (%s) is due %s.\n- %s of the fee (%s) is due on completion of the deliverables in Section 1.",
			percent(plan.UpfrontPayment), c.money(out.UpfrontAmount), phrase,
			percent(1-plan.UpfrontPayment), c.money(out.CompletionAmount))
	}

	equityZero := c.Pricing.Negligible(out.EquityAmount, total)
	deferredZero := c.Pricing.Negligible(out.DeferredBase, total)
	if equityZero && deferredZero {
		return c.fullPayment(total, phrase)
	}

	rest := 1 - plan.UpfrontPayment
	var b strings.Builder
	fmt.Fprintf(&b, "The total value of this engagement is %s, payable as follows:\n\n", c.money(total))
	b.WriteString("| Component | Share | Amount | Timing |\n")
	b.WriteString("|---|---|---|---|\n")
	if !c.Pricing.Negligible(out.UpfrontAmount, total) {
		fmt.Fprintf(&b, "| Upfront cash | %s | %s | Due %s |\n", percent(plan.UpfrontPayment), c.money(out.UpfrontAmount), phrase)
	}
	if !equityZero {
		fmt.Fprintf(&b, "| Equity | %s | %s | See Section 2.1 |\n", percent(rest*plan.EquitySplit), c.money(out.EquityAmount))
	}
	if !deferredZero {
		fmt.Fprintf(&b, "| Deferred cash | %s | %s | See Section 2.1 |\n", percent(rest*(1-plan.EquitySplit)), c.money(out.DeferredBase))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Composer) compensationSection(plan *domain.CompPlan, out *domain.CompOutputs) string {
	if plan == nil || !plan.IsDeferred {
		return ""
	}
	total := out.TotalValue
	equityZero := c.Pricing.Negligible(out.EquityAmount, total)
	deferredZero := c.Pricing.Negligible(out.DeferredBase, total)
	if equityZero && deferredZero {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n### 2.1 Compensation Structure\n\n")
	if !equityZero {
		fmt.Fprintf(&b, "Equity valued at %s will be granted to Studio under a separate equity agreement executed within 30 days of the Effective Date.\n\n", c.money(out.EquityAmount))
	}
	if deferredZero {
		return b.String()
	}

	fmt.Fprintf(&b, "Deferred cash has a base amount of %s.", c.money(out.DeferredBase))
	if len(out.Milestones) == 0 {
		b.WriteString(" It is due within 30 days of completion of the deliverables in Section 1.\n")
		return b.String()
	}
	b.WriteString(" It is paid when the milestones below are achieved, multiplied by the milestone's payout multiplier.\n\n")
	b.WriteString("| Milestone | Target date | Multiplier | Payout |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, m := range out.Milestones {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			cell(domain.FirstNonBlank(m.Summary, "—")), cell(domain.FirstNonBlank(m.TargetDate, "—")),
			printer.Sprintf("%.2fx", m.Multiplier), c.money(m.Payout))
	}
	fmt.Fprintf(&b, "\nDeferred payout ranges from %s to %s depending on the milestones achieved.\n\n",
		c.money(out.MinPayout), c.money(out.MaxPayout))
	b.WriteString(c.missParagraph(plan.MissOutcome, out))
	b.WriteString("\n")
	return b.String()
}

func (c *Composer) missParagraph(outcome domain.MissOutcome, out *domain.CompOutputs) string {
	const lead = "If no milestone is achieved by its target date, "
	switch outcome {
	case domain.MissReduced50, domain.MissReduced20:
		return fmt.Sprintf("%sthe deferred amount is reduced to %s of the base, and Client will pay %s within 30 days of the last target date.",
			lead, percent(outcome.Retained()), c.money(out.MissAmount))
	case domain.MissStillOwed:
		return fmt.Sprintf("%sthe full deferred base of %s remains owed and is payable within 30 days of the last target date.",
			lead, c.money(out.MissAmount))
	case domain.MissRenegotiate:
		return lead + "the parties will negotiate revised milestones or payment terms in good faith within 30 days of the last target date."
	default:
		return lead + "the deferred amount is forgiven and no further cash payment is owed."
	}
}
