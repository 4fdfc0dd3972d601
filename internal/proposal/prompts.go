package proposal

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/pricing"
)

const systemPrompt = `You are the proposal planner for a product design and engineering studio.
You read a prospective client's intake form and recommend a first sprint built ONLY from the studio catalog provided.

RULES:
- Output a single JSON object and nothing else. No markdown, no commentary.
- Recommend EITHER one package (sprintPackageId) OR a list of deliverables, never both.
- Every id you output must appear verbatim in the catalog. Never invent ids, names or prices.
- quantity is a whole number >= 1.
- complexity is one of 0.75 (Simple), 1.0 (Normal), 1.5 (Complex), 2.0 (Very Complex).
- Keep the title under 80 characters and the summary under 600 characters.`

const baseInstructions = `Return JSON with this shape:
{
  "title": "short sprint title",
  "summary": "two or three sentences on what the sprint delivers and why",
  "sprintPackageId": "package id or empty string",
  "deliverables": [
    {"id": "deliverable id", "quantity": 1, "complexity": 1.0, "notes": "optional scope notes for this client"}
  ]
}

Prefer a package when one fits the client's stage and priorities. Otherwise pick the smallest set of deliverables that covers the client's top priorities.`

// buildGrounding enumerates the active catalog with ids, economics and scope.
func buildGrounding(cfg pricing.Config, deliverables []*domain.Deliverable, packages []*domain.Package) string {
	var b strings.Builder

	b.WriteString("CATALOG: DELIVERABLES (id | name | category | points | hours | price | scope)\n")
	if len(deliverables) == 0 {
		b.WriteString("(none)\n")
	}
	for _, d := range deliverables {
		base := cfg.Base(*d)
		fmt.Fprintf(&b, "- %s | %s | %s | %s | %s | %s%s | %s\n",
			d.ID, d.Name, orDash(d.Category),
			trimFloat(base.Points), trimFloat(base.Hours), cfg.CurrencySymbol, trimFloat(base.Price),
			oneLine(d.Scope))
	}

	byID := make(map[string]*domain.Deliverable, len(deliverables))
	for _, d := range deliverables {
		byID[d.ID] = d
	}

	b.WriteString("\nCATALOG: PACKAGES (id | slug | name | tagline | items)\n")
	if len(packages) == 0 {
		b.WriteString("(none)\n")
	}
	for _, p := range packages {
		var items []string
		for _, it := range p.Items {
			d, ok := byID[it.DeliverableID]
			if !ok {
				continue
			}
			items = append(items, fmt.Sprintf("%dx %s", it.Quantity, d.Name))
		}
		fmt.Fprintf(&b, "- %s | %s | %s | %s | %s\n",
			p.ID, p.Slug, p.Name, orDash(oneLine(p.Tagline)), orDash(strings.Join(items, ", ")))
	}
	return b.String()
}

// buildClientContext renders the profile fields that were found. It
// returns "" for an empty profile.
func buildClientContext(p domain.ClientProfile) string {
	if p.IsEmpty() {
		return ""
	}
	var b strings.Builder
	b.WriteString("CLIENT CONTEXT\n")
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "- %s: %s\n", label, oneLine(value))
		}
	}
	listField := func(label string, values []string) {
		if len(values) > 0 {
			fmt.Fprintf(&b, "- %s: %s\n", label, strings.Join(values, ", "))
		}
	}
	field("Project", p.ProjectName)
	field("Contact", p.ContactName())
	field("Description", p.ProjectDescription)
	field("Stage", p.CurrentStage)
	listField("Roles", p.Roles)
	field("Team size", p.TeamSize)
	field("Help needed", p.HelpNeeded)
	field("Existing designs", p.ExistingDesigns)
	listField("Prioritized deliverables", p.PrioritizedDeliverables)
	listField("Main use cases", p.MainUseCases)
	field("Timeline", p.Timeline)
	return b.String()
}

func buildUserPrompt(grounding, clientContext string) string {
	parts := []string{baseInstructions, grounding}
	if clientContext != "" {
		parts = append(parts, clientContext)
	}
	return strings.Join(parts, "\n\n")
}

func buildDocumentMessage(payload []byte) string {
	return "INTAKE SUBMISSION (raw JSON):\n" + string(payload)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func trimFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
