package intake

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// Rule assigns an answer to a profile field when its question title
// matches. Rules are evaluated in order and the first match wins.
type Rule struct {
	Name  string
	Match func(title string) bool
	Apply func(p *domain.ClientProfile, a Answer)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// titleContains matches case-insensitively on any of the given fragments.
func titleContains(fragments ...string) func(string) bool {
	return func(title string) bool {
		t := strings.ToLower(title)
		for _, f := range fragments {
			if strings.Contains(t, f) {
				return true
			}
		}
		return false
	}
}

// single sets a string field from the first value if still empty.
func single(field func(p *domain.ClientProfile) *string) func(*domain.ClientProfile, Answer) {
	return func(p *domain.ClientProfile, a Answer) {
		dst := field(p)
		if *dst == "" && len(a.Values) > 0 {
			*dst = a.Values[0]
		}
	}
}

// list sets a list field from all values if still empty.
func list(field func(p *domain.ClientProfile) *[]string) func(*domain.ClientProfile, Answer) {
	return func(p *domain.ClientProfile, a Answer) {
		dst := field(p)
		if len(*dst) == 0 && len(a.Values) > 0 {
			*dst = append([]string(nil), a.Values...)
		}
	}
}

// DefaultRules is the studio intake form mapping. Order matters: narrower
// titles come before the broad fragments that would also match them.
var DefaultRules = []Rule{
	{
		Name:  "project_name",
		Match: titleContains("project name", "project called", "name of your project", "company name", "product name", "startup name"),
		Apply: single(func(p *domain.ClientProfile) *string { return &p.ProjectName }),
	},
	// Claims email questions so they never fall through to a name rule.
	// The address itself comes from the email-shape pass in Normalize.
	{
		Name:  "email",
		Match: titleContains("email", "e-mail"),
		Apply: func(p *domain.ClientProfile, a Answer) {},
	},
	{
		Name:  "first_name",
		Match: titleContains("first name", "given name"),
		Apply: single(func(p *domain.ClientProfile) *string { return &p.FirstName }),
	},
	{
		Name:  "last_name",
		Match: titleContains("last name", "surname", "family name"),
		Apply: single(func(p *domain.ClientProfile) *string { return &p.LastName }),
	},
	{
		Name:  "full_name",
		Match: titleContains("full name", "your name", "name"),
		Apply: single(func(p *domain.ClientProfile) *string { return &p.FullName }),
	},
	{
		Name:  "prioritized_deliverables",
		Match: titleContains("deliverable", "prioriti"),
		Apply: list(func(p *domain.ClientProfile) *[]string { return &p.PrioritizedDeliverables }),
	},
	{
		Name:  "main_use_cases",
		Match: titleContains("use case"),
		Apply: list(func(p *domain.ClientProfile) *[]string { return &p.MainUseCases }),
	},
	{
		Name:  "existing_designs",
		Match: titleContains("existing design", "designs already", "have designs", "any designs"),
		Apply: single(func(p *domain.ClientProfile) *string { return &p.ExistingDesigns }),
	},
	{
		Name:  "current_stage",
		Match: titleContains("stage"),
		Apply: single(func(p *domain.ClientProfile) *string { return &p.CurrentStage }),
	},
	{
		Name:  "roles",
		Match: titleContains("role"),
		Apply: list(func(p *domain.ClientProfile) *[]string { return &p.Roles }),
	},
	{
		Name:  "team_size",
		Match: titleContains("team size", "how many people", "size of your team", "team"),
		Apply: single(func(p *domain.ClientProfile) *string { return &p.TeamSize }),
	},
	{
		Name:  "timeline",
		Match: titleContains("timeline", "deadline", "when do you", "how soon"),
		Apply: single(func(p *domain.ClientProfile) *string { return &p.Timeline }),
	},
	{
		Name:  "help_needed",
		Match: titleContains("help", "looking for", "need from us"),
		Apply: single(func(p *domain.ClientProfile) *string { return &p.HelpNeeded }),
	},
	{
		Name:  "project_description",
		Match: titleContains("describe", "description", "tell us about", "about your project", "what are you building"),
		Apply: single(func(p *domain.ClientProfile) *string { return &p.ProjectDescription }),
	},
}

// Normalizer applies an ordered rule list to a document.
type Normalizer struct {
	Rules []Rule
}

// New returns a Normalizer using DefaultRules.
func New() *Normalizer {
	return &Normalizer{Rules: DefaultRules}
}

// Normalize extracts a profile from an untyped document. It never fails.
func (n *Normalizer) Normalize(doc any) domain.ClientProfile {
	var p domain.ClientProfile
	answers := Answers(doc)

	for _, a := range answers {
		for _, r := range n.Rules {
			if r.Match(a.Title) {
				r.Apply(&p, a)
				break
			}
		}
	}

	// An email-shaped value wins regardless of the question it answers.
	// Recognized answers are checked first, then any string in the document.
	for _, a := range answers {
		for _, v := range a.Values {
			if IsEmail(v) {
				p.Email = strings.ToLower(strings.TrimSpace(v))
				return finish(p)
			}
		}
	}
	for _, v := range stringLeaves(doc) {
		if IsEmail(v) {
			p.Email = strings.ToLower(strings.TrimSpace(v))
			break
		}
	}
	return finish(p)
}

// NormalizeJSON decodes raw and normalizes it. Invalid JSON yields an
// empty profile.
func (n *Normalizer) NormalizeJSON(raw []byte) domain.ClientProfile {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.ClientProfile{}
	}
	return n.Normalize(doc)
}

func finish(p domain.ClientProfile) domain.ClientProfile {
	if p.FullName == "" && (p.FirstName != "" || p.LastName != "") {
		p.FullName = strings.TrimSpace(p.FirstName + " " + p.LastName)
	}
	return p
}
