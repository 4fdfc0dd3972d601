package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tallyPayload = `{
  "eventId": "evt_1",
  "eventType": "FORM_RESPONSE",
  "data": {
    "formName": "Studio intake",
    "fields": [
      {"key": "q1", "label": "What's your project called?", "type": "INPUT_TEXT", "value": "  Orbit  "},
      {"key": "q2", "label": "First name", "type": "INPUT_TEXT", "value": "Grace"},
      {"key": "q3", "label": "Last name", "type": "INPUT_TEXT", "value": "Hopper"},
      {"key": "q4", "label": "Work email", "type": "INPUT_EMAIL", "value": "Grace@Example.com"},
      {"key": "q5", "label": "Which best describes your role?", "type": "CHECKBOXES",
       "value": ["opt-eng", "opt-founder"],
       "options": [{"id": "opt-founder", "text": "Founder"}, {"id": "opt-eng", "text": "Engineer"}, {"id": "opt-pm", "text": "PM"}]},
      {"key": "q6", "label": "What stage are you at?", "type": "MULTIPLE_CHOICE",
       "value": ["opt-mvp"],
       "options": [{"id": "opt-idea", "text": "Idea"}, {"id": "opt-mvp", "text": "MVP"}]},
      {"key": "q7", "label": "Team size", "type": "DROPDOWN", "value": "2-5"},
      {"key": "q8", "label": "Which deliverables matter most?", "type": "RANKING", "value": ["Brand", "Web app"]},
      {"key": "q9", "label": "Tell us about the project", "type": "TEXTAREA", "value": "A scheduling tool\n"},
      {"key": "q10", "label": "What's your timeline?", "type": "DROPDOWN", "value": "1-3 months"},
      {"key": "q11", "label": "Do you have existing designs?", "type": "MULTIPLE_CHOICE", "value": "Some wireframes"},
      {"key": "q12", "label": "What do you need help with?", "type": "DROPDOWN", "value": "Product design"},
      {"key": "q13", "label": "Main use cases", "type": "CHECKBOXES", "value": ["Scheduling", "Billing"]},
      {"key": "q14", "label": "Anything else?", "type": "TEXTAREA", "value": null}
    ]
  }
}`

func TestNormalizeJSON_ProviderPayload(t *testing.T) {
	p := New().NormalizeJSON([]byte(tallyPayload))

	assert.Equal(t, "Orbit", p.ProjectName)
	assert.Equal(t, "Grace", p.FirstName)
	assert.Equal(t, "Hopper", p.LastName)
	assert.Equal(t, "Grace Hopper", p.FullName)
	assert.Equal(t, "grace@example.com", p.Email)
	assert.Equal(t, []string{"Founder", "Engineer"}, p.Roles, "multi-choice follows option order")
	assert.Equal(t, "MVP", p.CurrentStage, "single choice collapses to its label")
	assert.Equal(t, "2-5", p.TeamSize)
	assert.Equal(t, []string{"Brand", "Web app"}, p.PrioritizedDeliverables)
	assert.Equal(t, "A scheduling tool", p.ProjectDescription, "free text is trimmed")
	assert.Equal(t, "1-3 months", p.Timeline)
	assert.Equal(t, "Some wireframes", p.ExistingDesigns)
	assert.Equal(t, "Product design", p.HelpNeeded)
	assert.Equal(t, []string{"Scheduling", "Billing"}, p.MainUseCases)
}

const typeformPayload = `{
  "event_type": "form_response",
  "form_response": {
    "form_id": "abc",
    "definition": {
      "id": "abc",
      "title": "Studio intake",
      "fields": [
        {"id": "f1", "ref": "project", "title": "What is your project name?", "type": "short_text"},
        {"id": "f2", "title": "Where can we send the proposal?", "type": "email"},
        {"id": "f3", "title": "Which best describes your role?", "type": "multiple_choice",
         "choices": [{"id": "c1", "label": "Founder"}, {"id": "c2", "label": "Engineer"}, {"id": "c3", "label": "PM"}]},
        {"id": "f4", "title": "What stage are you at?", "type": "multiple_choice",
         "choices": [{"id": "c4", "label": "Idea"}, {"id": "c5", "label": "MVP"}]},
        {"id": "f5", "title": "Team size", "type": "number"},
        {"id": "f6", "title": "Do you have existing designs?", "type": "yes_no"},
        {"id": "f7", "title": "First name", "type": "short_text"}
      ]
    },
    "answers": [
      {"type": "text", "text": " Orbit ", "field": {"id": "f1", "type": "short_text", "ref": "project"}},
      {"type": "email", "email": "Ada@Example.com", "field": {"id": "f2", "type": "email"}},
      {"type": "choices", "choices": {"labels": ["Engineer", "Founder"]}, "field": {"id": "f3", "type": "multiple_choice"}},
      {"type": "choice", "choice": {"label": "MVP"}, "field": {"id": "f4", "type": "multiple_choice"}},
      {"type": "number", "number": 4, "field": {"id": "f5", "type": "number"}},
      {"type": "boolean", "boolean": true, "field": {"id": "f6", "type": "yes_no"}},
      {"type": "text", "text": "Ada", "field": {"ref": "missing", "id": "f7"}},
      {"type": "text", "text": "ignored", "field": {"id": "unknown"}}
    ]
  }
}`

func TestNormalizeJSON_AnswersJoinedToDefinitionsByFieldID(t *testing.T) {
	p := New().NormalizeJSON([]byte(typeformPayload))

	assert.Equal(t, "Orbit", p.ProjectName)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.Equal(t, []string{"Founder", "Engineer"}, p.Roles, "choices follow definition order")
	assert.Equal(t, "MVP", p.CurrentStage)
	assert.Equal(t, "4", p.TeamSize)
	assert.Equal(t, "Yes", p.ExistingDesigns)
	assert.Equal(t, "Ada", p.FirstName)
	assert.Equal(t, "Ada", p.ContactName())
}

func TestNormalize_EmailFoundOutsideRecognizedAnswers(t *testing.T) {
	doc := map[string]any{
		"hidden":  map[string]any{"contact": " Ada@Example.com "},
		"answers": []any{map[string]any{"question": "Project name", "answer": "Orbit"}},
	}
	p := New().Normalize(doc)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.Equal(t, "Orbit", p.ProjectName)

	doc["answers"] = []any{map[string]any{"question": "Contact", "answer": "grace@example.com"}}
	assert.Equal(t, "grace@example.com", New().Normalize(doc).Email, "answers are checked before other strings")
}

func TestNormalize_EmailShapedAnswerWinsRegardlessOfQuestion(t *testing.T) {
	doc := map[string]any{
		"answers": []any{
			map[string]any{"question": "Your name", "answer": "Linus"},
			map[string]any{"question": "How can we reach you?", "answer": "linus@example.org"},
			map[string]any{"question": "Email", "answer": "not an address"},
		},
	}
	p := New().Normalize(doc)

	assert.Equal(t, "linus@example.org", p.Email)
	assert.Equal(t, "Linus", p.FullName)
	assert.Equal(t, "Linus", p.ContactName())
}

func TestNormalize_TitleMatchingIsCaseInsensitiveSubstring(t *testing.T) {
	doc := []any{
		map[string]any{"title": "PROJECT NAME (working title is fine)", "value": "Helios"},
		map[string]any{"title": "your Current STAGE", "value": "Seed"},
	}
	p := New().Normalize(doc)

	assert.Equal(t, "Helios", p.ProjectName)
	assert.Equal(t, "Seed", p.CurrentStage)
}

func TestNormalize_FirstValueWins(t *testing.T) {
	doc := []any{
		map[string]any{"label": "Project name", "value": "First"},
		map[string]any{"label": "Project name (again)", "value": "Second"},
	}
	assert.Equal(t, "First", New().Normalize(doc).ProjectName)
}

func TestNormalize_TotalOnUnexpectedShapes(t *testing.T) {
	inputs := []any{
		nil,
		"just a string",
		42.0,
		[]any{1.0, "x", nil},
		map[string]any{"label": 5, "value": "x"},
		map[string]any{"fields": "not a list"},
		map[string]any{"label": "Roles", "value": map[string]any{"unexpected": true}},
		map[string]any{"label": "Role", "value": []any{nil, map[string]any{}, true}, "options": "bad"},
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { New().Normalize(in) })
	}

	assert.True(t, New().NormalizeJSON([]byte(`{not json`)).IsEmpty())
	assert.True(t, New().NormalizeJSON(nil).IsEmpty())
}

func TestAnswers_RuleListIsAuditable(t *testing.T) {
	names := make(map[string]bool)
	for _, r := range DefaultRules {
		require.NotEmpty(t, r.Name)
		assert.False(t, names[r.Name], "duplicate rule %s", r.Name)
		names[r.Name] = true
	}

	match := func(title string) string {
		for _, r := range DefaultRules {
			if r.Match(title) {
				return r.Name
			}
		}
		return ""
	}
	assert.Equal(t, "project_name", match("What is your company name?"))
	assert.Equal(t, "email", match("Email address"))
	assert.Equal(t, "prioritized_deliverables", match("Which deliverables do you need help with?"))
	assert.Equal(t, "current_stage", match("What stage is your team at?"))
	assert.Equal(t, "full_name", match("Your name"))
	assert.Equal(t, "", match("Favourite colour"))
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("a@b.co"))
	assert.True(t, IsEmail(" a.b+c@d.example "))
	assert.False(t, IsEmail("a@b"))
	assert.False(t, IsEmail("not an email"))
	assert.False(t, IsEmail("a b@c.d"))
}
