package cli

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/service"
)

func TestComplexityFlag(t *testing.T) {
	f := newComplexityFlag()
	assert.Equal(t, "1", f.String())
	require.NoError(t, f.Set("very-complex"))
	assert.Equal(t, domain.ComplexityVeryComplex, f.value)
	require.NoError(t, f.Set("0.75"))
	assert.Equal(t, domain.ComplexitySimple, f.value)
	assert.ErrorIs(t, f.Set("3"), domain.ErrInvalidComplexity)
	assert.Equal(t, "complexity", f.Type())
}

func TestParseFraction(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"0.4", 0.4, false},
		{"40%", 0.4, false},
		{" 1 ", 1, false},
		{"0", 0, false},
		{"1.2", 0, true},
		{"-5%", 0, true},
		{"half", 0, true},
		{"NaN", 0, true},
		{"Inf%", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFraction(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseMilestone(t *testing.T) {
	m, err := parseMilestone(" Public launch | 2026-06-30 | 1.5 ")
	require.NoError(t, err)
	assert.Equal(t, domain.Milestone{Summary: "Public launch", TargetDate: "2026-06-30", Multiplier: 1.5}, m)

	m, err = parseMilestone("Beta||2")
	require.NoError(t, err)
	assert.Empty(t, m.TargetDate)

	for _, bad := range []string{"Launch", " | 2026-06-30 | 2", "Launch | 30/06/2026 | 2", "Launch | | lots", "Launch | | NaN", "Launch | | +Inf"} {
		_, err := parseMilestone(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidCompPlan, bad)
	}
}

func TestCompAnswersPlan(t *testing.T) {
	a := defaultCompAnswers(0.5)
	p, err := a.plan()
	require.NoError(t, err)
	assert.False(t, p.IsDeferred)
	assert.Equal(t, 0.5, p.UpfrontPayment)
	assert.Equal(t, domain.TimingOnKickoff, p.UpfrontTiming)
	assert.Equal(t, domain.MissForgiven, p.MissOutcome)

	a.Deferred = true
	a.Equity = "25%"
	a.Milestones = "Launch | 2026-06-30 | 2\n\nSeries A | | 3\n"
	p, err = a.plan()
	require.NoError(t, err)
	assert.Equal(t, 0.25, p.EquitySplit)
	require.Len(t, p.Milestones, 2)
	assert.Equal(t, "Series A", p.Milestones[1].Summary)

	a.Upfront = "2"
	_, err = a.plan()
	assert.ErrorIs(t, err, domain.ErrInvalidCompPlan)

	assert.NoError(t, validateMilestones(""))
	assert.Error(t, validateMilestones("nope"))
	assert.NotNil(t, compPlanForm(&a))
}

func TestLineAt(t *testing.T) {
	d := &service.SprintDetail{Lines: []domain.SprintLine{{ID: "a"}, {ID: "b"}}}
	id, err := lineAt(d, 2)
	require.NoError(t, err)
	assert.Equal(t, "b", id)

	_, err = lineAt(d, 0)
	assert.Error(t, err)
	_, err = lineAt(d, 3)
	assert.Error(t, err)
}

func TestSpinnerModel(t *testing.T) {
	canceled := false
	m := newSpinnerModel("Generating proposal…", nil, func() { canceled = true })
	assert.Contains(t, m.View(), "Generating proposal…")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd)
	assert.True(t, canceled)
	assert.Contains(t, next.View(), "cancelling")

	boom := errors.New("boom")
	next, cmd = next.Update(workDoneMsg{err: boom})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	final := next.(spinnerModel)
	assert.True(t, final.done)
	assert.ErrorIs(t, final.err, boom)
	assert.Empty(t, final.View())
}

func TestFormatError(t *testing.T) {
	assert.Empty(t, FormatError(nil))
	assert.Equal(t, "sprint_locked: sprint is no longer editable", FormatError(domain.ErrSprintLocked))
	assert.Equal(t, "internal_error: boom", FormatError(errors.New("boom")))
}
