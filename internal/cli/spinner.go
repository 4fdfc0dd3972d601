package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/sprintdesk/internal/cli/formatter"
)

type workDoneMsg struct{ err error }

// spinnerModel animates while a single blocking call runs. Ctrl+C cancels
// the call's context; the model still waits for it to return.
type spinnerModel struct {
	spinner  spinner.Model
	message  string
	work     tea.Cmd
	cancel   context.CancelFunc
	done     bool
	err      error
	canceled bool
}

func newSpinnerModel(message string, work tea.Cmd, cancel context.CancelFunc) spinnerModel {
	return spinnerModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple)),
		message: message,
		work:    work,
		cancel:  cancel,
	}
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC && !m.canceled {
			m.canceled = true
			m.message = "cancelling…"
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("  %s %s\n", m.spinner.View(), formatter.Dim(m.message))
}

// withSpinner runs fn, animating a spinner on out when it is a terminal.
func withSpinner(ctx context.Context, out io.Writer, message string, fn func(ctx context.Context) error) error {
	if !isTerminal(out) {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	work := func() tea.Msg { return workDoneMsg{err: fn(ctx)} }

	final, err := tea.NewProgram(newSpinnerModel(message, work, cancel), tea.WithOutput(out)).Run()
	if err != nil {
		return fmt.Errorf("running progress display: %w", err)
	}
	return final.(spinnerModel).err
}
