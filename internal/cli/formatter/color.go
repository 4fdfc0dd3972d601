package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SprintStatusStyle colors a sprint by how far it is through review.
func SprintStatusStyle(s domain.SprintStatus) lipgloss.Style {
	switch s {
	case domain.SprintAccepted:
		return StyleGreen
	case domain.SprintSent:
		return StyleBlue
	case domain.SprintStudioReview:
		return StyleYellow
	case domain.SprintDeclined:
		return StyleRed
	default:
		return StyleDim
	}
}

// StatusPill renders a sprint status such as "● STUDIO REVIEW".
func StatusPill(s domain.SprintStatus) string {
	label := strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
	return SprintStatusStyle(s).Render("● " + label)
}

// RunPill renders a proposal run status.
func RunPill(s domain.RunStatus) string {
	style := StyleDim
	switch s {
	case domain.RunSucceeded:
		style = StyleGreen
	case domain.RunUnusable, domain.RunEmpty:
		style = StyleYellow
	case domain.RunFailed:
		style = StyleRed
	}
	return style.Render("● " + strings.ToUpper(string(s)))
}

// ComplexityLabel renders a multiplier with its label, e.g. "1.5× Complex".
func ComplexityLabel(c domain.Complexity) string {
	style := StyleFg
	if c > domain.ComplexityNormal {
		style = StylePurple
	}
	return style.Render(fmt.Sprintf("%g× %s", float64(c), c.Label()))
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
