package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/alexanderramin/sprintdesk/internal/pricing"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// Money formats an amount with grouping, e.g. "$12,500.00".
func Money(symbol string, v float64) string {
	return printer.Sprintf("%s%.2f", symbol, pricing.RoundCents(v))
}

// Number renders points and hours with at most two decimals and no
// trailing zeros.
func Number(v float64) string {
	return strconv.FormatFloat(pricing.RoundCents(v), 'f', -1, 64)
}

// HumanTimestamp returns a relative time for recent events, else a date.
func HumanTimestamp(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// Truncate shortens s to max runes, marking the cut with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(strings.TrimSpace(s))
	if max <= 1 || len(r) <= max {
		return string(r)
	}
	return string(r[:max-1]) + "…"
}
