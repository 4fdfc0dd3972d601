package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderSplit renders the upfront share of a payment plan as a bar, e.g.
// [█████░░░░░] 50% upfront. The filled part is paid at the start, the rest
// on completion or deferred.
func RenderSplit(upfront float64, width int, deferred bool) string {
	if upfront < 0 {
		upfront = 0
	}
	if upfront > 1 {
		upfront = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(upfront*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	rest := StyleBlue
	if deferred {
		rest = StylePurple
	}
	bar := StyleGreen.Render(strings.Repeat(filledBlock, filled)) + rest.Render(strings.Repeat(emptyBlock, width-filled))
	return fmt.Sprintf("[%s] %3.0f%% upfront", bar, upfront*100)
}
