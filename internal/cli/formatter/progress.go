package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderScoreBar renders a 0-100 score as "[██████░░░░]  62". The bar takes
// the color of the score's health band.
func RenderScoreBar(score, width int) string {
	score = min(max(score, 0), 100)
	width = max(width, 2)
	filled := score * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case score < 60:
		style = StyleRed
	case score < 85:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3d", style.Render(bar), score)
}

// RenderShareBar renders n out of total as a plain bar with no label.
func RenderShareBar(n, total, width int) string {
	width = max(width, 2)
	filled := 0
	if total > 0 {
		filled = min(n*width/total, width)
	}
	return StyleBlue.Render(strings.Repeat(filledBlock, filled)) + StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}
