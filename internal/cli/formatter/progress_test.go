package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderScoreBar(t *testing.T) {
	tests := []struct {
		name   string
		score  int
		filled int
		label  string
	}{
		{"zero", 0, 0, "  0"},
		{"half", 50, 5, " 50"},
		{"full", 100, 10, "100"},
		{"clamps high", 140, 10, "100"},
		{"clamps low", -5, 0, "  0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderScoreBar(tt.score, 10))
			assert.Equal(t, tt.filled, strings.Count(got, filledBlock))
			assert.Equal(t, 10-tt.filled, strings.Count(got, emptyBlock))
			assert.True(t, strings.HasSuffix(got, tt.label), got)
		})
	}
}

func TestRenderShareBar(t *testing.T) {
	got := stripANSI(RenderShareBar(1, 4, 8))
	assert.Equal(t, 2, strings.Count(got, filledBlock))
	assert.Equal(t, 6, strings.Count(got, emptyBlock))

	assert.Equal(t, 4, strings.Count(stripANSI(RenderShareBar(0, 0, 4)), emptyBlock))
}
