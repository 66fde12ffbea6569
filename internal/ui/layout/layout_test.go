package layout

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(MinWidth-1, MinHeight))
	assert.True(t, IsTooSmall(MinWidth, MinHeight-1))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Roadmap", 3, 690, 2, 80)
	assert.Contains(t, h, "DevPath")
	assert.Contains(t, h, "Nv 3 · 690 XP")
	assert.Equal(t, 3, lipgloss.Height(h))
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("", 1, 0, 0, 70)
	footer := RenderFooter([]KeyHint{{Key: "q", Description: "Sair"}}, 70)
	frame := RenderFrame(header, "conteúdo", footer, 70, 20)
	assert.Equal(t, 20, lipgloss.Height(frame))
}
