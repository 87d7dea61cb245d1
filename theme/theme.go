package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type RGB [3]uint8

// Theme holds the UI colours by role
type Theme struct {
	bg, fg, muted, accent, active, warning, success RGB
}

// New returns the default purple-to-yellow theme
func New() *Theme {
	return &Theme{
		bg:      RGB{13, 8, 135},
		fg:      RGB{204, 120, 200},
		muted:   RGB{110, 70, 150},
		accent:  RGB{220, 60, 200},
		active:  RGB{240, 100, 90},
		warning: RGB{250, 160, 40},
		success: RGB{240, 249, 33},
	}
}

// Style helpers

func (t *Theme) BG() lipgloss.Color      { return rgbToLipgloss(t.bg) }
func (t *Theme) FG() lipgloss.Color      { return rgbToLipgloss(t.fg) }
func (t *Theme) Muted() lipgloss.Color   { return rgbToLipgloss(t.muted) }
func (t *Theme) Accent() lipgloss.Color  { return rgbToLipgloss(t.accent) }
func (t *Theme) Active() lipgloss.Color  { return rgbToLipgloss(t.active) }
func (t *Theme) Warning() lipgloss.Color { return rgbToLipgloss(t.warning) }
func (t *Theme) Success() lipgloss.Color { return rgbToLipgloss(t.success) }

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
