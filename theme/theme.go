package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Grid cells
	CellEmpty  rune // · silent cell
	CellActive rune // ● armed cell

	// Same cells under the cursor
	CursorEmpty  rune // ○
	CursorActive rune // ◉

	// Column ruler
	RulerBeat rune // ┬ beat boundary (every 4th column)
	RulerTick rune // ╷ other columns
	Playhead  rune // ▼ marks the sounding column
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			CellEmpty:  '·',
			CellActive: '●',

			CursorEmpty:  '○',
			CursorActive: '◉',

			RulerBeat: '┬',
			RulerTick: '╷',
			Playhead:  '▼',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG       = 0.0
	RoleSurface  = 0.1
	RoleMuted    = 0.25
	RoleFG       = 0.4
	RoleAccent   = 0.55
	RoleCursor   = 0.65
	RoleActive   = 0.75
	RoleWarning  = 0.85
	RolePlayhead = 1.0
)

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Cursor() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleCursor))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Playhead() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RolePlayhead))
}

// Color returns the lipgloss color for any normalized value 0-1.
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
