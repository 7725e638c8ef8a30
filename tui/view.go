package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	emptyStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	activeStyle := lipgloss.NewStyle().Foreground(m.Theme.Active())
	cursorStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor()).Bold(true)
	playStyle := lipgloss.NewStyle().Foreground(m.Theme.Playhead()).Reverse(true)
	noticeStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())
	helpStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	playState := "STOP"
	if m.Sched.Playing() {
		playState = "PLAY"
	}
	header := headerStyle.Render(fmt.Sprintf("web-song-maker  %s  %3dbpm  %s  vol %3.0f%%",
		playState, m.State.Tempo(), m.State.Waveform(), m.Engine.Level()*100))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(m.renderRuler(labelStyle, playStyle))
	out.WriteString("\n")
	out.WriteString(m.renderGrid(labelStyle, emptyStyle, activeStyle, cursorStyle, playStyle))
	out.WriteString("\n")

	switch m.mode {
	case modeSaveName:
		out.WriteString("save as: ")
		out.WriteString(m.nameInput.View())
	case modeConfirmClear:
		out.WriteString(noticeStyle.Render("clear the whole grid? y/n"))
	default:
		out.WriteString(helpStyle.Render("hjkl:move  space:toggle  p:play  +/-:tempo  w:wave  [/]:steps  o/O:octaves  ,/.:vol  r:rand  c:clear  s:save  L:load  q:quit"))
	}

	if m.notice != "" {
		out.WriteString("\n")
		out.WriteString(noticeStyle.Render(m.notice))
	}
	out.WriteString("\n")

	return out.String()
}

// renderRuler draws beat marks above the grid and the playhead marker
// under the sounding column.
func (m Model) renderRuler(labelStyle, playStyle lipgloss.Style) string {
	cols := m.State.Columns()
	sym := m.Theme.Symbols

	var b strings.Builder
	b.WriteString(labelStyle.Render("    "))
	for col := 0; col < cols; col++ {
		r := sym.RulerTick
		if col%4 == 0 {
			r = sym.RulerBeat
		}
		cell := string(r)
		if col == m.playCol {
			cell = string(sym.Playhead)
			b.WriteString(playStyle.Render(cell + " "))
			continue
		}
		b.WriteString(labelStyle.Render(cell + " "))
	}
	return b.String()
}

func (m Model) renderGrid(labelStyle, emptyStyle, activeStyle, cursorStyle, playStyle lipgloss.Style) string {
	notes := m.State.Notes()
	grid := m.State.GridSnapshot()
	sym := m.Theme.Symbols

	var b strings.Builder
	for row, note := range notes {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%3s ", note)))
		for col := 0; col < grid.Cols(); col++ {
			active := grid[row][col]
			under := row == m.cursorRow && col == m.cursorCol

			r := sym.CellEmpty
			switch {
			case active && under:
				r = sym.CursorActive
			case under:
				r = sym.CursorEmpty
			case active:
				r = sym.CellActive
			}

			style := emptyStyle
			switch {
			case under:
				style = cursorStyle
			case col == m.playCol:
				style = playStyle
			case active:
				style = activeStyle
			}
			b.WriteString(style.Render(string(r) + " "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
