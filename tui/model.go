package tui

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Southclaws/fault/fmsg"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/utk09-NCL/web-song-maker/audio"
	"github.com/utk09-NCL/web-song-maker/config"
	"github.com/utk09-NCL/web-song-maker/debug"
	"github.com/utk09-NCL/web-song-maker/sequencer"
	"github.com/utk09-NCL/web-song-maker/theme"
)

type mode int

const (
	modeGrid mode = iota
	modeSaveName
	modeConfirmClear
)

const (
	tempoStep  = 5
	columnStep = 4
	volumeStep = 0.05
	noticeTTL  = 3 * time.Second
)

type Model struct {
	State  *sequencer.State
	Sched  *sequencer.Scheduler
	Engine *audio.Engine
	Theme  *theme.Theme
	Conf   *config.Config

	// events carries highlight and voice-error callbacks from the
	// scheduler's timer goroutine into the bubbletea loop.
	events chan tea.Msg

	cursorRow int
	cursorCol int
	playCol   int // -1 while stopped

	mode      mode
	nameInput textinput.Model

	notice   string
	noticeID int

	rng      *rand.Rand
	quitting bool
}

// HighlightMsg mirrors one highlight callback: column col lit or dark.
type HighlightMsg struct {
	Col int
	On  bool
}

// VoiceErrMsg surfaces the first failed voice of a playback run.
type VoiceErrMsg struct{ Err error }

type clearNoticeMsg struct{ id int }

func NewModel(state *sequencer.State, sched *sequencer.Scheduler, engine *audio.Engine, th *theme.Theme, conf *config.Config) Model {
	events := make(chan tea.Msg, 64)

	// The timer goroutine must never block on a slow or gone UI.
	post := func(msg tea.Msg) {
		select {
		case events <- msg:
		default:
			debug.Log("tui", "dropped %T", msg)
		}
	}
	sched.SetHighlight(func(col int, on bool) {
		post(HighlightMsg{Col: col, On: on})
	})
	sched.SetOnVoiceError(func(err error) {
		post(VoiceErrMsg{Err: err})
	})

	ti := textinput.New()
	ti.Placeholder = "song name"
	ti.CharLimit = 64
	ti.Width = 24

	return Model{
		State:     state,
		Sched:     sched,
		Engine:    engine,
		Theme:     th,
		Conf:      conf,
		events:    events,
		playCol:   -1,
		nameInput: ti,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func listenForEvents(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m Model) Init() tea.Cmd {
	return listenForEvents(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeSaveName:
			return m.updateSaveName(msg)
		case modeConfirmClear:
			return m.updateConfirmClear(msg)
		default:
			return m.updateGrid(msg)
		}

	case HighlightMsg:
		if msg.On {
			m.playCol = msg.Col
		} else if m.playCol == msg.Col {
			m.playCol = -1
		}
		return m, listenForEvents(m.events)

	case VoiceErrMsg:
		cmd := m.setNotice(fmsg.GetIssue(msg.Err))
		return m, tea.Batch(cmd, listenForEvents(m.events))

	case clearNoticeMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil
	}

	if m.mode == modeSaveName {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) setNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeID++
	id := m.noticeID
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{id: id}
	})
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.Sched.Stop()
		m.syncConfig()
		return m, tea.Quit

	case "h", "left":
		if m.cursorCol > 0 {
			m.cursorCol--
		}

	case "l", "right":
		if m.cursorCol < m.State.Columns()-1 {
			m.cursorCol++
		}

	case "k", "up":
		if m.cursorRow > 0 {
			m.cursorRow--
		}

	case "j", "down":
		if m.cursorRow < m.State.Rows()-1 {
			m.cursorRow++
		}

	case " ":
		m.State.ToggleCell(m.cursorRow, m.cursorCol)

	case "p":
		if m.Sched.Playing() {
			m.Sched.Stop()
			m.playCol = -1
		} else if err := m.Sched.Start(); err != nil {
			return m, m.setNotice(fmsg.GetIssue(err))
		}

	case "+", "=":
		m.State.SetTempo(m.State.Tempo() + tempoStep)
		m.Sched.TempoChanged()

	case "-", "_":
		m.State.SetTempo(m.State.Tempo() - tempoStep)
		m.Sched.TempoChanged()

	case "w":
		m.State.CycleWaveform()

	case "r":
		m.State.RandomizeGrid(m.rng)

	case "c":
		m.mode = modeConfirmClear

	case "[":
		m.State.SetColumns(m.State.Columns() - columnStep)
		m.clampCursor()

	case "]":
		m.State.SetColumns(m.State.Columns() + columnStep)

	case "o":
		start, octaves := m.State.OctaveRange()
		octaves++
		if octaves > sequencer.MaxOctaves {
			octaves = sequencer.MinOctaves
		}
		m.State.SetOctaveRange(start, octaves)
		m.clampCursor()

	case "O":
		start, octaves := m.State.OctaveRange()
		start++
		if start > sequencer.MaxStartOctave {
			start = sequencer.MinStartOctave
		}
		m.State.SetOctaveRange(start, octaves)

	case ",":
		m.Engine.SetVolume(m.Engine.Level() - volumeStep)

	case ".":
		m.Engine.SetVolume(m.Engine.Level() + volumeStep)

	case "s":
		m.mode = modeSaveName
		m.nameInput.SetValue(m.Conf.LastSong)
		m.nameInput.Focus()
		return m, textinput.Blink

	case "L":
		return m, m.loadLast()
	}

	return m, nil
}

func (m Model) updateSaveName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeGrid
		m.nameInput.Blur()
		return m, nil

	case "enter":
		name := m.nameInput.Value()
		m.mode = modeGrid
		m.nameInput.Blur()

		dir, err := config.SongsDir()
		if err == nil {
			err = sequencer.SaveSong(dir, name, m.State.Snapshot())
		}
		if err != nil {
			return m, m.setNotice(fmsg.GetIssue(err))
		}
		m.Conf.LastSong = name
		m.syncConfig()
		return m, m.setNotice(fmt.Sprintf("saved %q", name))
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeGrid
	if msg.String() == "y" {
		m.State.ClearGrid()
		return m, m.setNotice("grid cleared")
	}
	return m, nil
}

func (m *Model) loadLast() tea.Cmd {
	dir, err := config.SongsDir()
	if err != nil {
		return m.setNotice(fmsg.GetIssue(err))
	}

	name := m.Conf.LastSong
	if name == "" {
		names, err := sequencer.ListSongs(dir)
		if err != nil {
			return m.setNotice(fmsg.GetIssue(err))
		}
		if len(names) == 0 {
			return m.setNotice("no saved songs yet")
		}
		name = names[0]
	}

	song, err := sequencer.LoadSong(dir, name)
	if err != nil {
		return m.setNotice(fmsg.GetIssue(err))
	}

	m.Sched.Stop()
	m.playCol = -1
	if err := m.State.Restore(song); err != nil {
		return m.setNotice(fmsg.GetIssue(err))
	}
	m.Conf.LastSong = name
	m.clampCursor()
	return m.setNotice(fmt.Sprintf("loaded %q", name))
}

func (m *Model) clampCursor() {
	if max := m.State.Columns() - 1; m.cursorCol > max {
		m.cursorCol = max
	}
	if max := m.State.Rows() - 1; m.cursorRow > max {
		m.cursorRow = max
	}
}

// syncConfig mirrors the live settings into the config file so the next
// launch starts where this one left off.
func (m *Model) syncConfig() {
	m.Conf.Tempo = m.State.Tempo()
	m.Conf.Waveform = m.State.Waveform().String()
	m.Conf.Columns = m.State.Columns()
	m.Conf.StartOctave, m.Conf.Octaves = m.State.OctaveRange()
	m.Conf.Volume = m.Engine.Level()
	if err := m.Conf.Save(); err != nil {
		debug.Log("tui", "config save failed: %v", err)
	}
}
