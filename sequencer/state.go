package sequencer

import (
	"math/rand"
	"sync"

	"github.com/utk09-NCL/web-song-maker/audio"
	"github.com/utk09-NCL/web-song-maker/theory"
)

// Bounds enforced at this boundary. The scheduler assumes pre-validated
// values and never clamps.
const (
	MinTempo = 60
	MaxTempo = 240

	MinColumns = 4
	MaxColumns = 32

	MinStartOctave = 2
	MaxStartOctave = 6
	MinOctaves     = 1
	MaxOctaves     = 3
)

// State is the song document: tempo, waveform, note range and the grid.
// The TUI mutates it between steps while the scheduler reads it fresh at
// the top of every step, so access goes through the mutex.
type State struct {
	mu          sync.RWMutex
	tempo       int
	columns     int
	waveform    audio.Waveform
	startOctave int
	octaves     int
	notes       []string
	grid        Grid
}

// NewState builds a song with the given settings, each clamped to its
// documented range.
func NewState(tempo, columns, startOctave, octaves int, wave audio.Waveform) *State {
	s := &State{waveform: wave}
	s.tempo = clamp(tempo, MinTempo, MaxTempo)
	s.columns = clamp(columns, MinColumns, MaxColumns)
	s.startOctave = clamp(startOctave, MinStartOctave, MaxStartOctave)
	s.octaves = clamp(octaves, MinOctaves, MaxOctaves)
	s.notes = theory.ScaleRange(s.startOctave, s.octaves)
	s.grid = NewGrid(len(s.notes), s.columns)
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Tempo returns the current BPM. Read fresh by the scheduler every step.
func (s *State) Tempo() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tempo
}

// SetTempo clamps to [MinTempo, MaxTempo] and reports the applied value.
func (s *State) SetTempo(bpm int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tempo = clamp(bpm, MinTempo, MaxTempo)
	return s.tempo
}

// Waveform returns the voice shape applied to the next step's voices.
func (s *State) Waveform() audio.Waveform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.waveform
}

func (s *State) SetWaveform(w audio.Waveform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waveform = w
}

// CycleWaveform advances to the next shape and returns it.
func (s *State) CycleWaveform() audio.Waveform {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waveform = s.waveform.Next()
	return s.waveform
}

// Columns returns the configured step count.
func (s *State) Columns() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.columns
}

// Notes returns the row note names, top row first.
func (s *State) Notes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.notes))
	copy(out, s.notes)
	return out
}

func (s *State) Rows() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Note returns the note name for a row, or "" when out of range.
func (s *State) Note(row int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if row < 0 || row >= len(s.notes) {
		return ""
	}
	return s.notes[row]
}

// OctaveRange reports the configured note range.
func (s *State) OctaveRange() (startOctave, octaves int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startOctave, s.octaves
}

// SetColumns clamps and, when the count changes, replaces the grid
// wholesale with a resized copy.
func (s *State) SetColumns(cols int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cols = clamp(cols, MinColumns, MaxColumns)
	if cols != s.columns {
		s.columns = cols
		s.grid = s.grid.Resize(len(s.notes), cols)
	}
	return s.columns
}

// SetOctaveRange reconfigures the note rows, rebuilding the grid to the
// new row count while preserving overlapping cells.
func (s *State) SetOctaveRange(startOctave, octaves int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startOctave = clamp(startOctave, MinStartOctave, MaxStartOctave)
	s.octaves = clamp(octaves, MinOctaves, MaxOctaves)
	s.notes = theory.ScaleRange(s.startOctave, s.octaves)
	s.grid = s.grid.Resize(len(s.notes), s.columns)
}

// ToggleCell flips one grid cell.
func (s *State) ToggleCell(row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid.Toggle(row, col)
}

// CellActive reports one cell, false when out of range.
func (s *State) CellActive(row, col int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if row < 0 || row >= len(s.grid) || col < 0 || col >= len(s.grid[row]) {
		return false
	}
	return s.grid[row][col]
}

// ColumnCells returns a fresh copy of one column, top row first. The
// scheduler calls this at the top of every step so live toggles take
// effect on the column's next occurrence.
func (s *State) ColumnCells(col int) []bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.Column(col)
}

// ClearGrid deactivates every cell.
func (s *State) ClearGrid() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid.Clear()
}

// RandomizeGrid rewrites the grid from rng.
func (s *State) RandomizeGrid(rng *rand.Rand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid.Randomize(rng)
}

// ValidateGrid checks the grid against the configured dimensions.
func (s *State) ValidateGrid() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.Validate(len(s.notes), s.columns)
}

// GridSnapshot returns a deep copy for rendering and persistence.
func (s *State) GridSnapshot() Grid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := NewGrid(len(s.grid), s.grid.Cols())
	for r := range s.grid {
		copy(out[r], s.grid[r])
	}
	return out
}
