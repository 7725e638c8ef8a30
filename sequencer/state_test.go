package sequencer

import (
	"testing"

	"github.com/utk09-NCL/web-song-maker/audio"
)

func TestNewStateDefaultShape(t *testing.T) {
	s := NewState(120, 16, 4, 2, audio.WaveSine)
	if s.Rows() != 14 {
		t.Fatalf("rows = %d, want 14 (two octaves of the scale)", s.Rows())
	}
	if s.Columns() != 16 {
		t.Fatalf("columns = %d, want 16", s.Columns())
	}
	if s.Note(0) != "B5" || s.Note(13) != "C4" {
		t.Fatalf("range = %s..%s, want B5..C4", s.Note(0), s.Note(13))
	}
	if err := s.ValidateGrid(); err != nil {
		t.Fatalf("fresh state invalid: %v", err)
	}
}

func TestSetTempoClamps(t *testing.T) {
	s := NewState(120, 16, 4, 2, audio.WaveSine)
	if got := s.SetTempo(30); got != MinTempo {
		t.Errorf("SetTempo(30) = %d, want %d", got, MinTempo)
	}
	if got := s.SetTempo(999); got != MaxTempo {
		t.Errorf("SetTempo(999) = %d, want %d", got, MaxTempo)
	}
	if got := s.SetTempo(90); got != 90 {
		t.Errorf("SetTempo(90) = %d", got)
	}
}

func TestSetColumnsRebuildsGrid(t *testing.T) {
	s := NewState(120, 8, 4, 1, audio.WaveSine)
	s.ToggleCell(0, 3)

	s.SetColumns(16)
	if s.Columns() != 16 {
		t.Fatalf("columns = %d, want 16", s.Columns())
	}
	if !s.CellActive(0, 3) {
		t.Fatal("cell lost when growing columns")
	}
	if err := s.ValidateGrid(); err != nil {
		t.Fatalf("grid invalid after column change: %v", err)
	}

	s.ToggleCell(0, 5)
	s.SetColumns(4)
	if !s.CellActive(0, 3) {
		t.Fatal("cell inside new width lost on shrink")
	}
	if s.CellActive(0, 5) {
		t.Fatal("cell beyond new width survived shrink")
	}

	if got := s.SetColumns(100); got != MaxColumns {
		t.Fatalf("SetColumns(100) = %d, want %d", got, MaxColumns)
	}
}

func TestSetOctaveRangeRebuildsRows(t *testing.T) {
	s := NewState(120, 8, 4, 1, audio.WaveSine)
	s.ToggleCell(0, 0)

	s.SetOctaveRange(4, 2)
	if s.Rows() != 14 {
		t.Fatalf("rows = %d, want 14", s.Rows())
	}
	if !s.CellActive(0, 0) {
		t.Fatal("cell lost on range grow")
	}
	if err := s.ValidateGrid(); err != nil {
		t.Fatalf("grid invalid after range change: %v", err)
	}

	s.SetOctaveRange(MaxStartOctave+3, MaxOctaves+5)
	start, octs := s.OctaveRange()
	if start != MaxStartOctave || octs != MaxOctaves {
		t.Fatalf("range = (%d,%d), want clamped (%d,%d)", start, octs, MaxStartOctave, MaxOctaves)
	}
}

func TestCycleWaveform(t *testing.T) {
	s := NewState(120, 8, 4, 1, audio.WaveSine)
	seen := map[audio.Waveform]bool{s.Waveform(): true}
	for i := 0; i < 3; i++ {
		seen[s.CycleWaveform()] = true
	}
	if len(seen) != 4 {
		t.Fatalf("cycling visited %d waveforms, want 4", len(seen))
	}
	if s.CycleWaveform() != audio.WaveSine {
		t.Fatal("cycle does not wrap back to sine")
	}
}

func TestGridSnapshotDetached(t *testing.T) {
	s := NewState(120, 8, 4, 1, audio.WaveSine)
	s.ToggleCell(2, 2)
	snap := s.GridSnapshot()
	snap.Toggle(0, 0)
	if s.CellActive(0, 0) {
		t.Fatal("snapshot writes through to the state")
	}
	if !snap[2][2] {
		t.Fatal("snapshot missing active cell")
	}
}
