package sequencer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"github.com/utk09-NCL/web-song-maker/audio"
)

// Song is the serialized song document: dimensions, matrix, tempo, note
// range and waveform. Opaque to the scheduler.
type Song struct {
	Tempo       int      `json:"tempo"`
	Columns     int      `json:"columns"`
	Waveform    string   `json:"waveform"`
	StartOctave int      `json:"startOctave"`
	Octaves     int      `json:"octaves"`
	Grid        [][]bool `json:"grid"`
}

// Snapshot captures the current state as a Song document.
func (s *State) Snapshot() Song {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grid := make([][]bool, len(s.grid))
	for r := range s.grid {
		grid[r] = make([]bool, len(s.grid[r]))
		copy(grid[r], s.grid[r])
	}
	return Song{
		Tempo:       s.tempo,
		Columns:     s.columns,
		Waveform:    s.waveform.String(),
		StartOctave: s.startOctave,
		Octaves:     s.octaves,
		Grid:        grid,
	}
}

// FromSong rebuilds a State from a loaded document. Out-of-range settings
// clamp; a grid whose shape disagrees with the settings is rejected.
func FromSong(song Song) (*State, error) {
	wave, err := audio.ParseWaveform(song.Waveform)
	if err != nil {
		return nil, err
	}
	s := NewState(song.Tempo, song.Columns, song.StartOctave, song.Octaves, wave)
	if song.Grid != nil {
		g := Grid(song.Grid)
		if err := g.Validate(len(s.notes), s.columns); err != nil {
			return nil, err
		}
		s.grid = g
	}
	return s, nil
}

// Restore replaces the state's contents in place with a loaded document,
// so a scheduler already holding this state picks up the new song on its
// next step.
func (s *State) Restore(song Song) error {
	ns, err := FromSong(song)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tempo = ns.tempo
	s.columns = ns.columns
	s.waveform = ns.waveform
	s.startOctave = ns.startOctave
	s.octaves = ns.octaves
	s.notes = ns.notes
	s.grid = ns.grid
	return nil
}

func songPath(dir, name string) string {
	return filepath.Join(dir, name+".json")
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, "/\\") || name != filepath.Base(name) {
		return fault.New("invalid song name",
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc("song name must be a plain file name",
				"Song names cannot be empty or contain path separators"))
	}
	return nil
}

// SaveSong writes one song document under dir, creating it if needed.
func SaveSong(dir, name string, song Song) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fault.Wrap(err, fmsg.With("cannot create songs directory"))
	}
	data, err := json.MarshalIndent(song, "", "  ")
	if err != nil {
		return fault.Wrap(err, fmsg.With("cannot encode song"))
	}
	if err := os.WriteFile(songPath(dir, name), data, 0644); err != nil {
		return fault.Wrap(err, fmsg.WithDesc("cannot write song file",
			"The song could not be saved"))
	}
	return nil
}

// LoadSong reads one song document from dir.
func LoadSong(dir, name string) (Song, error) {
	if err := validName(name); err != nil {
		return Song{}, err
	}
	data, err := os.ReadFile(songPath(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return Song{}, fault.Wrap(err,
				ftag.With(ftag.NotFound),
				fmsg.WithDesc("song file does not exist",
					"No saved song named "+name))
		}
		return Song{}, fault.Wrap(err, fmsg.With("cannot read song file"))
	}
	var song Song
	if err := json.Unmarshal(data, &song); err != nil {
		return Song{}, fault.Wrap(err, fmsg.WithDesc("cannot parse song file",
			"The song file is not valid JSON"))
	}
	return song, nil
}

// ListSongs returns the saved song names in dir, sorted.
func ListSongs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fault.Wrap(err, fmsg.With("cannot list songs directory"))
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}
