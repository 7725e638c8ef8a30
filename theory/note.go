// Package theory maps note names in scientific pitch notation to
// equal-temperament frequencies.
package theory

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// Semitone offsets from C within one octave. Sharps only; the grid
// never produces flat spellings.
var pitchClasses = map[string]int{
	"C":  0,
	"C#": 1,
	"D":  2,
	"D#": 3,
	"E":  4,
	"F":  5,
	"F#": 6,
	"G":  7,
	"G#": 8,
	"A":  9,
	"A#": 10,
	"B":  11,
}

// MajorScale lists the pitch classes of the C major scale, low to high.
var MajorScale = []string{"C", "D", "E", "F", "G", "A", "B"}

const (
	refFrequency = 440.0 // A4
	refMIDI      = 69    // MIDI number of A4
)

func invalidNote(name string) error {
	return fault.New("invalid note name",
		ftag.With(ftag.InvalidArgument),
		fmsg.WithDesc(
			fmt.Sprintf("cannot parse %q as scientific pitch notation", name),
			fmt.Sprintf("Unknown note %q", name),
		),
	)
}

// Parse splits a name like "C4" or "F#3" into its pitch class and octave.
func Parse(name string) (class string, octave int, err error) {
	if len(name) < 2 {
		return "", 0, invalidNote(name)
	}
	split := 1
	if name[1] == '#' {
		split = 2
	}
	class = name[:split]
	if _, ok := pitchClasses[class]; !ok {
		return "", 0, invalidNote(name)
	}
	octave, convErr := strconv.Atoi(name[split:])
	if convErr != nil {
		return "", 0, invalidNote(name)
	}
	return class, octave, nil
}

// MIDINumber returns the MIDI note number for a name (C4 = 60, A4 = 69).
func MIDINumber(name string) (int, error) {
	class, octave, err := Parse(name)
	if err != nil {
		return 0, err
	}
	return (octave+1)*12 + pitchClasses[class], nil
}

// Frequency resolves a note name to Hz: 440 * 2^(semitonesFromA4/12).
func Frequency(name string) (float64, error) {
	n, err := MIDINumber(name)
	if err != nil {
		return 0, err
	}
	return refFrequency * math.Exp2((float64(n)-refMIDI)/12), nil
}

// ScaleRange builds the grid's row notes: the C major scale spanning
// octaves starting at startOctave, ordered highest first so row 0 sits at
// the top of the grid.
func ScaleRange(startOctave, octaves int) []string {
	var notes []string
	for oct := startOctave + octaves - 1; oct >= startOctave; oct-- {
		for i := len(MajorScale) - 1; i >= 0; i-- {
			notes = append(notes, fmt.Sprintf("%s%d", MajorScale[i], oct))
		}
	}
	return notes
}
