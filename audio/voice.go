package audio

import (
	"math"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"github.com/utk09-NCL/web-song-maker/debug"
	"github.com/utk09-NCL/web-song-maker/theory"
)

// Waveform selects the oscillator shape for a voice.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveSquare
	WaveSawtooth
	WaveTriangle
)

var waveformNames = map[Waveform]string{
	WaveSine:     "sine",
	WaveSquare:   "square",
	WaveSawtooth: "sawtooth",
	WaveTriangle: "triangle",
}

func (w Waveform) String() string {
	if name, ok := waveformNames[w]; ok {
		return name
	}
	return "unknown"
}

// Next cycles to the following waveform, wrapping after triangle.
func (w Waveform) Next() Waveform {
	return (w + 1) % 4
}

// ParseWaveform resolves a waveform name, rejecting anything outside the
// four supported shapes.
func ParseWaveform(s string) (Waveform, error) {
	for w, name := range waveformNames {
		if name == s {
			return w, nil
		}
	}
	return WaveSine, fault.New("unsupported waveform",
		ftag.With(ftag.InvalidArgument),
		fmsg.WithDesc("waveform must be sine, square, sawtooth or triangle",
			"Unsupported waveform "+s))
}

// OscFunc produces one sample for a phase expressed in cycles.
type OscFunc func(phase float64) float64

func sineOsc(ph float64) float64 {
	return math.Sin(2 * math.Pi * ph)
}

func squareOsc(ph float64) float64 {
	if sineOsc(ph) >= 0 {
		return 1
	}
	return -1
}

func sawOsc(ph float64) float64 {
	_, p := math.Modf(ph)
	return 2*p - 1
}

func triangleOsc(ph float64) float64 {
	_, p := math.Modf(ph)
	return 4*math.Abs(p-0.5) - 1
}

func (w Waveform) osc() OscFunc {
	switch w {
	case WaveSquare:
		return squareOsc
	case WaveSawtooth:
		return sawOsc
	case WaveTriangle:
		return triangleOsc
	default:
		return sineOsc
	}
}

// Envelope constants. Linear attack to the sustain level, then exponential
// decay toward a near-zero floor; the exponential target can never be
// exactly 0, and the voice stops at the decay deadline.
const (
	attackDur    = 0.01
	sustainLevel = 0.3
	decayDur     = 0.5
	envFloor     = 0.001
)

// Voice is a single enveloped oscillator tone. It streams silence until
// its scheduled start sample, plays through attack and decay, then ends;
// the mixer drops ended streamers, so no cleanup is needed.
type Voice struct {
	freq    float64
	osc     OscFunc
	startAt float64

	pos   int // samples relative to start; negative until the start sample
	total int
}

func newVoice(freq, startAt float64, wave Waveform) *Voice {
	return &Voice{
		freq:    freq,
		osc:     wave.osc(),
		startAt: startAt,
		total:   int(decayDur * float64(sampleRate)),
	}
}

// envelopeAt returns the gain at a sample offset from the voice start.
func (v *Voice) envelopeAt(pos int) float64 {
	t := float64(pos) / float64(sampleRate)
	switch {
	case t < 0:
		return 0
	case t < attackDur:
		return sustainLevel * t / attackDur
	case t < decayDur:
		frac := (t - attackDur) / (decayDur - attackDur)
		return sustainLevel * math.Pow(envFloor/sustainLevel, frac)
	default:
		return 0
	}
}

func (v *Voice) Stream(samples [][2]float64) (int, bool) {
	if v.pos >= v.total {
		return 0, false
	}
	for i := range samples {
		if v.pos >= v.total {
			return i, true
		}
		var value float64
		if v.pos >= 0 {
			phase := float64(v.pos) / float64(sampleRate) * v.freq
			value = v.osc(phase) * v.envelopeAt(v.pos)
		}
		samples[i][0] = value
		samples[i][1] = value
		v.pos++
	}
	return len(samples), true
}

func (v *Voice) Err() error {
	return nil
}

// Synth builds voices and schedules them on the engine.
type Synth struct {
	engine *Engine
}

func NewSynth(e *Engine) *Synth {
	return &Synth{engine: e}
}

// PlayNote schedules one voice for a note name at an audio-clock time.
// An unresolvable note or a dead engine returns an error; the caller
// decides whether other notes in the same step still play.
func (s *Synth) PlayNote(note string, startAt float64, wave Waveform) error {
	freq, err := theory.Frequency(note)
	if err != nil {
		return err
	}
	v := newVoice(freq, startAt, wave)
	if err := s.engine.Play(v); err != nil {
		return err
	}
	debug.LogEvery(64, "synth", "voice note=%s freq=%.2f wave=%s at=%.3f", note, freq, wave, startAt)
	return nil
}
