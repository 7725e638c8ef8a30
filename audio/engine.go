// Package audio owns the real-time sound output: the speaker graph, the
// master volume, the sample-accurate clock, and the one-shot synth voices
// scheduled against it.
package audio

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/utk09-NCL/web-song-maker/debug"
)

const (
	sampleRate = beep.SampleRate(44100)
	bufferLen  = time.Second / 20

	// DefaultVolume is the master level applied when the graph is built.
	DefaultVolume = 0.5
)

// Engine owns the output graph: mixer -> master volume -> speaker, with a
// sample counter between volume and speaker acting as the audio clock.
// Construction is lazy; nothing touches the sound card until Ensure.
type Engine struct {
	mu      sync.Mutex
	ready   bool
	mixer   *beep.Mixer
	volume  *effects.Volume
	level   float64
	samples atomic.Int64

	// speaker indirection, swapped out by tests
	initSpeaker func(beep.SampleRate, int) error
	playSpeaker func(beep.Streamer)
	lock        func()
	unlock      func()
}

// NewEngine returns an engine wired to the real speaker. Call Ensure before
// playing anything.
func NewEngine() *Engine {
	return &Engine{
		level: DefaultVolume,
		initSpeaker: func(sr beep.SampleRate, bufLen int) error {
			return speaker.Init(sr, bufLen)
		},
		playSpeaker: func(s beep.Streamer) { speaker.Play(s) },
		lock:        speaker.Lock,
		unlock:      speaker.Unlock,
	}
}

// Ensure builds the output graph on first call and is a no-op afterwards.
func (e *Engine) Ensure() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ready {
		return nil
	}

	if err := e.initSpeaker(sampleRate, sampleRate.N(bufferLen)); err != nil {
		return fault.Wrap(err,
			ftag.With(ftag.Internal),
			fmsg.WithDesc("cannot initialize speaker",
				"Audio output could not be opened"))
	}

	e.mixer = &beep.Mixer{}
	e.volume = &effects.Volume{
		Streamer: e.mixer,
		Base:     2,
		Volume:   math.Log2(math.Max(e.level, minLevel)),
		Silent:   e.level <= minLevel,
	}
	e.playSpeaker(e.counting(e.volume))
	e.ready = true
	debug.Log("audio", "engine ready rate=%d buffer=%v level=%.2f", sampleRate, bufferLen, e.level)
	return nil
}

// counting wraps the graph's tail so every streamed sample advances the
// audio clock. The speaker goroutine holds the speaker lock while calling
// Stream, so reads under that lock see a consistent position.
func (e *Engine) counting(s beep.Streamer) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		e.samples.Add(int64(n))
		return n, ok
	})
}

// Now returns the monotonic audio-clock time in seconds: the number of
// samples handed to the speaker divided by the sample rate. It does not
// depend on any host timer.
func (e *Engine) Now() float64 {
	return float64(e.samples.Load()) / float64(sampleRate)
}

// minLevel keeps the log2 mapping finite for very small levels; levels at
// or below it mute via the Silent flag instead.
const minLevel = 1e-4

// SetVolume clamps level to [0,1] and applies it to the master volume
// node. Called before Ensure it only records the level for later.
func (e *Engine) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.level = level
	if !e.ready {
		debug.Log("audio", "SetVolume(%.2f) before engine init, deferred", level)
		return
	}

	e.lock()
	e.volume.Silent = level <= minLevel
	if level > minLevel {
		e.volume.Volume = math.Log2(level)
	}
	e.unlock()
}

// Level returns the current master volume level in [0,1].
func (e *Engine) Level() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level
}

// Play schedules a voice. The voice's start time is resolved against the
// clock's absolute sample grid, so every voice handed the same start time
// begins at the same sample; a start already in the past skips the elapsed
// head of the voice instead of shifting it.
func (e *Engine) Play(v *Voice) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ready {
		return fault.New("audio engine not initialized",
			ftag.With(ftag.Internal),
			fmsg.WithDesc("voice scheduled before engine init",
				"Audio is not ready yet"))
	}

	e.lock()
	start := int64(v.startAt * float64(sampleRate))
	v.pos = int(e.samples.Load() - start)
	e.mixer.Add(v)
	e.unlock()
	return nil
}
