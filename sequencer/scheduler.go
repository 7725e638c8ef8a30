package sequencer

import (
	"sync"
	"time"

	"github.com/utk09-NCL/web-song-maker/audio"
	"github.com/utk09-NCL/web-song-maker/debug"
)

// Clock is the monotonic audio clock steps are timed against.
// audio.Engine implements it.
type Clock interface {
	Ensure() error
	Now() float64
}

// Synth schedules one voice at an audio-clock time. audio.Synth
// implements it.
type Synth interface {
	PlayNote(note string, startAt float64, wave audio.Waveform) error
}

// Sixteenth-note resolution: four steps per quarter-note beat.
const stepsPerBeat = 4

// ColumnDuration derives the per-step interval from tempo. The formula is
// 60000ms / bpm / 4: 120 bpm gives 125ms, 60 bpm gives 250ms. It is
// recomputed fresh every step so a live tempo edit re-times the very next
// tick.
func ColumnDuration(bpm int) time.Duration {
	return time.Minute / time.Duration(bpm) / stepsPerBeat
}

// TimerHandle is a cancellable pending callback.
type TimerHandle interface {
	Stop() bool
}

// ScheduleFunc arms fn to run once after d. The default is
// time.AfterFunc; tests substitute a hand-driven fake.
type ScheduleFunc func(d time.Duration, fn func()) TimerHandle

func afterFunc(d time.Duration, fn func()) TimerHandle {
	return time.AfterFunc(d, fn)
}

// session is the transient state of one playback run. Created by Start,
// zeroed by Stop; the scheduler owns it exclusively.
type session struct {
	playing        bool
	column         int
	pending        TimerHandle
	voiceErrorSent bool
}

// Scheduler drives the step sequence: it reads the song state fresh each
// step, triggers voices for the active cells of the current column at one
// audio-clock instant, emits highlight events, and re-arms itself after
// the tempo-derived interval. There is never more than one pending
// callback: each step schedules exactly the next one, and Stop cancels
// the single outstanding handle.
type Scheduler struct {
	mu    sync.Mutex
	state *State
	clock Clock
	synth Synth

	highlight    func(col int, on bool)
	onVoiceError func(err error)
	schedule     ScheduleFunc

	sess session

	// gen invalidates armed callbacks. Cancelling the pending handle is
	// not enough: a timer that already fired may be blocked on mu, and
	// would re-arm a second chain once it got the lock. Start, Stop and
	// TempoChanged bump gen; a callback armed under an older value
	// returns without running the step.
	gen uint64
}

func NewScheduler(state *State, clock Clock, synth Synth) *Scheduler {
	return &Scheduler{
		state:     state,
		clock:     clock,
		synth:     synth,
		highlight: func(int, bool) {},
		schedule:  afterFunc,
	}
}

// SetHighlight installs the visual highlight callback, invoked as
// highlight(column, on) once per state change.
func (s *Scheduler) SetHighlight(fn func(col int, on bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highlight = fn
}

// SetOnVoiceError installs a callback for the first per-voice failure of
// a playback run. Later failures in the same run are only logged, so a
// note that fails every step cannot flood the UI.
func (s *Scheduler) SetOnVoiceError(fn func(err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onVoiceError = fn
}

// Playing reports whether a session is active.
func (s *Scheduler) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.playing
}

// CurrentColumn returns the next column to play.
func (s *Scheduler) CurrentColumn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.column
}

// Start begins playback from column 0. A no-op while already playing.
// The grid is validated against the configured dimensions first: a
// mismatch is a configuration error and nothing starts.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess.playing {
		return nil
	}
	if err := s.state.ValidateGrid(); err != nil {
		return err
	}
	if err := s.clock.Ensure(); err != nil {
		return err
	}

	s.gen++
	s.sess = session{playing: true, column: 0}
	debug.Log("sched", "start tempo=%d cols=%d", s.state.Tempo(), s.state.Columns())
	s.stepLocked()
	return nil
}

// Stop ends playback: cancels the pending callback and un-highlights
// every column. Safe to call repeatedly or while stopped. Voices already
// handed to the audio clock play out; no new ones are triggered.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sess.playing {
		return
	}
	if s.sess.pending != nil {
		s.sess.pending.Stop()
	}
	s.gen++
	cols := s.state.Columns()
	s.sess = session{}
	for c := 0; c < cols; c++ {
		s.highlight(c, false)
	}
	debug.Log("sched", "stop")
}

// TempoChanged re-times the next tick: the pending callback is cancelled
// and re-armed with the new duration, without advancing or resetting the
// column, so a tempo edit neither skips nor repeats a step. A no-op while
// stopped.
func (s *Scheduler) TempoChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sess.playing {
		return
	}
	if s.sess.pending != nil {
		s.sess.pending.Stop()
	}
	s.gen++
	d := ColumnDuration(s.state.Tempo())
	s.sess.pending = s.arm(d)
	debug.Log("sched", "tempo change tempo=%d next in %v", s.state.Tempo(), d)
}

// arm schedules the next step, stamped with the current generation.
func (s *Scheduler) arm(d time.Duration) TimerHandle {
	gen := s.gen
	return s.schedule(d, func() { s.step(gen) })
}

// step is the armed timer callback. A stale generation means the run it
// was armed for was stopped, restarted or re-timed after the timer fired
// but before it got the lock; such a callback must die silently instead
// of forking a second timer chain.
func (s *Scheduler) step(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.stepLocked()
}

// stepLocked runs one step while holding the mutex. The playing re-check
// makes a stop that lands between schedule and fire a silent no-op.
func (s *Scheduler) stepLocked() {
	if !s.sess.playing || s.clock == nil {
		return
	}

	cols := s.state.Columns()
	col := s.sess.column
	if col >= cols {
		// The grid shrank under us; wrap to the start.
		col = 0
	}

	// One audio-clock instant for every voice in the step: however late
	// the host timer fired, the notes of a column sound together.
	now := s.clock.Now()
	wave := s.state.Waveform()

	cells := s.state.ColumnCells(col)
	for row, active := range cells {
		if !active {
			continue
		}
		note := s.state.Note(row)
		if err := s.synth.PlayNote(note, now, wave); err != nil {
			debug.Log("sched", "voice failed col=%d row=%d note=%q: %v", col, row, note, err)
			if !s.sess.voiceErrorSent && s.onVoiceError != nil {
				s.sess.voiceErrorSent = true
				s.onVoiceError(err)
			}
			continue
		}
	}

	// Un-highlight before highlight to avoid flicker; wraps at column 0.
	s.highlight((col-1+cols)%cols, false)
	s.highlight(col, true)

	s.sess.column = (col + 1) % cols

	d := ColumnDuration(s.state.Tempo())
	s.sess.pending = s.arm(d)
	debug.LogEvery(64, "sched", "step col=%d next in %v", col, d)
}
