package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/utk09-NCL/web-song-maker/audio"
	"github.com/utk09-NCL/web-song-maker/config"
	"github.com/utk09-NCL/web-song-maker/debug"
	"github.com/utk09-NCL/web-song-maker/sequencer"
	"github.com/utk09-NCL/web-song-maker/theme"
	"github.com/utk09-NCL/web-song-maker/tui"
)

func main() {
	debugFlag := flag.Bool("debug", false, "write category logs to "+debug.Path())
	flag.Parse()

	if *debugFlag {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	conf, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		conf = config.Default()
	}

	palette := theme.Default()
	if conf.Palette != "" {
		p, err := theme.LoadGPL(conf.Palette)
		if err != nil {
			fmt.Fprintf(os.Stderr, "palette %s: %v\n", conf.Palette, err)
		} else {
			palette = p
		}
	}
	th := theme.New(palette)

	wave, err := audio.ParseWaveform(conf.Waveform)
	if err != nil {
		wave = audio.WaveSine
	}
	state := sequencer.NewState(conf.Tempo, conf.Columns, conf.StartOctave, conf.Octaves, wave)

	// Reopen the last song, if one was saved.
	if conf.LastSong != "" {
		if dir, err := config.SongsDir(); err == nil {
			if song, err := sequencer.LoadSong(dir, conf.LastSong); err == nil {
				if err := state.Restore(song); err != nil {
					debug.Log("main", "restore %q: %v", conf.LastSong, err)
				}
			} else {
				debug.Log("main", "load %q: %v", conf.LastSong, err)
			}
		}
	}

	engine := audio.NewEngine()
	engine.SetVolume(conf.Volume)
	synth := audio.NewSynth(engine)

	sched := sequencer.NewScheduler(state, engine, synth)

	m := tui.NewModel(state, sched, engine, th, conf)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	sched.Stop()
}
