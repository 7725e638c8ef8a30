package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu       sync.Mutex
	file     *os.File
	enabled  bool
	counters = make(map[string]int)
)

// Path returns the debug log location.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "web-song-maker", "debug.log")
}

// Enable starts debug logging to ~/.config/web-song-maker/debug.log.
func Enable() error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	file = f
	enabled = true

	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(file, "[%s] %-10s %s\n", ts, "debug", "=== debug logging started ===")
	file.Sync()
	return nil
}

// Disable stops debug logging.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	enabled = false
}

// Log writes one category-tagged line to the debug log.
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || file == nil {
		return
	}

	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(file, "[%s] %-10s %s\n", ts, category, fmt.Sprintf(format, args...))
	file.Sync() // flush immediately so the log survives a crash
}

// LogEvery logs only every nth call with the same category+format.
// Use for per-step events so playback doesn't flood the log.
func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (count=%d)", append(args, count)...)
	}
}
