package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

var (
	file    io.WriteCloser
	mu      sync.Mutex
	enabled bool

	// error records land here while the debug log is off
	errOut io.Writer = os.Stderr

	logger = slog.New(newHandler(nil))
)

// Enable starts debug logging to ~/.config/music-loom/debug.log
func Enable() error {
	f, err := openLog("debug.log", os.O_TRUNC)
	if err != nil {
		return err
	}
	EnableWriter(f)
	return nil
}

// EnableErrorLog appends error records to ~/.config/music-loom/error.log
// while the debug log is off, for when stderr is taken by the terminal UI.
func EnableErrorLog() error {
	f, err := openLog("error.log", os.O_APPEND)
	if err != nil {
		return err
	}
	SetErrorOutput(f)
	return nil
}

// SetErrorOutput sets where error records go while the debug log is off
func SetErrorOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	errOut = w
}

func openLog(name string, flag int) (*os.File, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(homeDir, ".config", "music-loom")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|flag, 0644)
}

// EnableWriter starts debug logging to w. Disable closes it.
func EnableWriter(w io.WriteCloser) {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
	}
	file = w
	enabled = true

	// Write directly (can't call Log - we hold the mutex)
	writeLine(file, "debug", "=== Debug logging started ===")
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	enabled = false
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || file == nil {
		return
	}
	writeLine(file, category, fmt.Sprintf(format, args...))
}

// LogEvery logs only every N calls (use for high-frequency events)
var counters = make(map[string]int)

func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}

// Logger returns the structured logger used by the player core.
// Records go to the debug log unless UseOTel was called; error records are
// written to the error output when the debug log is off.
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// UseOTel routes Logger through the OpenTelemetry log bridge
func UseOTel(scope string) {
	mu.Lock()
	defer mu.Unlock()
	logger = otelslog.NewLogger(scope)
}

// caller holds mu
func writeLine(w io.Writer, category, msg string) {
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(w, "[%s] %-10s %s\n", ts, category, msg)
	if s, ok := w.(interface{ Sync() error }); ok {
		s.Sync() // flush immediately so we see logs even on crash
	}
}
