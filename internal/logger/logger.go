// Package logger writes diagnostic output for docchat to stderr.
//
// Output is off by default. The --verbose flag turns it on, after which
// ingestion, retrieval and the AI adapters report each step and every
// external failure that was swallowed on the user's behalf.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level tags a line of output.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

type state struct {
	mu      sync.Mutex
	enabled bool
	w       io.Writer
}

var std = &state{w: os.Stderr}

// SetVerbose turns diagnostic output on or off.
func SetVerbose(on bool) {
	std.mu.Lock()
	std.enabled = on
	std.mu.Unlock()
}

// IsVerbose reports whether diagnostic output is on.
func IsVerbose() bool {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.enabled
}

// SetOutput redirects diagnostic output. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	std.mu.Lock()
	std.w = w
	std.mu.Unlock()
}

func (s *state) write(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	_, _ = io.WriteString(s.w, text)
}

// Logf writes one line at the given level.
func Logf(level Level, format string, args ...any) {
	std.write("[" + level.String() + "] " + fmt.Sprintf(format, args...) + "\n")
}

func Debug(format string, args ...any) { Logf(LevelDebug, format, args...) }

func Info(format string, args ...any) { Logf(LevelInfo, format, args...) }

// Warn is used for provider and storage failures that were degraded
// to an empty result instead of being returned.
func Warn(format string, args ...any) { Logf(LevelWarn, format, args...) }

// Section writes a blank line and a banner so multi-step commands are
// easy to scan.
func Section(name string) {
	std.write("\n=== " + name + " ===\n")
}

// Timed returns a func that logs the elapsed time of step at debug level.
//
//	defer logger.Timed("embed query")()
func Timed(step string) func() {
	start := time.Now()
	return func() {
		Debug("%s took %s", step, time.Since(start).Round(time.Millisecond))
	}
}
