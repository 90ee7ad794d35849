// Package logger writes leveled diagnostics to stderr. Warnings and errors
// always print; debug, info and stage output only with --verbose.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type level string

const (
	levelDebug level = "DEBUG"
	levelInfo  level = "INFO"
	levelWarn  level = "WARN"
	levelError level = "ERROR"
)

var state = struct {
	sync.RWMutex
	verbose bool
	w       io.Writer
}{w: os.Stderr}

// SetVerbose turns debug and info output on or off.
func SetVerbose(v bool) {
	state.Lock()
	state.verbose = v
	state.Unlock()
}

// IsVerbose reports whether --verbose is in effect.
func IsVerbose() bool {
	state.RLock()
	defer state.RUnlock()
	return state.verbose
}

// SetOutput redirects all output; tests pass a buffer.
func SetOutput(w io.Writer) {
	state.Lock()
	state.w = w
	state.Unlock()
}

func Debug(format string, args ...any) { logf(levelDebug, format, args...) }
func Info(format string, args ...any)  { logf(levelInfo, format, args...) }
func Warn(format string, args ...any)  { logf(levelWarn, format, args...) }
func Error(format string, args ...any) { logf(levelError, format, args...) }

// Section prints a "=== name ===" banner between pipeline stages.
func Section(name string) {
	state.RLock()
	defer state.RUnlock()
	if state.verbose {
		fmt.Fprintf(state.w, "\n=== %s ===\n", name)
	}
}

// Stage prints a Section banner and returns a func that reports how long
// the stage took. Call it with defer or once the stage is finished.
func Stage(name string) func() {
	Section(name)
	start := time.Now()
	return func() {
		Info("%s finished in %s", name, time.Since(start).Round(time.Millisecond))
	}
}

func logf(lvl level, format string, args ...any) {
	state.RLock()
	defer state.RUnlock()
	if !state.verbose && (lvl == levelDebug || lvl == levelInfo) {
		return
	}
	fmt.Fprintf(state.w, "["+string(lvl)+"] "+format+"\n", args...)
}
