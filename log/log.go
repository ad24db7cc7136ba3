// Package log is hearth's small leveled logger. It exists because the
// engine surfaces non-fatal diagnostics (a dataflow warning, a trace of
// the compile passes) that don't belong in the returned error value, the
// same role the teacher's own `log` package plays alongside
// `pkg/graft/errors.go`'s WarningError.Warn().
//
// Levels are gated by a package-level threshold, settable via SetLevel or
// the HEARTH_LOG_LEVEL environment variable, and rendered through
// goutils/ansi so warnings and errors stand out on a terminal.
package log

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/starkandwayne/goutils/ansi"
)

// Level orders log verbosity, most to least severe.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "?"
	}
}

func parseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "INFO":
		return LevelInfo, true
	case "DEBUG":
		return LevelDebug, true
	case "TRACE":
		return LevelTrace, true
	default:
		return 0, false
	}
}

var (
	mu      sync.Mutex
	current = defaultLevel()
)

func defaultLevel() Level {
	if lvl, ok := parseLevel(os.Getenv("HEARTH_LOG_LEVEL")); ok {
		return lvl
	}
	return LevelWarn
}

// SetLevel overrides the current log threshold; messages above it are
// dropped.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	current = l
}

func enabled(l Level) bool {
	mu.Lock()
	defer mu.Unlock()
	return l <= current
}

func emit(l Level, color, format string, args ...interface{}) {
	if !enabled(l) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprint(os.Stderr, ansi.Sprintf("@%s{%s:} %s\n", color, l, msg))
}

// Error logs at ERROR level.
func Error(format string, args ...interface{}) { emit(LevelError, "R", format, args...) }

// Warn logs at WARN level, matching the teacher's WarningError.Warn()'s
// "@Y{warning:} ..." styling.
func Warn(format string, args ...interface{}) { emit(LevelWarn, "Y", format, args...) }

// Info logs at INFO level.
func Info(format string, args ...interface{}) { emit(LevelInfo, "c", format, args...) }

// Debug logs at DEBUG level.
func Debug(format string, args ...interface{}) { emit(LevelDebug, "m", format, args...) }

// Trace logs at TRACE level.
func Trace(format string, args ...interface{}) { emit(LevelTrace, "b", format, args...) }
