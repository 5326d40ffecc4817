// Package log writes gateway logs to stderr. Stdout is reserved for the
// MCP protocol channel and must never receive log output.
package log

import (
	"fmt"
	"os"
	"sync/atomic"
)

var debug atomic.Bool

// SetDebug enables or disables debug-level logging.
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

// Log writes a log line to stderr.
func Log(args ...any) {
	fmt.Fprintln(os.Stderr, args...)
}

// Logf writes a formatted log line to stderr.
func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Debugf writes a formatted log line to stderr when debug logging is enabled.
func Debugf(format string, args ...any) {
	if debug.Load() {
		Logf(format, args...)
	}
}
