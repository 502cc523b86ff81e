// Package monitoring holds the process-wide diagnostic logging seam.
//
// The dashboard runs fullscreen on the terminal's alternate screen, so
// nothing may write to stdout or stderr while the UI is up. Every package
// logs through Logf, and main points it at a file before the UI starts.
package monitoring

import (
	"fmt"
	"log"
	"os"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced by SetLogger. Tests or production code can redirect or
// mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// UseFile routes Logf to the named file (appending, created if missing) and
// returns a close function. The terminal stays untouched.
func UseFile(path string) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.New(f, "", log.LstdFlags)
	Logf = logger.Printf
	return f.Close, nil
}
