// Package logging provides concrete implementations of the rawload.Logger interface.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// ConsoleLogger writes informational messages to stdout and diagnostics
// (verbose, error) to stderr, so summaries stay pipeable while noise does not.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	verbose bool
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
}

// NewConsoleLogger creates a ConsoleLogger writing to stdout/stderr.
// If verbose is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewConsoleLoggerTo(verbose, os.Stdout, os.Stderr)
}

// NewConsoleLoggerTo creates a ConsoleLogger with explicit writers.
// Used by tests to capture output.
func NewConsoleLoggerTo(verbose bool, out, errOut io.Writer) *ConsoleLogger {
	return &ConsoleLogger{verbose: verbose, out: out, errOut: errOut}
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.write(l.errOut, "[VERBOSE] ", format, args)
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.write(l.out, "", format, args)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.write(l.errOut, "[ERROR] ", format, args)
}

func (l *ConsoleLogger) write(w io.Writer, prefix, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(args) > 0 {
		fmt.Fprintf(w, prefix+format+"\n", args...)
	} else {
		fmt.Fprint(w, prefix+format+"\n")
	}
}
