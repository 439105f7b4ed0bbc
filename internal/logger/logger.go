// Package logger provides verbose logging for proofcheck.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to help users follow the comparison and
// locator pipelines page by page.
//
// Services receive a *Logger through their constructors, usually a
// Named child of the default logger so each line says where it came from:
//
//	[DEBUG] compare: page 3: 12 regions
//
// The package-level functions write to the default logger that the CLI
// configures.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logger writes level-prefixed messages when verbose.
// A nil *Logger writes to the default logger.
type Logger struct {
	mu      sync.RWMutex
	verbose bool
	output  io.Writer

	// root owns verbose and output for Named children.
	root *Logger
	name string
}

var std = &Logger{output: os.Stderr}

// New creates a logger writing to w.
func New(w io.Writer, verbose bool) *Logger {
	return &Logger{output: w, verbose: verbose}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{output: io.Discard}
}

// Default returns the package-level logger.
func Default() *Logger {
	return std
}

// base resolves nil to the default logger and children to their root.
func (l *Logger) base() *Logger {
	if l == nil {
		return std
	}
	if l.root != nil {
		return l.root
	}
	return l
}

// Named returns a child that prefixes messages with name. Children of
// children join names with a dot. Verbosity and output stay shared with
// the root logger.
func (l *Logger) Named(name string) *Logger {
	if l != nil && l.name != "" {
		name = l.name + "." + name
	}
	return &Logger{root: l.base(), name: name}
}

// Name returns the child name, or "" for a root logger.
func (l *Logger) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

// SetVerbose enables or disables verbose logging.
func (l *Logger) SetVerbose(v bool) {
	b := l.base()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func (l *Logger) IsVerbose() bool {
	b := l.base()
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.verbose
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	b := l.base()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.output = w
}

// printf holds the write lock so concurrent lines never interleave.
func (l *Logger) printf(level, format string, args ...any) {
	b := l.base()
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.verbose {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if name := l.Name(); name != "" {
		msg = name + ": " + msg
	}
	fmt.Fprintf(b.output, "%s %s\n", level, msg)
}

// Debug prints a message if verbose mode is enabled.
func (l *Logger) Debug(format string, args ...any) {
	l.printf("[DEBUG]", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func (l *Logger) Info(format string, args ...any) {
	l.printf("[INFO]", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func (l *Logger) Warn(format string, args ...any) {
	l.printf("[WARN]", format, args...)
}

// Section prints a section header if verbose mode is enabled.
// Sections are not prefixed with the child name.
func (l *Logger) Section(name string) {
	b := l.base()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.verbose {
		fmt.Fprintf(b.output, "\n=== %s ===\n", name)
	}
}

// SetVerbose enables or disables verbose logging on the default logger.
func SetVerbose(v bool) { std.SetVerbose(v) }

// IsVerbose returns true if the default logger is verbose.
func IsVerbose() bool { return std.IsVerbose() }

// SetOutput sets the output writer for the default logger.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) { std.SetOutput(w) }

// Debug prints a message on the default logger.
func Debug(format string, args ...any) { std.Debug(format, args...) }

// Section prints a section header on the default logger.
func Section(name string) { std.Section(name) }

// Info prints an informational message on the default logger.
func Info(format string, args ...any) { std.Info(format, args...) }

// Warn prints a warning message on the default logger.
func Warn(format string, args ...any) { std.Warn(format, args...) }
