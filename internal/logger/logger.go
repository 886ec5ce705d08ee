// Package logger is the shared stderr logger for the archivist
// pipelines. Messages are gated behind the --verbose flag so the CLI's
// primary output stays clean; the sync engine and adapters log crawl
// progress, skips and retry outcomes through it.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	out     io.Writer = os.Stderr
)

// SetVerbose toggles verbose logging. Wired to the root --verbose flag.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose logging is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output. Defaults to os.Stderr; tests capture
// it with a buffer.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Debug logs fine-grained pipeline detail, such as per-file skips.
func Debug(format string, args ...any) {
	logf("[DEBUG] ", format, args...)
}

// Info logs progress milestones.
func Info(format string, args ...any) {
	logf("[INFO] ", format, args...)
}

// Warn logs recoverable problems, such as a file that failed after
// retries or a cursor that could not be advanced.
func Warn(format string, args ...any) {
	logf("[WARN] ", format, args...)
}

// Section prints a visual divider between crawl phases.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(out, "\n=== %s ===\n", name)
	}
}

func logf(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(out, prefix+format+"\n", args...)
}
