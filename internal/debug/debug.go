// Package debug provides opt-in diagnostic logging. The engine is a library
// embedded in automation agents whose stdout/stderr often carry a protocol,
// so nothing is ever written unless a writer is explicitly configured or
// debug mode is enabled.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// EnableDebug can be overridden at build time:
// go build -ldflags "-X github.com/domlocate/domlocate/internal/debug.EnableDebug=true"
var EnableDebug = "false"

var (
	mu     sync.Mutex
	output io.Writer
)

// SetOutput sets the writer for debug output. Pass nil to disable output
// entirely.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// IsEnabled reports whether debug logging is active, via the build flag or
// the DEBUG environment variable.
func IsEnabled() bool {
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("DEBUG")
	return v == "1" || v == "true"
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// Log writes component-tagged debug output when enabled and configured.
func Log(component, format string, args ...interface{}) {
	if !IsEnabled() {
		return
	}
	w := writer()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:"+component+"] "+format+"\n", args...)
}

// LogResolve logs resolution pipeline decisions.
func LogResolve(format string, args ...interface{}) {
	Log("RESOLVE", format, args...)
}

// LogJudge logs judgment-service calls and degradations.
func LogJudge(format string, args ...interface{}) {
	Log("JUDGE", format, args...)
}

// LogCache logs result-cache hits, misses, and invalidations.
func LogCache(format string, args ...interface{}) {
	Log("CACHE", format, args...)
}

// LogRegistry logs registration and session lifecycle events.
func LogRegistry(format string, args ...interface{}) {
	Log("REGISTRY", format, args...)
}
