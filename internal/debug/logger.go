package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logger writes diagnostic lines when enabled. A nil *Logger is valid and
// discards everything, so components can take one unconditionally.
type Logger struct {
	enabled bool
	mu      sync.Mutex
	out     io.Writer
}

// New returns a logger writing to stderr when enabled.
func New(enabled bool) *Logger {
	return NewWriter(enabled, os.Stderr)
}

// NewWriter returns a logger writing to out when enabled.
func NewWriter(enabled bool, out io.Writer) *Logger {
	return &Logger{enabled: enabled, out: out}
}

// Enabled reports whether lines are written.
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}

// Infof writes a formatted log line when enabled. Callers format raw
// stream bytes with %q so control codes never reach the terminal.
func (l *Logger) Infof(format string, args ...any) {
	if !l.Enabled() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.out, "ttycodes: "+format+"\n", args...)
}
