// Package klog is the kernel-style log sink. Every subsystem writes through
// one Logger; lines carry the node identifier and a severity tag so the
// session transcript reads like a syslog stream.
package klog

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/kafkaos/kafkaos/internal/model"
)

// Logger writes timestamped kernel log lines to a single sink.
// It is append-only and fire-and-forget: Logf never fails.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	node  string
	clock func() time.Time
	pace  func()
}

// Option configures a Logger.
type Option func(*Logger)

// WithClock overrides the wall clock used for line timestamps.
func WithClock(clock func() time.Time) Option {
	return func(l *Logger) { l.clock = clock }
}

// WithPace installs a hook invoked after every line, used to pace the
// transcript to terminal reading speed. A nil hook disables pacing.
func WithPace(pace func()) Option {
	return func(l *Logger) { l.pace = pace }
}

// New creates a Logger writing to out with the given node identifier.
func New(out io.Writer, node string, opts ...Option) *Logger {
	l := &Logger{
		out:   out,
		node:  node,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Logf writes one log line at the given severity.
func (l *Logger) Logf(sev model.Severity, format string, args ...any) {
	l.mu.Lock()
	ts := l.clock().Format("2006-01-02 15:04:05.000")
	fmt.Fprintf(l.out, "%s %s kernel: [%s] %s\n", ts, l.node, sev, fmt.Sprintf(format, args...))
	l.mu.Unlock()
	if l.pace != nil {
		l.pace()
	}
}
