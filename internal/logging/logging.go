// File: internal/logging/logging.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Daemon logger on top of zerolog. Every line goes to stderr; once the
// listeners are up, lines carry a UTC timestamp prefix in the form
// "YYYY-MM-DD HH:MM:SS :: ". The logger also accounts the total number of
// bytes it has emitted.

package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

const (
	tsField  = "ts"
	tsLayout = "2006-01-02 15:04:05"
)

// Logger writes plain diagnostic lines with an optional timestamp prefix.
// It is owned by the event loop and is not safe for concurrent use.
type Logger struct {
	cw    *countingWriter
	zl    zerolog.Logger
	timed bool
	now   func() time.Time
}

// New creates a logger writing to w. Timestamps are off until EnableTime.
func New(w io.Writer) *Logger {
	cw := &countingWriter{w: w}
	console := zerolog.ConsoleWriter{
		Out:           cw,
		NoColor:       true,
		PartsOrder:    []string{tsField, zerolog.MessageFieldName},
		FieldsExclude: []string{tsField},
		FormatFieldValue: func(i any) string {
			s, ok := i.(string)
			if !ok || s == "" {
				return ""
			}
			return s + " ::"
		},
	}
	return &Logger{
		cw:  cw,
		zl:  zerolog.New(console),
		now: time.Now,
	}
}

// EnableTime turns on the timestamp prefix. The daemon flips this once the
// listening sockets are open, so usage errors print bare.
func (l *Logger) EnableTime() {
	l.timed = true
}

// Printf emits one formatted log line.
func (l *Logger) Printf(format string, args ...any) {
	e := l.zl.Log()
	if l.timed {
		e = e.Str(tsField, l.now().UTC().Format(tsLayout))
	}
	e.Msgf(format, args...)
}

// Separator emits a bare newline, separating signal-triggered lines from
// any partial terminal input. It bypasses byte accounting.
func (l *Logger) Separator() {
	_, _ = l.cw.w.Write([]byte("\n"))
}

// Size reports the total bytes of log output emitted so far.
func (l *Logger) Size() int64 {
	return l.cw.n
}

// countingWriter tracks how many bytes pass through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
