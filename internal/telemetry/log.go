// Package telemetry provides the three-stream leveled logger shared by every
// long-running component of the tactics engine.
package telemetry

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// LogLevel identifies a logging stream.
type LogLevel int

const (
	// LogOps routes to the ops stream: actionable warnings/errors and lifecycle events.
	LogOps LogLevel = iota
	// LogDiag routes to the diag stream: day-to-day diagnostics.
	LogDiag
	// LogTrace routes to the trace stream: high-frequency per-frame/per-job telemetry.
	LogTrace
)

// LogWriters holds the io.Writers backing each stream.
type LogWriters struct {
	Ops   io.Writer
	Diag  io.Writer
	Trace io.Writer
}

var (
	mu          sync.RWMutex
	opsLogger   *log.Logger
	diagLogger  *log.Logger
	traceLogger *log.Logger
)

// SetLogWriters configures all three streams at once. A nil writer disables
// that stream.
func SetLogWriters(w LogWriters) {
	mu.Lock()
	defer mu.Unlock()
	opsLogger = newLogger("[tactics] ", w.Ops)
	diagLogger = newLogger("[tactics] ", w.Diag)
	traceLogger = newLogger("[tactics] ", w.Trace)
}

// SetLogWriter configures a single stream. A nil writer disables it.
func SetLogWriter(level LogLevel, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	switch level {
	case LogOps:
		opsLogger = newLogger("[tactics] ", w)
	case LogDiag:
		diagLogger = newLogger("[tactics] ", w)
	case LogTrace:
		traceLogger = newLogger("[tactics] ", w)
	default:
		panic(fmt.Sprintf("telemetry.SetLogWriter: unknown LogLevel %d", level))
	}
}

func newLogger(prefix string, w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, prefix, log.LstdFlags|log.Lmicroseconds)
}

// Opsf logs to the ops stream.
func Opsf(format string, args ...interface{}) {
	mu.RLock()
	l := opsLogger
	mu.RUnlock()
	if l != nil {
		l.Output(2, fmt.Sprintf(format, args...))
	}
}

// Diagf logs to the diag stream.
func Diagf(format string, args ...interface{}) {
	mu.RLock()
	l := diagLogger
	mu.RUnlock()
	if l != nil {
		l.Output(2, fmt.Sprintf(format, args...))
	}
}

// Tracef logs to the trace stream.
func Tracef(format string, args ...interface{}) {
	mu.RLock()
	l := traceLogger
	mu.RUnlock()
	if l != nil {
		l.Output(2, fmt.Sprintf(format, args...))
	}
}
