package calculation

import (
	"io"
	"log"
)

// Logger is a minimal logging interface for the calculation engine.
// Implementations should be fast; the default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// StdLogger writes level-prefixed lines to a standard library logger.
// Debug lines are dropped unless Verbose is set.
type StdLogger struct {
	Out     *log.Logger
	Verbose bool
}

// NewStdLogger creates a StdLogger writing to w with date and time flags.
func NewStdLogger(w io.Writer, verbose bool) *StdLogger {
	return &StdLogger{Out: log.New(w, "", log.LstdFlags), Verbose: verbose}
}

func (l *StdLogger) Debugf(format string, args ...any) {
	if l.Verbose {
		l.Out.Printf("[DEBUG] "+format, args...)
	}
}

func (l *StdLogger) Infof(format string, args ...any)  { l.Out.Printf("[INFO] "+format, args...) }
func (l *StdLogger) Warnf(format string, args ...any)  { l.Out.Printf("[WARN] "+format, args...) }
func (l *StdLogger) Errorf(format string, args ...any) { l.Out.Printf("[ERROR] "+format, args...) }
