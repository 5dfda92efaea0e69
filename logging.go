package bitcask

import (
	"io"
	"log"
)

// Logger receives non-fatal reports from the store: sync failures on
// teardown, merge progress. Wrap a structured logger (slog, zap) if
// needed; the default is Discard.
type Logger interface {
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
	Debugf(format string, args ...any)
}

type discardLogger struct{}

// Discard is a no-op logger.
var Discard Logger = discardLogger{}

func (discardLogger) Errorf(string, ...any) {}
func (discardLogger) Warnf(string, ...any)  {}
func (discardLogger) Infof(string, ...any)  {}
func (discardLogger) Debugf(string, ...any) {}

type stdLogger struct {
	l *log.Logger
}

// NewStdLogger returns a Logger backed by the standard library's log
// package, writing leveled lines to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{l: log.New(w, "bitcask ", log.LstdFlags)}
}

func (s *stdLogger) Errorf(format string, args ...any) { s.l.Printf("ERROR "+format, args...) }
func (s *stdLogger) Warnf(format string, args ...any)  { s.l.Printf("WARN "+format, args...) }
func (s *stdLogger) Infof(format string, args ...any)  { s.l.Printf("INFO "+format, args...) }
func (s *stdLogger) Debugf(format string, args ...any) { s.l.Printf("DEBUG "+format, args...) }
