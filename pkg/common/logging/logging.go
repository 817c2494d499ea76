// Package logging builds the logrus loggers used by gocsp background loops.
//
// Library components never log unless a logger is configured: Discard is the
// default everywhere a Config carries a Logger field.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	discard     *logrus.Logger
	discardOnce sync.Once
)

// New creates a text logger writing to stderr at the given level.
// Unknown levels fall back to info.
func New(level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(ParseLevel(level))
	return l
}

// NewWithOutput is New writing to out.
func NewWithOutput(level string, out io.Writer) *logrus.Logger {
	l := New(level)
	l.SetOutput(out)
	return l
}

// ParseLevel maps a level name to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Discard returns a shared logger that drops every entry.
func Discard() logrus.FieldLogger {
	discardOnce.Do(func() {
		discard = logrus.New()
		discard.SetOutput(io.Discard)
		discard.SetLevel(logrus.PanicLevel)
	})
	return discard
}

// OrDiscard returns l, or Discard when l is nil.
func OrDiscard(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return Discard()
	}
	return l
}

// Component returns l scoped to a component and instance name.
func Component(l logrus.FieldLogger, component, name string) logrus.FieldLogger {
	entry := OrDiscard(l).WithField("component", component)
	if name != "" {
		entry = entry.WithField("name", name)
	}
	return entry
}
