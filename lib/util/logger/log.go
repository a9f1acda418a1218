package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	log  *Logger
	once sync.Once
)

// Fields is the structured field set attached to a log entry.
type Fields = logrus.Fields

type Logger struct {
	*logrus.Logger
}

func (l *Logger) Warn(args ...interface{}) {
	warnFatal(args...)
	l.Logger.Warn(args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	warnFatalf(format, args...)
	l.Logger.Warnf(format, args...)
}

func (l *Logger) Error(args ...interface{}) {
	warnFatal(args...)
	l.Logger.Error(args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	warnFatalf(format, args...)
	l.Logger.Errorf(format, args...)
}

// Entry is a logrus entry whose warnings and errors honor WARNFAIL_SCAM.
type Entry struct {
	*logrus.Entry
}

func (l *Logger) WithField(key string, value interface{}) *Entry {
	return &Entry{l.Logger.WithField(key, value)}
}

func (l *Logger) WithFields(fields Fields) *Entry {
	return &Entry{l.Logger.WithFields(fields)}
}

func (l *Logger) WithError(err error) *Entry {
	return &Entry{l.Logger.WithError(err)}
}

func (e *Entry) WithField(key string, value interface{}) *Entry {
	return &Entry{e.Entry.WithField(key, value)}
}

func (e *Entry) WithFields(fields Fields) *Entry {
	return &Entry{e.Entry.WithFields(fields)}
}

func (e *Entry) WithError(err error) *Entry {
	return &Entry{e.Entry.WithError(err)}
}

func (e *Entry) Warn(args ...interface{}) {
	if failFast != "" {
		e.Entry.Fatal(args...)
	}
	e.Entry.Warn(args...)
}

func (e *Entry) Warnf(format string, args ...interface{}) {
	if failFast != "" {
		e.Entry.Fatalf(format, args...)
	}
	e.Entry.Warnf(format, args...)
}

func (e *Entry) Error(args ...interface{}) {
	if failFast != "" {
		e.Entry.Fatal(args...)
	}
	e.Entry.Error(args...)
}

func (e *Entry) Errorf(format string, args ...interface{}) {
	if failFast != "" {
		e.Entry.Fatalf(format, args...)
	}
	e.Entry.Errorf(format, args...)
}

func warnFatal(args ...interface{}) {
	if failFast != "" {
		log.Fatal(args...)
	}
}

func warnFatalf(format string, args ...interface{}) {
	if failFast != "" {
		log.Fatalf(format, args...)
	}
}

var failFast string

// InitializeSCAMLogger configures the shared logger from DEBUG_SCAM and
// WARNFAIL_SCAM. Logging is discarded unless DEBUG_SCAM is set.
func InitializeSCAMLogger() {
	once.Do(func() {
		log = &Logger{}
		log.Logger = logrus.New()
		log.SetOutput(io.Discard)
		log.SetLevel(logrus.PanicLevel)
		if logLevel := os.Getenv("DEBUG_SCAM"); logLevel != "" {
			failFast = os.Getenv("WARNFAIL_SCAM")
			if failFast != "" {
				logLevel = "debug"
			}
			log.SetOutput(os.Stderr)
			log.SetLevel(parseLevel(logLevel))
			log.WithField("level", log.GetLevel()).Debug("Logging enabled.")
		}
	})
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.DebugLevel
	}
}

// GetSCAMLogger returns the initialized Logger
func GetSCAMLogger() *Logger {
	if log == nil {
		InitializeSCAMLogger()
	}
	return log
}

func init() {
	InitializeSCAMLogger()
}
