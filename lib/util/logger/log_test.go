package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"DEBUG":   logrus.DebugLevel,
		"info":    logrus.InfoLevel,
		"warn":    logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"verbose": logrus.DebugLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestGetSCAMLoggerIsShared(t *testing.T) {
	assert.Same(t, GetSCAMLogger(), GetSCAMLogger())
}

func TestWithFieldsWritesStructuredEntry(t *testing.T) {
	l := &Logger{Logger: logrus.New()}
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	l.WithFields(Fields{"at": "test", "path": "/tmp/x"}).Debug("hello")

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "at=test")
	assert.Contains(t, out, "path=/tmp/x")
}

func TestEntryWarnFailsFast(t *testing.T) {
	l := &Logger{Logger: logrus.New()}
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	var exits []int
	l.ExitFunc = func(code int) { exits = append(exits, code) }

	l.WithField("at", "test").WithError(assert.AnError).Warn("soft")
	assert.Empty(t, exits)
	assert.Contains(t, buf.String(), "level=warning")

	saved := failFast
	failFast = "1"
	t.Cleanup(func() { failFast = saved })

	buf.Reset()
	l.WithFields(Fields{"at": "test"}).Warn("boom")
	l.WithField("at", "test").Errorf("bad %d", 2)
	assert.Equal(t, []int{1, 1}, exits)
	assert.Contains(t, buf.String(), "level=fatal")
	assert.Contains(t, buf.String(), "at=test")
}
