package logging

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Verbose(format string, args ...interface{}) { r.record("V", format, args...) }
func (r *recordingLogger) Info(format string, args ...interface{})    { r.record("I", format, args...) }
func (r *recordingLogger) Warn(format string, args ...interface{})    { r.record("W", format, args...) }
func (r *recordingLogger) Error(format string, args ...interface{})   { r.record("E", format, args...) }

func (r *recordingLogger) record(level, format string, args ...interface{}) {
	r.lines = append(r.lines, level+" "+fmt.Sprintf(format, args...))
}

func TestMulti_FansOutToAllSinks(t *testing.T) {
	a := &recordingLogger{}
	b := &recordingLogger{}

	l := Multi(a, b)
	l.Info("hello %s", "world")
	l.Warn("careful")
	l.Error("bad")
	l.Verbose("detail")

	want := []string{"I hello world", "W careful", "E bad", "V detail"}
	assert.Equal(t, want, a.lines)
	assert.Equal(t, want, b.lines)
}
