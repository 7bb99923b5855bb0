package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer, severity Severity) *Logger {
	out := &ConsoleOutput{writer: buf, color: false}
	return NewLogger(Config{Severity: severity, Outputs: []Output{out}})
}

func TestLoggerSeverityFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, WARN)

	logger.Debug(context.Background(), "debug message")
	logger.Info(context.Background(), "info message")
	assert.Empty(t, buf.String())

	logger.Warn(context.Background(), "warn message")
	assert.Contains(t, buf.String(), "warn message")
}

func TestLoggerContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, DEBUG)

	ctx := WithDocumentID(context.Background(), "doc-42")
	ctx = WithModelID(ctx, "claude-sonnet-4-5")
	ctx = WithAttempt(ctx, 2)

	logger.Info(ctx, "critique scored %.2f", 0.85)

	out := buf.String()
	assert.Contains(t, out, "critique scored 0.85")
	assert.Contains(t, out, "[document=doc-42]")
	assert.Contains(t, out, "[model=claude-sonnet-4-5]")
	assert.Contains(t, out, "[attempt=2]")
}

func TestLoggerDefaultFields(t *testing.T) {
	var buf bytes.Buffer
	out := &ConsoleOutput{writer: &buf, color: false}
	logger := NewLogger(Config{
		Severity:      INFO,
		Outputs:       []Output{out},
		DefaultFields: map[string]interface{}{"component": "orchestrator"},
	})

	logger.Info(context.Background(), "loop finished")
	assert.Contains(t, buf.String(), "component=orchestrator")
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, DEBUG, ParseSeverity("DEBUG"))
	assert.Equal(t, ERROR, ParseSeverity("ERROR"))
	assert.Equal(t, INFO, ParseSeverity("bogus"))
}

func TestGetLoggerSingleton(t *testing.T) {
	l1 := GetLogger()
	require.NotNil(t, l1)
	assert.Same(t, l1, GetLogger())

	custom := NewLogger(Config{Severity: DEBUG})
	SetLogger(custom)
	defer SetLogger(l1)
	assert.Same(t, custom, GetLogger())
}
