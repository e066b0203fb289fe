package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestNew tests the New function.
func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		level zapcore.LevelEnabler
	}{
		{
			name:  "with debug level",
			level: zapcore.DebugLevel,
		},
		{
			name:  "with info level",
			level: zapcore.InfoLevel,
		},
		{
			name:  "with error level",
			level: zapcore.ErrorLevel,
		},
		{
			name:  "with nil level",
			level: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := New(tt.level)
			require.NotNil(t, l)

			if tt.level != nil {
				assert.Equal(t, tt.level.Enabled(zapcore.DebugLevel), l.Desugar().Core().Enabled(zapcore.DebugLevel))
			}
		})
	}
}

// TestParseLogLevel tests the ParseLogLevel function.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected zapcore.Level
		valid    bool
	}{
		{
			name:     "debug level",
			input:    "debug",
			expected: zapcore.DebugLevel,
			valid:    true,
		},
		{
			name:     "info level",
			input:    "info",
			expected: zapcore.InfoLevel,
			valid:    true,
		},
		{
			name:     "warn level",
			input:    "warn",
			expected: zapcore.WarnLevel,
			valid:    true,
		},
		{
			name:     "error level",
			input:    "error",
			expected: zapcore.ErrorLevel,
			valid:    true,
		},
		{
			name:     "uppercase debug",
			input:    "DEBUG",
			expected: zapcore.DebugLevel,
			valid:    true,
		},
		{
			name:     "mixed case info",
			input:    "Info",
			expected: zapcore.InfoLevel,
			valid:    true,
		},
		{
			name:     "with spaces",
			input:    " debug ",
			expected: zapcore.DebugLevel,
			valid:    true,
		},
		{
			name:     "invalid level",
			input:    "invalid",
			expected: zapcore.InfoLevel,
			valid:    false,
		},
		{
			name:     "empty string",
			input:    "",
			expected: zapcore.InfoLevel,
			valid:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			level, valid := ParseLogLevel(tt.input)
			assert.Equal(t, tt.expected, level)
			assert.Equal(t, tt.valid, valid)
		})
	}
}

// newObservedContext returns a context carrying a logger whose entries are recorded.
func newObservedContext(level zapcore.Level) (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(level)

	return ToContext(context.Background(), zap.New(core).Sugar()), logs
}

// TestSetLevel tests the SetLevel and IsDebugLevel functions.
func TestSetLevel(t *testing.T) {
	// Not parallel: the level is process-wide.
	originalLevel := Level()
	defer SetLevel(originalLevel)

	SetLevel(zapcore.DebugLevel)
	assert.Equal(t, zapcore.DebugLevel, Level())
	assert.True(t, IsDebugLevel())

	SetLevel(zapcore.ErrorLevel)
	assert.Equal(t, zapcore.ErrorLevel, Level())
	assert.False(t, IsDebugLevel())
}

// TestSetLogger tests the SetLogger function.
func TestSetLogger(t *testing.T) {
	// Not parallel: the logger is process-wide.
	originalLogger := Logger()
	defer SetLogger(originalLogger)

	replacement := New(zapcore.DebugLevel)
	SetLogger(replacement)

	assert.Same(t, replacement, Logger())
	assert.Same(t, replacement, FromContext(context.Background()))
}

// TestFromContext tests that a logger stored in a context takes precedence over the global one.
func TestFromContext(t *testing.T) {
	t.Parallel()

	named := New(zapcore.DebugLevel).Named("transporter")
	ctx := ToContext(context.Background(), named)

	assert.Same(t, named, FromContext(ctx))
	assert.NotNil(t, FromContext(nil)) //nolint:staticcheck // A nil context falls back to the global logger.
}

// TestContextLoggingFunctions tests that the helpers write through the context logger.
func TestContextLoggingFunctions(t *testing.T) {
	t.Parallel()

	ctx, logs := newObservedContext(zapcore.DebugLevel)

	Debug(ctx, "debug message")
	Debugf(ctx, "debug %s", "formatted")
	DebugKV(ctx, "debug kv", "key", "value")
	Info(ctx, "info message")
	Infof(ctx, "info %d", 2)
	InfoKV(ctx, "info kv", "key", "value")
	Warn(ctx, "warn message")
	Warnf(ctx, "warn %s", "formatted")
	WarnKV(ctx, "warn kv", "key", "value")
	Error(ctx, "error message")
	Errorf(ctx, "error %s", "formatted")
	ErrorKV(ctx, "error kv", "key", "value")

	entries := logs.All()
	require.Len(t, entries, 12)

	assert.Equal(t, "debug formatted", entries[1].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
	assert.Equal(t, map[string]any{"key": "value"}, entries[2].ContextMap())
	assert.Equal(t, "info 2", entries[4].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[6].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[11].Level)
}

// TestContextLogging_LevelFilter tests that entries below the logger level are dropped.
func TestContextLogging_LevelFilter(t *testing.T) {
	t.Parallel()

	ctx, logs := newObservedContext(zapcore.WarnLevel)

	Debug(ctx, "dropped")
	Info(ctx, "dropped")
	Warn(ctx, "kept")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}

// TestWithNameAndKV tests that derived loggers carry the name and fields.
func TestWithNameAndKV(t *testing.T) {
	t.Parallel()

	ctx, logs := newObservedContext(zapcore.DebugLevel)

	derived := WithKV(WithName(ctx, "client"), "request_id", "abc")
	Info(derived, "sent")
	Info(ctx, "plain")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "client", entries[0].LoggerName)
	assert.Equal(t, map[string]any{"request_id": "abc"}, entries[0].ContextMap())
	assert.Empty(t, entries[1].LoggerName)
	assert.Empty(t, entries[1].ContextMap())
}

// TestLoggerThreadSafety tests concurrent logging through a shared context logger.
func TestLoggerThreadSafety(t *testing.T) {
	t.Parallel()

	ctx, logs := newObservedContext(zapcore.InfoLevel)
	done := make(chan struct{}, 10)

	for range 10 {
		go func() {
			Info(ctx, "concurrent message")

			done <- struct{}{}
		}()
	}

	for range 10 {
		<-done
	}

	assert.Equal(t, 10, logs.Len())
}
