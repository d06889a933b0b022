package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/bookshelf-api/internal/config"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseLevel(tc.name)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}

func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	l, err := SetupWithWriter(config.ServerConfig{LogLevel: "warn", Environment: "test"}, &buf)
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"env":"test"`)
	assert.Same(t, l, slog.Default())
}

func TestSetupWithWriter_InvalidLevel(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	l, err := SetupWithWriter(config.ServerConfig{LogLevel: "loud"}, &buf)
	require.NoError(t, err)
	require.NotNil(t, l)

	assert.Contains(t, buf.String(), "invalid log level configured")
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	l, buf := NewTestLogger(t)

	assert.Nil(t, FromContext(context.Background()))
	assert.Same(t, l, FromContextOrDefault(context.Background(), l))
	assert.NotNil(t, FromContextOrDefault(context.Background(), nil))

	ctx := WithLogger(context.Background(), l.With("trace_id", "abc"))
	FromContextOrDefault(ctx, nil).Info("hello")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0]["trace_id"])
}
