package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("sync complete", "app", "Cursor")

	out := buf.String()
	assert.Contains(t, out, "sync complete")
	assert.Contains(t, out, "app=Cursor")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatJSON,
		Output: &buf,
	})

	logger.Info("sync complete", "app", "Cursor")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{"), "expected JSON output, got %q", out)
	assert.Contains(t, out, `"app":"Cursor"`)
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelWarn,
		Format: FormatText,
		Output: &buf,
	})

	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Warn("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{0, slog.LevelInfo},
		{1, slog.LevelDebug},
		{2, slog.LevelDebug - 4},
		{5, slog.LevelDebug - 4},
		{-1, slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFromVerbosity(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := NewDiscard()
	ctx := NewContext(context.Background(), logger)
	require.Same(t, logger, FromContext(ctx))
}

func TestFromContext_Fallback(t *testing.T) {
	got := FromContext(context.Background())
	require.NotNil(t, got)
}

func TestMultiHandler(t *testing.T) {
	var a, b bytes.Buffer
	handler := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)
	logger := slog.New(handler)

	logger.Info("fanout", "key", "value")

	assert.Contains(t, a.String(), "fanout")
	assert.Contains(t, b.String(), `"fanout"`)
}

func TestHandler_GroupPrefixesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil)).WithGroup("sync")

	logger.Info("msg", "app", "VSCode")

	assert.Contains(t, buf.String(), "sync.app=VSCode")
}
