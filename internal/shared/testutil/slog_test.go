package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	logger, handler := NewTestLogger(t)

	logger.With("component", "parser").Info("parse started", slog.String("source", "a.saf"))
	logger.WithGroup("req").Error("parse failed", slog.Int("line", 12))
	logger.Debug("row emitted")

	require.Equal(t, 3, handler.Count())
	assert.True(t, handler.ContainsMessage("parse started"))
	assert.True(t, handler.ContainsAttr("component", "parser"))
	assert.True(t, handler.ContainsAttr("source", "a.saf"))
	assert.True(t, handler.ContainsAttr("req.line", int64(12)))
	assert.Len(t, handler.RecordsAt(slog.LevelError), 1)
	AssertLogContains(t, handler, slog.LevelDebug, "row")

	rec, ok := handler.Find("failed")
	require.True(t, ok)
	assert.Equal(t, slog.LevelError, rec.Level)

	handler.Clear()
	assert.Zero(t, handler.Count())
	AssertNoErrors(t, handler)
}
