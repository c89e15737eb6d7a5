package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

func TestNilLoggerIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		LogDispatchStart(nil, "issue", "id", 1)
		LogDispatchComplete(nil, "issue", "id", 1, 1)
		LogCallbackComplete(nil, "issue", "id", 1)
		LogCallbackError(nil, "issue", "id", errors.New("boom"), 1)
	})
	assert.Nil(t, EnrichLogger(nil, "issue", "id"))
}

func TestEnrichLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := EnrichLogger(newJSONLogger(&buf), "issue", "evt-1")
	logger.Info("handling")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "issue", lines[0]["event_type"])
	assert.Equal(t, "evt-1", lines[0]["event_id"])
}

func TestDispatchLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf)

	LogDispatchStart(logger, "issue", "evt-1", 2)
	LogDispatchComplete(logger, "issue", "evt-1", 2, 1.5)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "DEBUG", lines[0]["level"])
	assert.Equal(t, "dispatch starting", lines[0]["msg"])
	assert.Equal(t, float64(2), lines[0]["callbacks"])

	assert.Equal(t, "dispatch completed", lines[1]["msg"])
	assert.Equal(t, float64(2), lines[1]["callbacks_invoked"])
	assert.Equal(t, 1.5, lines[1]["duration_ms"])
}

func TestLogCallbackError(t *testing.T) {
	var buf bytes.Buffer
	LogCallbackError(newJSONLogger(&buf), "push", "evt-2", errors.New("boom"), 4)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "ERROR", lines[0]["level"])
	assert.Equal(t, "callback failed", lines[0]["msg"])
	assert.Equal(t, "boom", lines[0]["error"])
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), 5.0)
}
