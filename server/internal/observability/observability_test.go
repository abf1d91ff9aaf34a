package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestContextLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reqCtx := NewRequestContextWithID(logger, "req-1", "/api/v1/tasks", "alice")
	reqCtx.Error("failed to list tasks", errors.New("boom"), slog.Int(LogFieldStatus, 500))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry[LogFieldRequestID])
	assert.Equal(t, "alice", entry[LogFieldOwnerID])
	assert.Equal(t, "/api/v1/tasks", entry[LogFieldRoute])
	assert.Equal(t, "boom", entry["error"])
	assert.EqualValues(t, 500, entry[LogFieldStatus])
}

func TestRequestContextRoundTrip(t *testing.T) {
	reqCtx := NewRequestContext(nil, "/healthz", "bob")
	assert.Len(t, reqCtx.RequestID, 36)

	ctx := WithRequestContext(context.Background(), reqCtx)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, reqCtx, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
	assert.Same(t, slog.Default(), LoggerFromContext(context.Background()))
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := WithRequestContext(context.Background(), NewRequestContextWithID(logger, "req-2", "/api/v1/goal", "carol"))

	LoggerFromContext(ctx).Info("goal saved", slog.Int("targetScore", 800))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-2", entry[LogFieldRequestID])
	assert.Equal(t, "carol", entry[LogFieldOwnerID])
	assert.EqualValues(t, 800, entry["targetScore"])
}

func TestMetrics(t *testing.T) {
	m := NewMetrics(2)
	m.RecordRequest("/a", 10*time.Millisecond, false)
	m.RecordRequest("/a", 30*time.Millisecond, true)
	m.RecordRequest("/b", 5*time.Millisecond, false)

	snapshot := m.Snapshot()
	assert.EqualValues(t, 3, snapshot.RequestTotal)
	assert.EqualValues(t, 1, snapshot.RequestFailed)
	assert.Len(t, snapshot.Routes, 2)
	assert.Equal(t, 2, snapshot.DurationCount)
	assert.EqualValues(t, 2, snapshot.Routes["/a"].RequestCount)
	assert.EqualValues(t, 20, snapshot.Routes["/a"].AverageDuration)
	assert.EqualValues(t, 1, snapshot.Routes["/a"].ErrorCount)
	assert.InDelta(t, 66.67, snapshot.SuccessRate(), 0.01)

	assert.EqualValues(t, 100, NewMetrics(0).Snapshot().SuccessRate())
}
