package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestIDIsAttached(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := Wrap(zap.New(core))

	ctx := ContextWithRequestID(context.Background(), "req-42")
	logger.Info(ctx, "saved", zap.Int64("id", 7))
	logger.Warn(context.Background(), "no request")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	assert.Equal(t, int64(7), entries[0].ContextMap()["id"])
	_, ok := entries[1].ContextMap()["request_id"]
	assert.False(t, ok)
}

func TestFromContextFallsBackToNop(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	logger := Nop()
	ctx := ContextWithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}

func TestRequestIDDoesNotMutateCallerFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := Wrap(zap.New(core))
	ctx := ContextWithRequestID(context.Background(), "req-1")

	fields := make([]zap.Field, 1, 4)
	fields[0] = zap.String("k", "v")
	spare := fields[:2]
	spare[1] = zap.String("sentinel", "kept")

	logger.Info(ctx, "first", fields...)

	assert.Equal(t, "sentinel", spare[1].Key)
	assert.Len(t, fields, 1)
	require.Len(t, logs.All(), 1)
	assert.Equal(t, "req-1", logs.All()[0].ContextMap()["request_id"])
}
