package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogSinkWritesEverySpanInOrder(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := NewLogSink(zap.New(core))

	batch := make([]json.RawMessage, 5)
	for i := range batch {
		batch[i] = json.RawMessage(fmt.Sprintf(`{"id":%d}`, i))
	}

	sink.Flush(context.Background(), batch)

	entries := logs.FilterMessage("span recording").All()
	require.Len(t, entries, 5)
	for i, entry := range entries {
		require.Len(t, entry.Context, 1)
		assert.Equal(t, "span", entry.Context[0].Key)
		assert.JSONEq(t, fmt.Sprintf(`{"id":%d}`, i), string(entry.Context[0].Interface.([]byte)))
	}
}

func TestLogSinkEmptyBatch(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := NewLogSink(zap.New(core))

	sink.Flush(context.Background(), nil)

	assert.Zero(t, logs.Len())
}
