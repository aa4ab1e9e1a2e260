package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInfoAddsServiceField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := InfoLogger
	InfoLogger = zap.New(core)
	old := SetServiceName("signal_bot")
	t.Cleanup(func() {
		InfoLogger = prev
		SetServiceName(old)
	})

	Info("cycle %d done", 3)
	Warn("slow")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "cycle 3 done", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "signal_bot", entries[0].ContextMap()["service"])
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("loud"))
}
