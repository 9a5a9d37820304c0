package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	old := logger
	SetLogger(zap.New(core))
	t.Cleanup(func() { logger = old })
	return logs
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantErr, err != nil, tt.in)
	}
}

func TestInitializeSilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	old := logger
	t.Cleanup(func() { logger = old })

	require.NoError(t, Initialize(""))
	assert.False(t, GetLogger().Core().Enabled(zapcore.ErrorLevel))
}

func TestInitializeFromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")
	old := logger
	t.Cleanup(func() { logger = old })

	require.NoError(t, InitializeFromEnv())
	assert.True(t, GetLogger().Core().Enabled(zapcore.WarnLevel))
	assert.False(t, GetLogger().Core().Enabled(zapcore.InfoLevel))
}

func TestLogLoad(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)

	LogLoad("robot.yaml", "yaml", 12, 5, time.Millisecond)
	LogLoadFailure("bad.xml", "xml", errors.New("boom"))
	LogSync("robot.yaml", true, time.Unix(0, 0))
	LogWatchEvent("robot.yaml", "WRITE")

	entries := logs.All()
	require.Len(t, entries, 4)

	assert.Equal(t, "Document loaded", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "robot.yaml", fields["source"])
	assert.Equal(t, "yaml", fields["format"])
	assert.Equal(t, int64(12), fields["nodes"])
	assert.Equal(t, int64(5), fields["labels"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])

	assert.Equal(t, true, entries[2].ContextMap()["reloaded"])
	assert.Equal(t, "WRITE", entries[3].ContextMap()["op"])
}

func TestGetLoggerFallback(t *testing.T) {
	old := logger
	logger = nil
	t.Cleanup(func() { logger = old })
	assert.NotNil(t, GetLogger())
	Info("dropped")
}
