package server

import (
	"analytics-proxy/internal/config"
	"analytics-proxy/internal/testutil"
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestLevelHandler_OnlyPassesItsLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := &LevelHandler{
		level:   slog.LevelWarn,
		handler: slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}
	logger := slog.New(handler)

	logger.Info("informational")
	logger.Warn("warning")
	logger.Error("failure")

	assert.False(t, handler.Enabled(context.Background(), slog.LevelError))
	assert.Contains(t, buf.String(), "warning")
	assert.NotContains(t, buf.String(), "informational")
	assert.NotContains(t, buf.String(), "failure")
}

func TestMultiHandler_FansOut(t *testing.T) {
	var debugBuf, errorBuf bytes.Buffer
	handler := NewMultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(handler).With("component", "test")

	logger.Debug("details")
	logger.Error("broken")

	assert.Contains(t, debugBuf.String(), "details")
	assert.Contains(t, debugBuf.String(), "broken")
	assert.Contains(t, debugBuf.String(), "component=test")
	assert.NotContains(t, errorBuf.String(), "details")
	assert.Contains(t, errorBuf.String(), "broken")
}

func TestStackTraceHandler_AddsStackToErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewStackTraceHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("fine")
	assert.NotContains(t, buf.String(), "stack=")

	logger.Error("broken")
	assert.Contains(t, buf.String(), "stack=")
}

func TestSetupLogger_ProductionWritesLevelFiles(t *testing.T) {
	cfg := testutil.NewTestConfig()
	cfg.Server.Mode = config.ModeProduction
	cfg.Log.Level = "info"
	cfg.Log.Directory = filepath.Join(t.TempDir(), "logs")

	logger, closer, err := setupLogger(cfg)
	require.NoError(t, err)

	logger.Info("request served", "path", "/health")
	logger.Error("upstream unreachable")
	require.NoError(t, closer.Close())

	_, err = os.Stat(filepath.Join(cfg.Log.Directory, "debug.log"))
	assert.True(t, os.IsNotExist(err), "debug.log must not be created below the configured level")

	info, err := os.ReadFile(filepath.Join(cfg.Log.Directory, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), `"msg":"request served"`)
	assert.NotContains(t, string(info), "upstream unreachable")

	errorLog, err := os.ReadFile(filepath.Join(cfg.Log.Directory, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errorLog), "upstream unreachable")
}

func TestSetupLogger_NoFilesOutsideProduction(t *testing.T) {
	cfg := testutil.NewTestConfig()
	cfg.Log.Directory = filepath.Join(t.TempDir(), "logs")

	_, closer, err := setupLogger(cfg)
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	_, err = os.Stat(cfg.Log.Directory)
	assert.True(t, os.IsNotExist(err))
}
