package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, cats map[string]bool) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	setRoot(zap.New(core), cats)
	t.Cleanup(func() { setRoot(zap.NewNop(), nil) })
	return logs
}

func TestCategoryLoggerTagsEntries(t *testing.T) {
	logs := observe(t, nil)

	Get(CategoryRules).Info("loaded %s", "default")
	API("call %d", 1)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "loaded default", entries[0].Message)
	assert.Equal(t, "rules", entries[0].ContextMap()["category"])
	assert.Equal(t, "api", entries[1].ContextMap()["category"])
}

func TestDisabledCategoryIsSilent(t *testing.T) {
	logs := observe(t, map[string]bool{"api": false, "rules": true})

	APIError("should not appear")
	RulesWarn("visible")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "visible", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.False(t, IsCategoryEnabled(CategoryAPI))
	assert.True(t, IsCategoryEnabled(CategoryServer), "unlisted categories default to enabled")
}

func TestRequestLoggerCarriesID(t *testing.T) {
	logs := observe(t, nil)

	WithRequestID(CategoryTools, "req-42").WithField("tool", "create_rfc").Info("invoked")

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "req-42", ctx["req"])
	assert.Equal(t, "create_rfc", ctx["tool"])
	assert.Equal(t, "tools", ctx["category"])
}

func TestStructuredLogLevels(t *testing.T) {
	logs := observe(t, nil)

	Get(CategoryServer).StructuredLog("error", "listen failed", map[string]interface{}{"addr": ":8080"})
	Get(CategoryServer).StructuredLog("bogus", "defaults to info", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, ":8080", entries[0].ContextMap()["addr"])
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
}

func TestTimerThreshold(t *testing.T) {
	logs := observe(t, nil)

	timer := StartTimer(CategoryAPI, "generate")
	time.Sleep(2 * time.Millisecond)
	elapsed := timer.StopWithThreshold(time.Nanosecond)

	assert.GreaterOrEqual(t, elapsed, 2*time.Millisecond)
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	assert.Contains(t, logs.All()[0].Message, "generate took")

	fast := StartTimer(CategoryAPI, "load")
	fast.StopWithThreshold(time.Hour)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.DebugLevel).Len())
}

func TestInitializeWritesRotatedFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "plannerd.log")

	require.NoError(t, Initialize(Options{Level: "debug", Format: "json", File: logPath}))
	t.Cleanup(func() {
		CloseAll()
		setRoot(zap.NewNop(), nil)
	})

	Boot("starting %s", "plannerd")
	BootDebug("debug line")
	CloseAll()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `"message":"starting plannerd"`)
	assert.Contains(t, content, `"category":"boot"`)
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(content), "\n")+1)
}

func TestInitializeRespectsLevel(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "plannerd.log")

	require.NoError(t, Initialize(Options{Level: "warn", File: logPath}))
	t.Cleanup(func() {
		CloseAll()
		setRoot(zap.NewNop(), nil)
	})

	Server("info is filtered")
	ServerError("error is kept")
	CloseAll()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "info is filtered")
	assert.Contains(t, string(data), "error is kept")
}
