package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xiadan-agent/internal/config"
)

func fileConfig() config.LoggingConfig {
	return config.LoggingConfig{
		Level:      "info",
		Encoding:   "console",
		EnableFile: true,
		MaxSizeMB:  10,
		MaxBackups: 1,
		MaxAgeDays: 1,
	}
}

func TestNewLoggerCallerPointsAtCallSite(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(fileConfig(), dir)
	require.NoError(t, err)

	logger.Info("测试日志")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "agent.log"))
	require.NoError(t, err)

	line, err := bufio.NewReader(bytes.NewReader(data)).ReadBytes('\n')
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(line, &entry))

	// caller 必须指向调用点本身，而不是上层栈帧。
	caller, _ := entry["caller"].(string)
	assert.Contains(t, caller, "log/logger_test.go")
	assert.Equal(t, "xiadan-agent", entry["service"])
	assert.Equal(t, "测试日志", entry["msg"])
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	cfg := fileConfig()
	cfg.Level = "loud"
	_, err := NewLogger(cfg, t.TempDir())
	require.Error(t, err)
}

func TestNewLoggerRejectsBadEncoding(t *testing.T) {
	cfg := fileConfig()
	cfg.Encoding = "xml"
	_, err := NewLogger(cfg, t.TempDir())
	require.Error(t, err)
}
