package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
vision:
  enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "xiadan.exe", cfg.Window.ProcessName)
	assert.Equal(t, 200*time.Millisecond, cfg.Input.KeySettle)
	assert.Equal(t, time.Second, cfg.Input.QuerySettle)
	assert.Equal(t, 7, cfg.Retention.Days)
	assert.Equal(t, "qwen3-vl-plus", cfg.Vision.Model)
	assert.True(t, cfg.Logging.EnableFile)
}

func TestLoadRejectsZeroDelays(t *testing.T) {
	path := writeConfig(t, `
vision:
  enabled: false
input:
  char_interval: 0s
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "char_interval")
}

func TestLoadRequiresVisionKeyWhenEnabled(t *testing.T) {
	t.Setenv("DASHSCOPE_API_KEY", "")
	t.Setenv("XIADAN_VISION_API_KEY", "")
	path := writeConfig(t, `
vision:
  enabled: true
  api_key: ""
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestLoadReadsKeyFromDashScopeEnv(t *testing.T) {
	t.Setenv("DASHSCOPE_API_KEY", "sk-test")
	path := writeConfig(t, `
vision:
  enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.Vision.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
