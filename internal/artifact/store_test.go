package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xiadan-agent/internal/config"
	"xiadan-agent/internal/trade"
)

func testConfig(base string) config.RetentionConfig {
	return config.RetentionConfig{BaseDir: base, Days: 7}
}

func writeAged(t *testing.T, path string, age time.Duration) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	old := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, old, old))
}

func TestNewStoreSweepsExpiredArtifacts(t *testing.T) {
	base := t.TempDir()
	shotDir := filepath.Join(base, "screenshots")
	assetDir := filepath.Join(base, "assets")
	require.NoError(t, os.MkdirAll(shotDir, 0o755))
	require.NoError(t, os.MkdirAll(assetDir, 0o755))

	expiredShot := filepath.Join(shotDir, "screenshot_old.png")
	expiredAsset := filepath.Join(assetDir, "asset_data_old.json")
	freshShot := filepath.Join(shotDir, "screenshot_new.png")
	writeAged(t, expiredShot, 10*24*time.Hour)
	writeAged(t, expiredAsset, 10*24*time.Hour)
	writeAged(t, freshShot, time.Hour)

	_, err := NewStore(testConfig(base), nil)
	require.NoError(t, err)

	assert.NoFileExists(t, expiredShot)
	assert.NoFileExists(t, expiredAsset)
	assert.FileExists(t, freshShot)
}

func TestCleanupRunsOncePerDay(t *testing.T) {
	base := t.TempDir()
	_, err := NewStore(testConfig(base), nil)
	require.NoError(t, err)

	// 第一次构造已写入清理标记，之后新放入的过期文件当天不再清理。
	expired := filepath.Join(base, "screenshots", "screenshot_old.png")
	writeAged(t, expired, 10*24*time.Hour)

	_, err = NewStore(testConfig(base), nil)
	require.NoError(t, err)
	assert.FileExists(t, expired)
}

func TestScreenshotPathLayout(t *testing.T) {
	base := t.TempDir()
	s, err := NewStore(testConfig(base), nil)
	require.NoError(t, err)
	s.now = func() time.Time {
		return time.Date(2024, 6, 3, 9, 30, 15, 0, time.Local)
	}

	path := s.ScreenshotPath()
	assert.Equal(t, filepath.Join(base, "screenshots", "screenshot_20240603_093015.png"), path)
}

func TestWriteSnapshot(t *testing.T) {
	base := t.TempDir()
	s, err := NewStore(testConfig(base), nil)
	require.NoError(t, err)

	path, err := s.WriteSnapshot(&trade.AssetSnapshot{
		TotalAssets: "100000.00",
		Positions:   nil, // 写盘前必须补成空数组
	})
	require.NoError(t, err)
	assert.FileExists(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &got))
	assert.JSONEq(t, `[]`, string(got["持仓列表"]))
	assert.JSONEq(t, `"100000.00"`, string(got["总资产"]))
}
