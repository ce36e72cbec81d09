// Package artifact 管理截图与资产快照文件的落盘和过期清理。
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"xiadan-agent/internal/config"
	"xiadan-agent/internal/trade"
)

const (
	screenshotDir = "screenshots"
	assetDir      = "assets"
	logDir        = "logs"

	// cleanupMarker 记录上次清理日期，保证一天只扫一次。
	cleanupMarker = ".last_cleanup"
	markerLayout  = "2006-01-02"
	stampLayout   = "20060102_150405"
)

// Store 负责生成工件路径并按保留天数清理过期文件。
type Store struct {
	baseDir string
	days    int
	logger  *zap.Logger
	now     func() time.Time
}

// NewStore 创建工件仓库并触发一次到期清理。
func NewStore(cfg config.RetentionConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		baseDir: cfg.BaseDir,
		days:    cfg.Days,
		logger:  logger,
		now:     time.Now,
	}

	for _, dir := range []string{s.ScreenshotDir(), s.AssetDir(), s.LogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("创建工件目录 %q 失败: %w", dir, err)
		}
	}

	if err := s.cleanupIfDue(); err != nil {
		// 清理失败不影响主流程。
		logger.Warn("过期工件清理失败", zap.Error(err))
	}
	return s, nil
}

// ScreenshotDir 返回截图目录。
func (s *Store) ScreenshotDir() string { return filepath.Join(s.baseDir, screenshotDir) }

// AssetDir 返回资产快照目录。
func (s *Store) AssetDir() string { return filepath.Join(s.baseDir, assetDir) }

// LogDir 返回日志目录。
func (s *Store) LogDir() string { return filepath.Join(s.baseDir, logDir) }

// ScreenshotPath 生成一个带时间戳的截图路径。
func (s *Store) ScreenshotPath() string {
	return filepath.Join(s.ScreenshotDir(),
		fmt.Sprintf("screenshot_%s.png", s.now().Format(stampLayout)))
}

// WriteSnapshot 把资产快照写成 JSON 文件，返回文件路径。
func (s *Store) WriteSnapshot(snap *trade.AssetSnapshot) (string, error) {
	if snap.Positions == nil {
		snap.Positions = []trade.PositionRecord{}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("序列化资产快照失败: %w", err)
	}

	path := filepath.Join(s.AssetDir(),
		fmt.Sprintf("asset_data_%s.json", s.now().Format(stampLayout)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("写入资产快照失败: %w", err)
	}

	s.logger.Info("资产快照已保存", zap.String("path", path))
	return path, nil
}

// cleanupIfDue 每个自然日最多执行一次过期清理，截图和快照
// 两个目录并行扫描。
func (s *Store) cleanupIfDue() error {
	today := s.now().Format(markerLayout)
	markerPath := filepath.Join(s.baseDir, cleanupMarker)

	if data, err := os.ReadFile(markerPath); err == nil {
		if strings.TrimSpace(string(data)) == today {
			return nil
		}
	}

	cutoff := s.now().AddDate(0, 0, -s.days)

	var g errgroup.Group
	for _, dir := range []string{s.ScreenshotDir(), s.AssetDir()} {
		dir := dir
		g.Go(func() error {
			return s.sweep(dir, cutoff)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := os.WriteFile(markerPath, []byte(today), 0o644); err != nil {
		return fmt.Errorf("写入清理标记失败: %w", err)
	}
	return nil
}

// sweep 删除目录下修改时间早于 cutoff 的普通文件。
func (s *Store) sweep(dir string, cutoff time.Time) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("读取目录 %q 失败: %w", dir, err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			s.logger.Warn("删除过期工件失败",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("过期工件清理完成",
			zap.String("dir", dir), zap.Int("removed", removed))
	}
	return nil
}
