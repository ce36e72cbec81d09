//go:build !windows

package app

import (
	"errors"

	"go.uber.org/zap"

	"xiadan-agent/internal/artifact"
	"xiadan-agent/internal/config"
	"xiadan-agent/internal/trade"
)

// buildEngine 在非 Windows 平台直接报错：合成输入与窗口控制
// 依赖 user32，无法在其他系统上运行。
func buildEngine(_ *config.Config, _ *artifact.Store, _ *zap.Logger) (*trade.Executor, clickFunc, error) {
	return nil, nil, errors.New("交易终端自动化仅支持 Windows 平台")
}
