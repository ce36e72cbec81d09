//go:build windows

package app

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"xiadan-agent/internal/artifact"
	"xiadan-agent/internal/config"
	"xiadan-agent/internal/detect"
	"xiadan-agent/internal/input"
	"xiadan-agent/internal/screen"
	"xiadan-agent/internal/trade"
	"xiadan-agent/internal/vision"
	"xiadan-agent/internal/winapi"
	"xiadan-agent/internal/window"
)

// buildEngine 连接交易终端窗口并组装命令执行器。窗口不存在且
// 配置了 exe_path 时先拉起程序再重试定位。
func buildEngine(cfg *config.Config, artifacts *artifact.Store, logger *zap.Logger) (*trade.Executor, clickFunc, error) {
	locator := window.NewLocator(window.NewSystemEnumerator(), logger)

	cand, err := locateWindow(locator, cfg.Window)
	if errors.Is(err, window.ErrNotFound) && cfg.Window.ExePath != "" {
		logger.Info("未找到交易窗口，尝试启动程序",
			zap.String("exe_path", cfg.Window.ExePath))
		if lerr := launch(cfg.Window.ExePath, cfg.Window.LaunchWait); lerr != nil {
			return nil, nil, lerr
		}
		cand, err = locateWindow(locator, cfg.Window)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", trade.ErrWindowNotFound, err)
	}

	hwnd := winapi.HWND(cand.Handle)
	focus := window.NewFocusController(hwnd, logger)
	if ferr := focus.Focus(); ferr != nil {
		return nil, nil, fmt.Errorf("%w: %v", trade.ErrWindowNotFound, ferr)
	}

	kb := input.NewSynthesizer(focus, logger)
	capturer := screen.NewCapturer(hwnd, focus, artifacts.ScreenshotPath, logger)

	var (
		extractor trade.Extractor
		ocr       detect.Recognizer
	)
	if cfg.Vision.Enabled {
		backend, verr := vision.NewVLMClient(cfg.Vision, logger)
		if verr != nil {
			return nil, nil, verr
		}
		extractor = vision.NewExtractor(backend, logger)
		ocr = backend
	}

	timing := trade.Timing{
		KeySettle:         cfg.Input.KeySettle,
		CharInterval:      cfg.Input.CharInterval,
		BackspaceInterval: cfg.Input.BackspaceInterval,
		EnterInterval:     cfg.Input.EnterInterval,
		ConfirmInterval:   cfg.Input.ConfirmInterval,
		FieldSettle:       cfg.Input.FieldSettle,
		QuerySettle:       cfg.Input.QuerySettle,
	}
	engine := trade.NewExecutor(kb, capturer, extractor,
		trade.CodeTable(cfg.Trading.CodeTable), timing, logger)

	clicker := &elementClicker{
		hwnd:     hwnd,
		kb:       kb,
		capturer: capturer,
		detector: detect.NewDetector(ocr, logger),
		logger:   logger,
	}
	return engine, clicker.click, nil
}

func locateWindow(locator *window.Locator, cfg config.WindowConfig) (window.Candidate, error) {
	if cfg.ProcessName != "" {
		if cand, err := locator.FindByProcess(cfg.ProcessName); err == nil {
			return cand, nil
		} else if !errors.Is(err, window.ErrNotFound) {
			return window.Candidate{}, err
		}
	}
	if cfg.TitleKeyword != "" {
		return locator.FindByTitle(cfg.TitleKeyword)
	}
	return window.Candidate{}, window.ErrNotFound
}

// launch 启动交易终端并等待其完成初始化。
func launch(exePath string, wait time.Duration) error {
	cmd := exec.Command(exePath)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("启动 %q 失败: %w", exePath, err)
	}
	// 进程独立运行，不回收退出状态。
	go cmd.Wait() //nolint:errcheck
	time.Sleep(wait)
	return nil
}

// elementClicker 先截图再用检测器定位元素，最后把客户区坐标
// 换算成屏幕坐标点击。
type elementClicker struct {
	hwnd     winapi.HWND
	kb       *input.Synthesizer
	capturer *screen.Capturer
	detector *detect.Detector
	logger   *zap.Logger
}

func (c *elementClicker) click(ctx context.Context, name string) error {
	path, err := c.capturer.Capture("")
	if err != nil {
		return fmt.Errorf("%w: %v", trade.ErrCaptureFailed, err)
	}

	elements, err := c.detector.Analyze(ctx, path)
	if err != nil {
		return err
	}
	el, ok := detect.Find(elements, name)
	if !ok {
		return fmt.Errorf("未找到界面元素 %q", name)
	}

	origin := winapi.ClientToScreen(c.hwnd, winapi.Point{})
	x := int(origin.X) + el.Center.X
	y := int(origin.Y) + el.Center.Y
	c.logger.Info("点击界面元素",
		zap.String("element", name),
		zap.String("kind", el.Kind.String()),
		zap.Int("x", x), zap.Int("y", y),
	)
	return c.kb.Click(x, y)
}
