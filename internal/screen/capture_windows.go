//go:build windows

package screen

import (
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/kbinani/screenshot"
	"go.uber.org/zap"

	"xiadan-agent/internal/winapi"
)

// Focuser 在截图前把窗口拉到前台。
type Focuser interface {
	Focus() error
}

// Capturer 抓取目标窗口的客户区并落盘为 PNG。
type Capturer struct {
	hwnd        winapi.HWND
	focus       Focuser
	defaultPath func() string
	logger      *zap.Logger
}

// NewCapturer 创建窗口截图器。defaultPath 生成缺省保存路径。
func NewCapturer(hwnd winapi.HWND, focus Focuser, defaultPath func() string, logger *zap.Logger) *Capturer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Capturer{hwnd: hwnd, focus: focus, defaultPath: defaultPath, logger: logger}
}

// Capture 截取窗口客户区保存到 savePath（为空时使用缺省路径），
// 返回实际写入的文件路径。
func (c *Capturer) Capture(savePath string) (string, error) {
	if c.focus != nil {
		if err := c.focus.Focus(); err != nil {
			return "", fmt.Errorf("截图前激活窗口失败: %w", err)
		}
	}
	time.Sleep(200 * time.Millisecond)

	region, err := c.windowRegion()
	if err != nil {
		return "", err
	}
	if region.Tiny() {
		c.logger.Warn("截图区域过小，可能定位到了错误窗口",
			zap.Int("width", region.Width()),
			zap.Int("height", region.Height()),
		)
	}

	img, err := screenshot.CaptureRect(region.Rect())
	if err != nil {
		return "", fmt.Errorf("抓取屏幕区域失败: %w", err)
	}

	// 截图动作可能让别的窗口抢走前台，这里抢回来。
	winapi.SetForegroundWindow(c.hwnd)

	if savePath == "" {
		savePath = c.defaultPath()
	}
	f, err := os.Create(savePath)
	if err != nil {
		return "", fmt.Errorf("创建截图文件失败: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("写入截图失败: %w", err)
	}

	c.logger.Info("窗口截图完成",
		zap.String("path", savePath),
		zap.Int("width", region.Width()),
		zap.Int("height", region.Height()),
	)
	return savePath, nil
}

// windowRegion 优先使用客户区坐标，退化到窗口外框。
func (c *Capturer) windowRegion() (Region, error) {
	if cr, err := winapi.ClientRect(c.hwnd); err == nil {
		topLeft := winapi.ClientToScreen(c.hwnd, winapi.Point{X: cr.Left, Y: cr.Top})
		bottomRight := winapi.ClientToScreen(c.hwnd, winapi.Point{X: cr.Right, Y: cr.Bottom})
		region := Region{
			Left:   int(topLeft.X),
			Top:    int(topLeft.Y),
			Right:  int(bottomRight.X),
			Bottom: int(bottomRight.Y),
		}
		if region.Validate() == nil {
			return region, nil
		}
		c.logger.Warn("客户区坐标无效，回退到窗口外框")
	}

	wr, err := winapi.WindowRect(c.hwnd)
	if err != nil {
		return Region{}, fmt.Errorf("获取窗口矩形失败: %w", err)
	}
	region := Region{
		Left:   int(wr.Left),
		Top:    int(wr.Top),
		Right:  int(wr.Right),
		Bottom: int(wr.Bottom),
	}
	if err := region.Validate(); err != nil {
		return Region{}, err
	}
	return region, nil
}
