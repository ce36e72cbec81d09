//go:build windows

package window

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"xiadan-agent/internal/winapi"
)

// FocusController 负责在每次输入前把目标窗口拉到前台。
type FocusController struct {
	hwnd   winapi.HWND
	logger *zap.Logger
}

// NewFocusController 创建焦点控制器。
func NewFocusController(hwnd winapi.HWND, logger *zap.Logger) *FocusController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FocusController{hwnd: hwnd, logger: logger}
}

// Handle 返回被控窗口句柄。
func (f *FocusController) Handle() winapi.HWND {
	return f.hwnd
}

// Focus 还原并激活窗口。句柄失效时返回错误；激活被系统拒绝
// 只记录日志，调用方继续执行。
func (f *FocusController) Focus() error {
	if !winapi.IsWindow(f.hwnd) {
		return fmt.Errorf("窗口句柄已失效: %#x", uintptr(f.hwnd))
	}

	if winapi.IsIconic(f.hwnd) {
		winapi.ShowWindow(f.hwnd, winapi.SWRestore)
		time.Sleep(200 * time.Millisecond)
	}
	if !winapi.IsWindowVisible(f.hwnd) {
		winapi.ShowWindow(f.hwnd, winapi.SWShow)
	}

	if !winapi.SetForegroundWindow(f.hwnd) {
		// 前台锁定生效时直接抢占会被拒绝，最小化再还原可以绕开。
		winapi.ShowWindow(f.hwnd, winapi.SWMinimize)
		time.Sleep(100 * time.Millisecond)
		winapi.ShowWindow(f.hwnd, winapi.SWRestore)
		time.Sleep(200 * time.Millisecond)
		if !winapi.SetForegroundWindow(f.hwnd) {
			f.logger.Warn("窗口置前被系统拒绝，继续尝试输入",
				zap.Uint64("hwnd", uint64(f.hwnd)))
		}
	}

	winapi.SetFocus(f.hwnd)
	winapi.BringToTop(f.hwnd)
	time.Sleep(150 * time.Millisecond)

	// 个别情况下窗口在激活后又被最小化，这里再兜一次。
	if winapi.IsIconic(f.hwnd) {
		winapi.ShowWindow(f.hwnd, winapi.SWRestore)
		time.Sleep(200 * time.Millisecond)
	}
	return nil
}
