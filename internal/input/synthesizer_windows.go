//go:build windows

package input

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"xiadan-agent/internal/winapi"
)

const (
	vkBackspace = 0x08
	vkEnter     = 0x0D
	vkShift     = 0x10
	vkControl   = 0x11
	vkV         = 0x56

	// 单次按键从按下到抬起的停留时间。
	pressHold = 50 * time.Millisecond
)

// Focuser 在注入输入前把窗口拉到前台。
type Focuser interface {
	Focus() error
}

// Synthesizer 基于 keybd_event/mouse_event 合成输入。
type Synthesizer struct {
	focus  Focuser
	logger *zap.Logger
}

// NewSynthesizer 创建输入合成器。
func NewSynthesizer(focus Focuser, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{focus: focus, logger: logger}
}

// ensureFocus 激活目标窗口。激活失败只记日志，按键照常注入。
func (s *Synthesizer) ensureFocus() {
	if s.focus == nil {
		return
	}
	if err := s.focus.Focus(); err != nil {
		s.logger.Warn("激活窗口失败，继续注入输入", zap.Error(err))
	}
}

func press(vk uint16) {
	winapi.KeybdEvent(vk, 0)
	time.Sleep(pressHold)
	winapi.KeybdEvent(vk, winapi.KeyEventFKeyUp)
}

// SendKey 注入一次按键并等待 settle。
func (s *Synthesizer) SendKey(vk uint16, settle time.Duration) error {
	s.ensureFocus()
	press(vk)
	time.Sleep(settle)
	return nil
}

// SendText 逐字符注入文本，字符间隔 perChar。直接映射集之外的
// 字符通过剪贴板粘贴。
func (s *Synthesizer) SendText(text string, perChar time.Duration) error {
	s.ensureFocus()
	for _, r := range text {
		vk, shift, ok := CharToVK(r)
		if !ok {
			if err := s.paste(string(r)); err != nil {
				return fmt.Errorf("粘贴字符 %q 失败: %w", r, err)
			}
			time.Sleep(perChar)
			continue
		}
		if shift {
			winapi.KeybdEvent(vkShift, 0)
		}
		press(vk)
		if shift {
			winapi.KeybdEvent(vkShift, winapi.KeyEventFKeyUp)
		}
		time.Sleep(perChar)
	}
	return nil
}

// SendBackspace 连按退格 times 次，每次间隔 perKey。
func (s *Synthesizer) SendBackspace(times int, perKey time.Duration) error {
	s.ensureFocus()
	for i := 0; i < times; i++ {
		press(vkBackspace)
		time.Sleep(perKey)
	}
	return nil
}

// SendEnter 连按回车 times 次，每次间隔 perKey。
func (s *Synthesizer) SendEnter(times int, perKey time.Duration) error {
	s.ensureFocus()
	for i := 0; i < times; i++ {
		press(vkEnter)
		time.Sleep(perKey)
	}
	return nil
}

// Click 把鼠标移动到屏幕坐标并点一次左键。
func (s *Synthesizer) Click(x, y int) error {
	s.ensureFocus()
	winapi.SetCursorPos(x, y)
	time.Sleep(100 * time.Millisecond)
	winapi.MouseEvent(winapi.MouseEventFLeftDown)
	time.Sleep(pressHold)
	winapi.MouseEvent(winapi.MouseEventFLeftUp)
	time.Sleep(100 * time.Millisecond)
	return nil
}

// paste 经剪贴板输入任意文本（Ctrl+V）。
func (s *Synthesizer) paste(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("写入剪贴板失败: %w", err)
	}
	winapi.KeybdEvent(vkControl, 0)
	press(vkV)
	winapi.KeybdEvent(vkControl, winapi.KeyEventFKeyUp)
	time.Sleep(100 * time.Millisecond)
	return nil
}
