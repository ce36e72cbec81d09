//go:build windows

package window

import (
	"xiadan-agent/internal/winapi"
)

// SystemEnumerator 通过 EnumWindows 收集可见顶层窗口。
type SystemEnumerator struct{}

// NewSystemEnumerator 创建系统窗口枚举器。
func NewSystemEnumerator() *SystemEnumerator {
	return &SystemEnumerator{}
}

var _ Enumerator = (*SystemEnumerator)(nil)

// Enumerate 返回当前桌面所有可见顶层窗口。进程镜像路径查询
// 失败时留空，不中断枚举。
func (e *SystemEnumerator) Enumerate() ([]Candidate, error) {
	var cands []Candidate
	winapi.EnumWindows(func(h winapi.HWND) bool {
		if !winapi.IsWindowVisible(h) {
			return true
		}
		c := Candidate{
			Handle: uintptr(h),
			Title:  winapi.WindowText(h),
			Class:  winapi.ClassName(h),
			PID:    winapi.WindowProcessID(h),
		}
		if path, err := winapi.ProcessImagePath(c.PID); err == nil {
			c.ImagePath = path
		}
		cands = append(cands, c)
		return true
	})
	return cands, nil
}
