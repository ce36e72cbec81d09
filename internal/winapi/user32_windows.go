//go:build windows

// Package winapi 封装自动化引擎用到的少量 user32/kernel32 调用。
package winapi

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// HWND 为顶层窗口句柄。
type HWND uintptr

// Rect 对应 win32 RECT。
type Rect struct {
	Left, Top, Right, Bottom int32
}

// Point 对应 win32 POINT。
type Point struct {
	X, Y int32
}

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procEnumWindows              = user32.NewProc("EnumWindows")
	procIsWindow                 = user32.NewProc("IsWindow")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procIsIconic                 = user32.NewProc("IsIconic")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetClassNameW            = user32.NewProc("GetClassNameW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procGetClientRect            = user32.NewProc("GetClientRect")
	procClientToScreen           = user32.NewProc("ClientToScreen")
	procShowWindow               = user32.NewProc("ShowWindow")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procSetFocus                 = user32.NewProc("SetFocus")
	procSetWindowPos             = user32.NewProc("SetWindowPos")
	procKeybdEvent               = user32.NewProc("keybd_event")
	procSetCursorPos             = user32.NewProc("SetCursorPos")
	procMouseEvent               = user32.NewProc("mouse_event")
)

// ShowWindow 命令。
const (
	SWShow     = 5
	SWMinimize = 6
	SWRestore  = 9
)

const (
	swpNoSize = 0x0001
	swpNoMove = 0x0002

	// KeyEventFKeyUp 表示按键抬起。
	KeyEventFKeyUp = 0x0002

	// MouseEventFLeftDown / MouseEventFLeftUp 为鼠标左键事件标志。
	MouseEventFLeftDown = 0x0002
	MouseEventFLeftUp   = 0x0004
)

// enumCallback 只创建一次：NewCallback 的返回值无法释放。
var enumCallback = syscall.NewCallback(func(h, lparam uintptr) uintptr {
	fn := *(*func(HWND) bool)(unsafe.Pointer(lparam))
	if fn(HWND(h)) {
		return 1
	}
	return 0
})

// EnumWindows 遍历所有顶层窗口，fn 返回 false 时停止。
func EnumWindows(fn func(h HWND) bool) {
	procEnumWindows.Call(enumCallback, uintptr(unsafe.Pointer(&fn))) //nolint:errcheck
}

// IsWindow 判断句柄是否仍指向有效窗口。
func IsWindow(h HWND) bool {
	r, _, _ := procIsWindow.Call(uintptr(h))
	return r != 0
}

// IsWindowVisible 判断窗口是否可见。
func IsWindowVisible(h HWND) bool {
	r, _, _ := procIsWindowVisible.Call(uintptr(h))
	return r != 0
}

// IsIconic 判断窗口是否处于最小化状态。
func IsIconic(h HWND) bool {
	r, _, _ := procIsIconic.Call(uintptr(h))
	return r != 0
}

// WindowText 返回窗口标题。
func WindowText(h HWND) string {
	var buf [512]uint16
	n, _, _ := procGetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:n])
}

// ClassName 返回窗口类名。
func ClassName(h HWND) string {
	var buf [256]uint16
	n, _, _ := procGetClassNameW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:n])
}

// WindowProcessID 返回窗口所属进程 ID。
func WindowProcessID(h HWND) uint32 {
	var pid uint32
	procGetWindowThreadProcessId.Call(uintptr(h), uintptr(unsafe.Pointer(&pid))) //nolint:errcheck
	return pid
}

// WindowRect 返回窗口外框的屏幕坐标。
func WindowRect(h HWND) (Rect, error) {
	var r Rect
	ret, _, err := procGetWindowRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return Rect{}, err
	}
	return r, nil
}

// ClientRect 返回窗口客户区大小（Left/Top 恒为 0）。
func ClientRect(h HWND) (Rect, error) {
	var r Rect
	ret, _, err := procGetClientRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return Rect{}, err
	}
	return r, nil
}

// ClientToScreen 将客户区坐标换算为屏幕坐标。
func ClientToScreen(h HWND, p Point) Point {
	procClientToScreen.Call(uintptr(h), uintptr(unsafe.Pointer(&p))) //nolint:errcheck
	return p
}

// ShowWindow 改变窗口显示状态。
func ShowWindow(h HWND, cmd int) {
	procShowWindow.Call(uintptr(h), uintptr(cmd)) //nolint:errcheck
}

// SetForegroundWindow 将窗口置于前台，返回是否成功。
func SetForegroundWindow(h HWND) bool {
	r, _, _ := procSetForegroundWindow.Call(uintptr(h))
	return r != 0
}

// SetFocus 将键盘焦点交给窗口。
func SetFocus(h HWND) {
	procSetFocus.Call(uintptr(h)) //nolint:errcheck
}

// BringToTop 在不移动、不改变尺寸的前提下把窗口提到 Z 序顶端。
func BringToTop(h HWND) {
	procSetWindowPos.Call(uintptr(h), 0, 0, 0, 0, 0, swpNoMove|swpNoSize) //nolint:errcheck
}

// KeybdEvent 注入一次键盘事件。flags 为 0 表示按下，
// KeyEventFKeyUp 表示抬起。
func KeybdEvent(vk uint16, flags uint32) {
	procKeybdEvent.Call(uintptr(vk), 0, uintptr(flags), 0) //nolint:errcheck
}

// SetCursorPos 移动鼠标指针到屏幕坐标。
func SetCursorPos(x, y int) {
	procSetCursorPos.Call(uintptr(x), uintptr(y)) //nolint:errcheck
}

// MouseEvent 注入一次鼠标事件。
func MouseEvent(flags uint32) {
	procMouseEvent.Call(uintptr(flags), 0, 0, 0, 0) //nolint:errcheck
}
