//go:build windows

package winapi

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// ProcessImagePath 返回进程可执行文件的完整路径。
func ProcessImagePath(pid uint32) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", fmt.Errorf("打开进程 %d 失败: %w", pid, err)
	}
	defer windows.CloseHandle(h) //nolint:errcheck

	path, err := windows.QueryFullProcessImageName(h, 0)
	if err != nil {
		return "", fmt.Errorf("查询进程 %d 镜像路径失败: %w", pid, err)
	}
	return path, nil
}
