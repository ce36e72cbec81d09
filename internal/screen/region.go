// Package screen 负责把目标窗口的客户区抓成 PNG 截图。
package screen

import (
	"fmt"
	"image"
)

// Region 是一块屏幕坐标系内的矩形区域。
type Region struct {
	Left, Top, Right, Bottom int
}

// Width 返回区域宽度。
func (r Region) Width() int { return r.Right - r.Left }

// Height 返回区域高度。
func (r Region) Height() int { return r.Bottom - r.Top }

// Validate 校验区域几何有效：两轴上界都必须严格大于下界。
func (r Region) Validate() error {
	if r.Right <= r.Left || r.Bottom <= r.Top {
		return fmt.Errorf("截图区域无效: left=%d top=%d right=%d bottom=%d",
			r.Left, r.Top, r.Right, r.Bottom)
	}
	return nil
}

// Tiny 判断区域是否小到大概率抓错了窗口。
func (r Region) Tiny() bool {
	return r.Width() < 50 || r.Height() < 50
}

// Rect 转换为 image.Rectangle。
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}
