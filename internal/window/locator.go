// Package window 负责定位并激活目标交易终端的主窗口。
package window

import (
	"errors"
	"strings"

	"go.uber.org/zap"
)

// ErrNotFound 表示枚举完所有顶层窗口后仍未命中目标。
var ErrNotFound = errors.New("未找到目标交易窗口")

// Candidate 描述一个枚举到的顶层窗口。
type Candidate struct {
	Handle    uintptr
	Title     string
	Class     string
	PID       uint32
	ImagePath string
}

// Enumerator 枚举当前桌面的可见顶层窗口。
type Enumerator interface {
	Enumerate() ([]Candidate, error)
}

// titleKeywords 按优先级排列，多个候选窗口时用于挑选真正的下单界面。
var titleKeywords = []string{"下单", "交易", "委托"}

// systemClasses 是桌面外壳自身的窗口类，永远不是自动化目标。
var systemClasses = map[string]struct{}{
	"shell_traywnd": {},
	"progman":       {},
	"workerw":       {},
	"button":        {},
}

func isSystemClass(class string) bool {
	_, ok := systemClasses[strings.ToLower(class)]
	return ok
}

// Locator 在枚举结果里挑选目标窗口。
type Locator struct {
	enum   Enumerator
	logger *zap.Logger
}

// NewLocator 创建窗口定位器。
func NewLocator(enum Enumerator, logger *zap.Logger) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{enum: enum, logger: logger}
}

// FindByProcess 按进程镜像路径子串查找窗口，大小写不敏感：
// 配置 xiadan 或 xiadan.exe 都能命中 C:\...\xiadan.exe。
func (l *Locator) FindByProcess(imageName string) (Candidate, error) {
	cands, err := l.enum.Enumerate()
	if err != nil {
		return Candidate{}, err
	}

	needle := strings.ToLower(imageName)
	var matches []Candidate
	for _, c := range cands {
		if isSystemClass(c.Class) {
			continue
		}
		if strings.Contains(strings.ToLower(c.ImagePath), needle) {
			matches = append(matches, c)
		}
	}
	return l.pick(matches, imageName)
}

// FindByTitle 按标题子串查找窗口。
func (l *Locator) FindByTitle(keyword string) (Candidate, error) {
	cands, err := l.enum.Enumerate()
	if err != nil {
		return Candidate{}, err
	}

	var matches []Candidate
	for _, c := range cands {
		if isSystemClass(c.Class) {
			continue
		}
		if strings.Contains(c.Title, keyword) {
			matches = append(matches, c)
		}
	}
	return l.pick(matches, keyword)
}

// pick 在多个候选中优先选择标题含交易关键词的窗口。
func (l *Locator) pick(matches []Candidate, query string) (Candidate, error) {
	if len(matches) == 0 {
		return Candidate{}, ErrNotFound
	}

	for _, kw := range titleKeywords {
		for _, c := range matches {
			if strings.Contains(c.Title, kw) {
				l.logger.Info("定位到交易窗口",
					zap.String("title", c.Title),
					zap.String("keyword", kw),
					zap.Uint32("pid", c.PID),
				)
				return c, nil
			}
		}
	}

	c := matches[0]
	l.logger.Info("定位到候选窗口",
		zap.String("query", query),
		zap.String("title", c.Title),
		zap.Uint32("pid", c.PID),
	)
	return c, nil
}
