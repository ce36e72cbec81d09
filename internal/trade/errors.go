package trade

import "errors"

// 引擎各阶段的失败类别。窗口激活失败不在其中：激活被系统
// 拒绝时记录日志后继续，不会中断命令。
var (
	ErrWindowNotFound      = errors.New("trade: 未找到交易窗口")
	ErrCaptureFailed       = errors.New("trade: 窗口截图失败")
	ErrInputFailed         = errors.New("trade: 按键注入失败")
	ErrOutsideTradingHours = errors.New("trade: 非交易时段")
	ErrExtractionFailed    = errors.New("trade: 视觉解析失败")
)
