package trade

import "time"

// A股交易时段按北京时间判定，与机器本地时区无关。
var beijing = time.FixedZone("CST", 8*60*60)

const (
	// 集合竞价撮合开始后即可挂单。
	sessionOpenSec = 9*3600 + 25*60
	// 收盘时刻（含）。
	sessionCloseSec = 15 * 3600
)

// IsTradingTime 判断给定时刻是否处于可委托时段：
// 工作日 09:25:00 至 15:00:00（闭区间），周末休市。
// 返回的 reason 供日志与流水记录使用。
func IsTradingTime(now time.Time) (bool, string) {
	t := now.In(beijing)

	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false, "周末休市"
	}

	sec := t.Hour()*3600 + t.Minute()*60 + t.Second()
	if sec < sessionOpenSec {
		return false, "未到开盘时间"
	}
	if sec > sessionCloseSec {
		return false, "已过收盘时间"
	}
	return true, "交易时段内"
}
