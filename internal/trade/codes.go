package trade

// CodeTable 维护股票名称到代码的映射。
type CodeTable map[string]string

// Resolve 把输入解析为证券代码：纯数字原样返回；名称命中映射表
// 时返回代码；否则原样透传并返回 false，由终端自行识别。
func (t CodeTable) Resolve(input string) (string, bool) {
	if input == "" {
		return "", false
	}
	if isDigits(input) {
		return input, true
	}
	if code, ok := t[input]; ok {
		return code, true
	}
	return input, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
