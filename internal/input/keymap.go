// Package input 向目标窗口注入合成键盘与鼠标事件。
package input

import "unicode"

// 直接映射字符集之外的虚拟键码。
const (
	vkSpace  = 0x20
	vkPlus   = 0xBB
	vkMinus  = 0xBD
	vkPeriod = 0xBE
	vkSlash  = 0xBF
)

// CharToVK 把字符换算成虚拟键码。可直接注入的字符集为
// 数字、英文字母和 ". - + / 空格"；其余字符 ok 为 false，
// 调用方改走剪贴板粘贴。shift 表示注入时需要按住 Shift。
func CharToVK(r rune) (vk uint16, shift bool, ok bool) {
	r = unicode.ToUpper(r)

	switch {
	case r >= '0' && r <= '9':
		return uint16(r), false, true
	case r >= 'A' && r <= 'Z':
		return uint16(r), true, true
	}

	switch r {
	case '.':
		return vkPeriod, false, true
	case '-':
		return vkMinus, false, true
	case '+':
		return vkPlus, false, true
	case '/':
		return vkSlash, false, true
	case ' ':
		return vkSpace, false, true
	}

	return 0, false, false
}
