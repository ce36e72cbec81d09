package input

import "testing"

func TestCharToVKDigitsAndLetters(t *testing.T) {
	vk, shift, ok := CharToVK('6')
	if !ok || shift || vk != '6' {
		t.Errorf("CharToVK('6') = (%#x, %v, %v)", vk, shift, ok)
	}

	// 字母统一按大写键位注入并带 Shift。
	for _, r := range []rune{'a', 'A'} {
		vk, shift, ok = CharToVK(r)
		if !ok || !shift || vk != 'A' {
			t.Errorf("CharToVK(%q) = (%#x, %v, %v)", r, vk, shift, ok)
		}
	}
}

func TestCharToVKPunctuation(t *testing.T) {
	cases := map[rune]uint16{
		'.': 0xBE,
		'-': 0xBD,
		'+': 0xBB,
		'/': 0xBF,
		' ': 0x20,
	}
	for r, want := range cases {
		vk, shift, ok := CharToVK(r)
		if !ok || shift || vk != want {
			t.Errorf("CharToVK(%q) = (%#x, %v, %v), want vk=%#x", r, vk, shift, ok, want)
		}
	}
}

func TestCharToVKUnmappedFallsToClipboard(t *testing.T) {
	for _, r := range []rune{'茅', '，', '%'} {
		if _, _, ok := CharToVK(r); ok {
			t.Errorf("CharToVK(%q) 应返回 ok=false", r)
		}
	}
}
