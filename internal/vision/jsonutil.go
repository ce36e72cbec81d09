package vision

import "strings"

// ExtractJSON 从模型回复中剥出 JSON 文本。依次尝试：
// ```json 代码块、裸对象、裸数组。找不到时返回 ok=false。
func ExtractJSON(raw string) (string, bool) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", false
	}

	if fenced, ok := extractFenced(content); ok {
		content = fenced
	}

	if payload, ok := extractBalanced(content, '{', '}'); ok {
		return payload, true
	}
	if payload, ok := extractBalanced(content, '[', ']'); ok {
		return payload, true
	}
	return "", false
}

func extractFenced(content string) (string, bool) {
	start := strings.Index(content, "```")
	if start < 0 {
		return "", false
	}
	rest := content[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		// 跳过 ``` 后面的语言标记行。
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return strings.TrimSpace(rest), true
	}
	return strings.TrimSpace(rest[:end]), true
}

// extractBalanced 扫描第一个配平的 open..close 片段，
// 忽略字符串字面量内部的括号。
func extractBalanced(content string, open, close byte) (string, bool) {
	start := strings.IndexByte(content, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		ch := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return content[start : i+1], true
			}
		}
	}
	return "", false
}
