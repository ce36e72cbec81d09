package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{
			name: "裸对象",
			raw:  `{"总资产": "10000"}`,
			want: `{"总资产": "10000"}`,
			ok:   true,
		},
		{
			name: "代码块包裹",
			raw:  "好的，结果如下：\n```json\n{\"总资产\": \"10000\"}\n```",
			want: `{"总资产": "10000"}`,
			ok:   true,
		},
		{
			name: "前后带解释文字",
			raw:  `根据截图分析：{"总资产": "10000"} 以上为提取结果。`,
			want: `{"总资产": "10000"}`,
			ok:   true,
		},
		{
			name: "字符串内的花括号不干扰配平",
			raw:  `{"备注": "包含}右括号", "n": 1}`,
			want: `{"备注": "包含}右括号", "n": 1}`,
			ok:   true,
		},
		{
			name: "数组",
			raw:  `[{"text": "买入"}]`,
			want: `[{"text": "买入"}]`,
			ok:   true,
		},
		{
			name: "纯文本",
			raw:  "抱歉，我无法识别这张图片。",
			ok:   false,
		},
		{
			name: "空串",
			raw:  "",
			ok:   false,
		},
		{
			name: "括号不配平",
			raw:  `{"总资产": "10000"`,
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractJSON(tc.raw)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
