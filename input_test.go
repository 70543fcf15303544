package aipoet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputCollector(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  UserRequest
	}{
		{"all answers", "大海\n2\n12\n", UserRequest{Theme: "大海", Style: StyleModern, Length: 12}},
		{"defaults", "\n\n\n", UserRequest{Theme: DefaultTheme, Style: StyleAny, Length: DefaultLength}},
		{"closed input", "", UserRequest{Theme: DefaultTheme, Style: StyleAny, Length: DefaultLength}},
		{"invalid style", "离别\n9\n6\n", UserRequest{Theme: "离别", Style: StyleAny, Length: 6}},
		{"non-numeric style", "离别\nabc\n6\n", UserRequest{Theme: "离别", Style: StyleAny, Length: 6}},
		{"length clamped high", "山\n1\n50\n", UserRequest{Theme: "山", Style: StyleClassical, Length: 20}},
		{"length clamped low", "山\n3\n1\n", UserRequest{Theme: "山", Style: StyleFreeVerse, Length: 4}},
		{"non-numeric length", "山\n3\nten\n", UserRequest{Theme: "山", Style: StyleFreeVerse, Length: 8}},
		{"no trailing newline", "  月亮  \n4\n5", UserRequest{Theme: "月亮", Style: StyleAny, Length: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			req, err := NewInputCollector(strings.NewReader(tt.input), &out).Collect()
			require.NoError(t, err)
			assert.Equal(t, tt.want, req)
			assert.Contains(t, out.String(), "可选诗歌风格:")
		})
	}
}

func TestInputCollectorDefaultThemeWarning(t *testing.T) {
	var out bytes.Buffer
	_, err := NewInputCollector(strings.NewReader("\n1\n8\n"), &out).Collect()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "⚠️ 未输入主题，使用默认主题: 自然")
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, StyleAny, ParseStyleChoice(""))
	assert.Equal(t, StyleClassical, ParseStyleChoice("1"))
	assert.Equal(t, StyleAny, ParseStyleChoice("0"))
	assert.Equal(t, StyleAny, ParseStyleChoice("-2"))

	assert.Equal(t, DefaultLength, ParseLength(""))
	assert.Equal(t, 20, ParseLength("1000"))
	assert.Equal(t, DefaultLength, ParseLength("4.5"))
}
