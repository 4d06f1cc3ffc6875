// Package ansiext 处理来自宿主的文本在终端中的显示。
package ansiext

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Escape 把 C0 控制字符和 DEL 替换为对应的 Unicode 控制图形，
// 使宿主返回的名称无法向终端注入转义序列。
func Escape(content string) string {
	if !strings.ContainsFunc(content, isControl) {
		return content
	}
	var sb strings.Builder
	sb.Grow(len(content))
	for _, r := range content {
		switch {
		case r >= 0 && r <= 0x1f:
			sb.WriteRune('␀' + r)
		case r == ansi.DEL:
			sb.WriteRune('␡')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isControl(r rune) bool {
	return (r >= 0 && r <= 0x1f) || r == ansi.DEL
}
