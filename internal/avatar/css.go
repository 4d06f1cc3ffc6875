package avatar

import "strings"

// NormalizeURL 把相对地址转为以 / 开头的根相对地址，
// 已经以 / 或 http 开头的地址保持不变。
func NormalizeURL(u string) string {
	if u == "" || strings.HasPrefix(u, "/") || strings.HasPrefix(u, "http") {
		return u
	}
	return "/" + u
}

// EscapeCSSURL 用反斜杠转义引号、括号和空白字符。
func EscapeCSSURL(u string) string {
	var b strings.Builder
	b.Grow(len(u))
	for _, r := range u {
		switch r {
		case '\'', '"', '(', ')', ' ', '\t', '\n', '\r', '\f', '\v':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CSSURL 返回可以直接作为 CSS 属性值的 url('…')。
func CSSURL(u string) string {
	return "url('" + EscapeCSSURL(NormalizeURL(u)) + "')"
}
