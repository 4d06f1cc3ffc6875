package dom

import "strings"

// declaration 是 style 属性中的一条声明
type declaration struct {
	prop  string
	value string
}

// parseStyle 解析内联 style 属性。引号、括号和反斜杠转义中的分号不会分割声明。
func parseStyle(s string) []declaration {
	var (
		decls []declaration
		start int
		quote rune
		depth int
		esc   bool
	)
	flush := func(end int) {
		prop, value, ok := strings.Cut(s[start:end], ":")
		if !ok {
			return
		}
		prop = strings.TrimSpace(prop)
		value = strings.TrimSpace(value)
		if prop == "" {
			return
		}
		// 自定义属性区分大小写
		if !strings.HasPrefix(prop, "--") {
			prop = strings.ToLower(prop)
		}
		decls = append(decls, declaration{prop: prop, value: value})
	}

	for i, r := range s {
		switch {
		case esc:
			esc = false
		case r == '\\':
			esc = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ';' && depth == 0:
			flush(i)
			start = i + 1
		}
	}
	flush(len(s))
	return decls
}

func renderStyle(decls []declaration) string {
	var b strings.Builder
	for i, d := range decls {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.prop)
		b.WriteString(": ")
		b.WriteString(d.value)
		b.WriteByte(';')
	}
	return b.String()
}

// styleProperty 返回最后一条同名声明的值。
func styleProperty(style, name string) string {
	decls := parseStyle(style)
	for i := len(decls) - 1; i >= 0; i-- {
		if decls[i].prop == name {
			return decls[i].value
		}
	}
	return ""
}

// setStyleProperty 设置或追加声明，value 为空时移除该属性。
func setStyleProperty(style, name, value string) string {
	decls := parseStyle(style)
	out := decls[:0]
	replaced := false
	for _, d := range decls {
		if d.prop != name {
			out = append(out, d)
			continue
		}
		if value != "" && !replaced {
			out = append(out, declaration{prop: name, value: value})
			replaced = true
		}
	}
	if value != "" && !replaced {
		out = append(out, declaration{prop: name, value: value})
	}
	return renderStyle(out)
}
