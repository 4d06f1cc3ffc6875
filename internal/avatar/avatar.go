// Package avatar 解析消息作者身份并为消息设置头像样式变量。
package avatar

import (
	"strings"
)

const (
	// UIDAttr 是作者标识属性，只写入一次
	UIDAttr = "csc-author-uid"
	// URLProperty 是消息上的头像地址样式变量
	URLProperty = "--mes-avatar-url"
)

// Message 是一条消息元素的句柄。
type Message interface {
	// AvatarSrc 返回头像图片的 src，没有头像子元素时返回 false
	AvatarSrc() (string, bool)
	IsUser() bool
	Name() string
	Attr(name string) (string, bool)
	SetAttr(name, value string)
	StyleProperty(name string) string
	SetStyleProperty(name, value string)
}

// Overrides 查询角色的备选头像。
type Overrides interface {
	Get(name string) (string, bool)
}

// Mode 决定已有样式变量时是否覆盖。
type Mode int

const (
	// ModeFill 只在样式变量未设置时写入
	ModeFill Mode = iota
	// ModeRefresh 在值不同时也会写入，用于选择变化后的重新解析
	ModeRefresh
)

func (m Mode) String() string {
	switch m {
	case ModeRefresh:
		return "refresh"
	default:
		return "fill"
	}
}

// Result 描述一次解析的结果。
type Result struct {
	Identity    Identity
	HasIdentity bool
	// Stamped 表示本次写入了作者标识
	Stamped bool
	// Value 是计算出的样式值，没有头像时为空
	Value string
	// Written 表示本次写入了样式变量
	Written  bool
	Override bool
}

// Resolver 计算消息的有效头像地址。
type Resolver struct {
	overrides Overrides
}

// NewResolver 创建解析器。overrides 可以为 nil。
func NewResolver(overrides Overrides) *Resolver {
	return &Resolver{overrides: overrides}
}

// Resolve 解析一条消息。除作者标识和样式变量外没有其他副作用，
// 对未变化的消息重复执行不会产生写入。
func (r *Resolver) Resolve(msg Message, mode Mode) Result {
	var res Result

	src, ok := msg.AvatarSrc()
	if !ok {
		return res
	}

	res.Identity, res.HasIdentity = ExtractIdentity(msg)
	if res.HasIdentity {
		if _, stamped := msg.Attr(UIDAttr); !stamped {
			msg.SetAttr(UIDAttr, res.Identity.UID())
			res.Stamped = true
		}
	}

	url := src
	if override, found := r.override(msg); found {
		url = override
		res.Override = true
	}
	if url == "" {
		return res
	}

	res.Value = CSSURL(url)
	current := msg.StyleProperty(URLProperty)
	if current == "" || (mode == ModeRefresh && current != res.Value) {
		msg.SetStyleProperty(URLProperty, res.Value)
		res.Written = true
	}
	return res
}

// override 只对角色消息查询选择表。
func (r *Resolver) override(msg Message) (string, bool) {
	if r.overrides == nil || msg.IsUser() {
		return "", false
	}
	name := strings.TrimSpace(msg.Name())
	if name == "" {
		return "", false
	}
	u, ok := r.overrides.Get(name)
	if !ok || u == "" {
		return "", false
	}
	return u, true
}

// EffectiveURL 返回消息应使用的头像地址，已规范化但未转义。
func (r *Resolver) EffectiveURL(msg Message) (string, bool) {
	src, ok := msg.AvatarSrc()
	if !ok {
		return "", false
	}
	if u, found := r.override(msg); found {
		src = u
	}
	if src == "" {
		return "", false
	}
	return NormalizeURL(src), true
}
