package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/purpose168/lightstyler/internal/avatar"
)

const (
	avatarSelector = ".avatar img"
	nameSelector   = ".name_text"
	userAttr       = "is_user"
)

// Message 是基于 goquery 选区的消息句柄。
type Message struct {
	sel *goquery.Selection
}

var _ avatar.Message = (*Message)(nil)

// NewMessage 包装一个 .mes 元素。
func NewMessage(sel *goquery.Selection) *Message {
	return &Message{sel: sel.First()}
}

func (m *Message) AvatarSrc() (string, bool) {
	img := m.sel.Find(avatarSelector).First()
	if img.Length() == 0 {
		return "", false
	}
	src, _ := img.Attr("src")
	return src, true
}

func (m *Message) IsUser() bool {
	return m.sel.AttrOr(userAttr, "") == "true"
}

// Name 返回去掉首尾空白的显示名称，内部空白原样保留。
func (m *Message) Name() string {
	return strings.TrimSpace(m.sel.Find(nameSelector).First().Text())
}

func (m *Message) Attr(name string) (string, bool) {
	return m.sel.Attr(name)
}

func (m *Message) SetAttr(name, value string) {
	m.sel.SetAttr(name, value)
}

func (m *Message) StyleProperty(name string) string {
	return styleProperty(m.sel.AttrOr("style", ""), name)
}

func (m *Message) SetStyleProperty(name, value string) {
	style := setStyleProperty(m.sel.AttrOr("style", ""), name, value)
	if style == "" {
		m.sel.RemoveAttr("style")
		return
	}
	m.sel.SetAttr("style", style)
}

// Selection 返回底层选区。
func (m *Message) Selection() *goquery.Selection {
	return m.sel
}
