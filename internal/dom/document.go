// Package dom 用 goquery 实现聊天页面的消息句柄。
package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/purpose168/lightstyler/internal/avatar"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	chatSelector    = "#chat"
	messageSelector = "#chat .mes"
)

// ErrNoChat 表示文档中没有 #chat 容器。
var ErrNoChat = errors.New("文档中没有聊天容器")

// Document 是一份聊天页面。遍历和结构修改互斥，
// 消息句柄只修改各自节点的属性。
type Document struct {
	mu  sync.Mutex
	doc *goquery.Document
}

// Parse 解析聊天页面。
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("解析HTML失败: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString 解析字符串形式的聊天页面。
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Messages 按文档顺序返回可见的消息。
func (d *Document) Messages() []avatar.Message {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel := d.doc.Find(messageSelector)
	msgs := make([]avatar.Message, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		msgs = append(msgs, NewMessage(s))
	})
	return msgs
}

// Append 解析 HTML 片段并追加到聊天容器末尾，返回新加入的消息。
func (d *Document) Append(fragment string) ([]avatar.Message, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	chat := d.doc.Find(chatSelector).First()
	if chat.Length() == 0 {
		return nil, ErrNoChat
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), chat.Get(0))
	if err != nil {
		return nil, fmt.Errorf("解析HTML片段失败: %w", err)
	}
	chat.AppendNodes(nodes...)

	var msgs []avatar.Message
	for _, n := range nodes {
		if n.Type != html.ElementNode {
			continue
		}
		s := d.doc.FindNodes(n)
		if s.HasClass("mes") {
			msgs = append(msgs, NewMessage(s))
		}
	}
	return msgs, nil
}

// SetStylesheet 在 head 中写入或替换带 id 的 style 元素，css 为空时移除。
func (d *Document) SetStylesheet(id, css string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.doc.Find("style#" + id).Remove()
	if css == "" {
		return
	}

	head := d.doc.Find("head").First()
	if head.Length() == 0 {
		return
	}
	style := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Style,
		Data:     "style",
		Attr:     []html.Attribute{{Key: "id", Val: id}},
	}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	head.AppendNodes(style)
}

// Stylesheet 返回带 id 的 style 元素内容。
func (d *Document) Stylesheet(id string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.doc.Find("style#" + id).First()
	if s.Length() == 0 {
		return "", false
	}
	return s.Text(), true
}

// HTML 渲染整个文档。
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.doc.Html()
}
