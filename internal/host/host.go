// Package host 描述宿主聊天应用提供的上下文：角色名册、当前聊天和请求头。
package host

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/purpose168/lightstyler/internal/csync"
	"github.com/purpose168/lightstyler/internal/pubsub"
)

// Character 是名册中的一个角色。
type Character struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// ChatChanged 在当前聊天切换后发布。
// 群聊时 Index 为 -1，Group 为群组 id。
type ChatChanged struct {
	Index int
	Group string
}

// Context 是宿主提供给扩展的上下文。
type Context interface {
	Characters() []Character
	// ActiveCharacter 返回当前角色，群聊或未选择时返回 false
	ActiveCharacter() (Character, bool)
	RequestHeaders() http.Header
	pubsub.Subscriber[ChatChanged]
}

// ErrNoSuchCharacter 表示角色索引越界。
var ErrNoSuchCharacter = errors.New("角色不存在")

type chatState struct {
	roster []Character
	active int
	group  string
}

// Local 是进程内的宿主上下文，用于命令行和测试。
type Local struct {
	*pubsub.Broker[ChatChanged]

	state   *csync.Value[chatState]
	headers http.Header
}

var _ Context = (*Local)(nil)

// NewLocal 创建宿主上下文。初始没有选中角色。
func NewLocal(roster []Character, headers http.Header) *Local {
	return &Local{
		Broker:  pubsub.NewBroker[ChatChanged](),
		state:   csync.NewValue(chatState{roster: slices.Clone(roster), active: -1}),
		headers: headers.Clone(),
	}
}

func (l *Local) Characters() []Character {
	return slices.Clone(l.state.Get().roster)
}

func (l *Local) ActiveCharacter() (Character, bool) {
	st := l.state.Get()
	if st.group != "" || st.active < 0 || st.active >= len(st.roster) {
		return Character{}, false
	}
	return st.roster[st.active], true
}

// RequestHeaders 返回请求头的副本。
func (l *Local) RequestHeaders() http.Header {
	h := l.headers.Clone()
	if h == nil {
		h = http.Header{}
	}
	if h.Get("Content-Type") == "" {
		h.Set("Content-Type", "application/json")
	}
	return h
}

// SetCharacters 替换名册，当前选择重置为未选中。
func (l *Local) SetCharacters(roster []Character) {
	l.state.Set(chatState{roster: slices.Clone(roster), active: -1})
}

// SwitchChat 切换到名册中第 index 个角色的聊天。
func (l *Local) SwitchChat(index int) error {
	var err error
	l.state.Update(func(st chatState) chatState {
		if index < 0 || index >= len(st.roster) {
			err = fmt.Errorf("%w: 索引 %d", ErrNoSuchCharacter, index)
			return st
		}
		st.active = index
		st.group = ""
		return st
	})
	if err != nil {
		return err
	}
	slog.Debug("已切换聊天", "index", index)
	l.Publish(pubsub.UpdatedEvent, ChatChanged{Index: index})
	return nil
}

// SwitchGroup 切换到群聊，群聊没有单一的当前角色。
func (l *Local) SwitchGroup(id string) {
	l.state.Update(func(st chatState) chatState {
		st.active = -1
		st.group = id
		return st
	})
	slog.Debug("已切换群聊", "group", id)
	l.Publish(pubsub.UpdatedEvent, ChatChanged{Index: -1, Group: id})
}

// FindCharacter 按名称查找角色索引。
func (l *Local) FindCharacter(name string) (int, bool) {
	i := slices.IndexFunc(l.state.Get().roster, func(c Character) bool {
		return c.Name == name
	})
	return i, i >= 0
}
