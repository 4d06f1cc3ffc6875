package reconcile

import (
	"sync"

	"github.com/purpose168/lightstyler/internal/avatar"
)

// fakeMessage 是并发安全的内存消息句柄
type fakeMessage struct {
	mu    sync.Mutex
	src   string
	name  string
	user  bool
	panic bool
	attrs map[string]string
	style map[string]string
}

func newMessage(name, src string) *fakeMessage {
	return &fakeMessage{
		name:  name,
		src:   src,
		attrs: map[string]string{},
		style: map[string]string{},
	}
}

func (m *fakeMessage) AvatarSrc() (string, bool) {
	if m.panic {
		panic("损坏的消息")
	}
	return m.src, true
}

func (m *fakeMessage) IsUser() bool { return m.user }
func (m *fakeMessage) Name() string { return m.name }

func (m *fakeMessage) Attr(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.attrs[name]
	return v, ok
}

func (m *fakeMessage) SetAttr(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attrs[name] = value
}

func (m *fakeMessage) StyleProperty(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.style[name]
}

func (m *fakeMessage) SetStyleProperty(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.style[name] = value
}

func (m *fakeMessage) avatar() string {
	return m.StyleProperty(avatar.URLProperty)
}

type source struct {
	mu   sync.Mutex
	msgs []*fakeMessage
}

func (s *source) Messages() []avatar.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]avatar.Message, len(s.msgs))
	for i, m := range s.msgs {
		out[i] = m
	}
	return out
}

func (s *source) add(m *fakeMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, m)
}

// passes 记录每次整体协调
type passes struct {
	mu    sync.Mutex
	stats []Stats
}

func (p *passes) hook(s Stats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats = append(p.stats, s)
}

func (p *passes) all() []Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Stats, len(p.stats))
	copy(out, p.stats)
	return out
}
