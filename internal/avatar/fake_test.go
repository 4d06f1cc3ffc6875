package avatar

// fakeMessage 是内存中的消息句柄
type fakeMessage struct {
	src    string
	hasImg bool
	user   bool
	name   string
	attrs  map[string]string
	style  map[string]string

	attrWrites  int
	styleWrites int
}

func newFake(name, src string, user bool) *fakeMessage {
	return &fakeMessage{
		src:    src,
		hasImg: true,
		user:   user,
		name:   name,
		attrs:  map[string]string{},
		style:  map[string]string{},
	}
}

func (m *fakeMessage) AvatarSrc() (string, bool) { return m.src, m.hasImg }
func (m *fakeMessage) IsUser() bool              { return m.user }
func (m *fakeMessage) Name() string              { return m.name }

func (m *fakeMessage) Attr(name string) (string, bool) {
	v, ok := m.attrs[name]
	return v, ok
}

func (m *fakeMessage) SetAttr(name, value string) {
	m.attrWrites++
	m.attrs[name] = value
}

func (m *fakeMessage) StyleProperty(name string) string { return m.style[name] }

func (m *fakeMessage) SetStyleProperty(name, value string) {
	m.styleWrites++
	m.style[name] = value
}

type mapOverrides map[string]string

func (o mapOverrides) Get(name string) (string, bool) {
	v, ok := o[name]
	return v, ok
}
