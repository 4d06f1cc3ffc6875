package avatar

import (
	"strings"
)

// Kind 是消息作者的种类。
type Kind string

const (
	KindPersona   Kind = "persona"
	KindCharacter Kind = "character"
)

// Identity 是从消息元素中提取的作者身份，每次解析时重新计算，不做存储。
type Identity struct {
	Kind              Kind
	Name              string
	DefaultAvatarFile string
}

// UID 返回 "kind|name|file" 形式的组合标识。
func (id Identity) UID() string {
	return string(id.Kind) + "|" + id.Name + "|" + id.DefaultAvatarFile
}

// ExtractIdentity 从消息中提取作者身份。
// 没有头像、头像地址为空或名字为空时返回 false。
func ExtractIdentity(msg Message) (Identity, bool) {
	src, ok := msg.AvatarSrc()
	if !ok || src == "" {
		return Identity{}, false
	}
	name := strings.TrimSpace(msg.Name())
	if name == "" {
		return Identity{}, false
	}
	return Identity{
		Kind:              kindOf(msg),
		Name:              name,
		DefaultAvatarFile: avatarFile(src),
	}, true
}

func kindOf(msg Message) Kind {
	if msg.IsUser() {
		return KindPersona
	}
	return KindCharacter
}

// avatarFile 取地址最后一段并去掉查询串。
func avatarFile(src string) string {
	file := src[strings.LastIndex(src, "/")+1:]
	file, _, _ = strings.Cut(file, "?")
	return file
}
