// Package settings 读写命名空间下的扩展设置，负责默认值和从旧版本地存储的一次性迁移。
package settings

import (
	"maps"
	"strings"
)

const (
	// DefaultNamespace 是设置在宿主扩展设置文档中的键
	DefaultNamespace = "lightstyler"
	// LegacySelectionsKey 是旧版本地存储中保存角色图片选择的键
	LegacySelectionsKey = "lightstyler_character_images"
)

// AvatarMode 是头像尺寸模式
type AvatarMode string

const (
	ModeLarge AvatarMode = "large"
	ModeSmall AvatarMode = "small"
)

// Valid 报告模式是否可识别。
func (m AvatarMode) Valid() bool {
	return m == ModeLarge || m == ModeSmall
}

// Layout 是某个头像模式下的布局参数，单位为像素
type Layout struct {
	AvatarWidth int
	EditOffset  int
}

// 默认布局
var (
	DefaultLargeLayout = Layout{AvatarWidth: 304, EditOffset: 390}
	DefaultSmallLayout = Layout{AvatarWidth: 70, EditOffset: 90}
)

// 默认横幅位置，单位为百分比
const (
	DefaultPersonaBannerPos   = 15
	DefaultCharacterBannerPos = 27
)

// Settings 是持久化在命名空间下的完整设置。
type Settings struct {
	ThemeEnabled       bool              `json:"theme_enabled"`
	AvatarMode         AvatarMode        `json:"avatar_mode"`
	LargeAvatarWidth   int               `json:"large_avatar_width"`
	LargeEditOffset    int               `json:"large_edit_offset"`
	SmallAvatarWidth   int               `json:"small_avatar_width"`
	SmallEditOffset    int               `json:"small_edit_offset"`
	PersonaBannerPos   int               `json:"persona_banner_pos"`
	CharacterBannerPos int               `json:"character_banner_pos"`
	CharacterImages    map[string]string `json:"character_images"`
}

// Defaults 返回全部默认值。
func Defaults() Settings {
	return Settings{
		ThemeEnabled:       true,
		AvatarMode:         ModeLarge,
		LargeAvatarWidth:   DefaultLargeLayout.AvatarWidth,
		LargeEditOffset:    DefaultLargeLayout.EditOffset,
		SmallAvatarWidth:   DefaultSmallLayout.AvatarWidth,
		SmallEditOffset:    DefaultSmallLayout.EditOffset,
		PersonaBannerPos:   DefaultPersonaBannerPos,
		CharacterBannerPos: DefaultCharacterBannerPos,
		CharacterImages:    map[string]string{},
	}
}

// Clone 返回不与 s 共享映射的副本。
func (s Settings) Clone() Settings {
	out := s
	out.CharacterImages = maps.Clone(s.CharacterImages)
	if out.CharacterImages == nil {
		out.CharacterImages = map[string]string{}
	}
	return out
}

// Layout 返回给定模式的布局参数。
func (s Settings) Layout(mode AvatarMode) Layout {
	if mode == ModeSmall {
		return Layout{AvatarWidth: s.SmallAvatarWidth, EditOffset: s.SmallEditOffset}
	}
	return Layout{AvatarWidth: s.LargeAvatarWidth, EditOffset: s.LargeEditOffset}
}

// SetLayout 设置给定模式的布局参数。
func (s *Settings) SetLayout(mode AvatarMode, l Layout) {
	if mode == ModeSmall {
		s.SmallAvatarWidth, s.SmallEditOffset = l.AvatarWidth, l.EditOffset
		return
	}
	s.LargeAvatarWidth, s.LargeEditOffset = l.AvatarWidth, l.EditOffset
}

// normalize 修正无法识别的模式，并丢弃空名称或空 URL 的图片选择。
func (s *Settings) normalize() {
	if !s.AvatarMode.Valid() {
		s.AvatarMode = ModeLarge
	}
	if s.CharacterImages == nil {
		s.CharacterImages = map[string]string{}
	}
	for name, url := range s.CharacterImages {
		if strings.TrimSpace(name) == "" || url == "" {
			delete(s.CharacterImages, name)
		}
	}
}
