// Package theme 根据设置计算主题样式变量。
package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/purpose168/lightstyler/internal/avatar"
	"github.com/purpose168/lightstyler/internal/settings"
)

// 主题样式变量名
const (
	AvatarWidthVar        = "--avatar-width"
	EditOffsetVar         = "--edit-buttons-top-offset"
	PersonaBannerPosVar   = "--persona-banner-pos"
	CharacterBannerPosVar = "--character-banner-pos"
	CharacterOverrideVar  = "--lightstyler-character-override"
)

// StyleID 是写入页面的主题 style 元素 id
const StyleID = "lightstyler-theme"

// Variable 是一个 CSS 自定义属性。
type Variable struct {
	Name  string
	Value string
}

func (v Variable) String() string {
	return v.Name + ": " + v.Value + ";"
}

// Variables 返回当前模式下的主题变量，主题关闭时返回空。
func Variables(s settings.Settings) []Variable {
	if !s.ThemeEnabled {
		return nil
	}
	l := s.Layout(s.AvatarMode)
	return []Variable{
		{AvatarWidthVar, px(l.AvatarWidth)},
		{EditOffsetVar, px(l.EditOffset)},
		{PersonaBannerPosVar, percent(s.PersonaBannerPos)},
		{CharacterBannerPosVar, percent(s.CharacterBannerPos)},
	}
}

func px(n int) string      { return strconv.Itoa(n) + "px" }
func percent(n int) string { return strconv.Itoa(n) + "%" }

// Stylesheet 把变量渲染为 :root 规则，没有变量时返回空字符串。
func Stylesheet(vars ...Variable) string {
	if len(vars) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, v := range vars {
		b.WriteString("  ")
		b.WriteString(v.String())
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
	return b.String()
}

// CharacterOverride 返回当前角色的备选头像变量，没有选择时返回 false。
func CharacterOverride(overrides avatar.Overrides, character string) (Variable, bool) {
	if overrides == nil || character == "" {
		return Variable{}, false
	}
	u, ok := overrides.Get(character)
	if !ok || u == "" {
		return Variable{}, false
	}
	return Variable{CharacterOverrideVar, "url('" + avatar.NormalizeURL(u) + "')"}, true
}

// ParseMode 解析头像模式名称。
func ParseMode(s string) (settings.AvatarMode, error) {
	m := settings.AvatarMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("未知的头像模式 %q，可选 large 或 small", s)
	}
	return m, nil
}

// SetEnabled 打开或关闭主题。
func SetEnabled(s *settings.Settings, enabled bool) {
	s.ThemeEnabled = enabled
}

// SetMode 切换头像模式，无法识别的模式按 large 处理。
func SetMode(s *settings.Settings, mode settings.AvatarMode) {
	if !mode.Valid() {
		mode = settings.ModeLarge
	}
	s.AvatarMode = mode
}

// SetLayout 设置当前模式的头像宽度和编辑按钮偏移。
func SetLayout(s *settings.Settings, width, offset int) {
	s.SetLayout(s.AvatarMode, settings.Layout{AvatarWidth: width, EditOffset: offset})
}

// SetBannerPositions 设置两种横幅的位置百分比。
func SetBannerPositions(s *settings.Settings, persona, character int) {
	s.PersonaBannerPos = persona
	s.CharacterBannerPos = character
}

// ResetMode 把给定模式的布局恢复为默认值。
func ResetMode(s *settings.Settings, mode settings.AvatarMode) {
	switch mode {
	case settings.ModeSmall:
		s.SetLayout(mode, settings.DefaultSmallLayout)
	default:
		s.SetLayout(settings.ModeLarge, settings.DefaultLargeLayout)
	}
}

// ResetBannerPositions 恢复默认横幅位置。
func ResetBannerPositions(s *settings.Settings) {
	SetBannerPositions(s, settings.DefaultPersonaBannerPos, settings.DefaultCharacterBannerPos)
}
