package settings

import (
	"log/slog"

	"github.com/tidwall/gjson"
)

// decode 逐键读取命名空间内容，类型不符的键保留默认值并记录日志，
// 其余键照常生效。character_images 中值不是字符串的条目单独丢弃。
func decode(raw []byte) Settings {
	s := Defaults()
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		slog.Warn("设置内容不是对象，使用默认值", "type", doc.Type.String())
		return s
	}

	boolKey(doc, "theme_enabled", &s.ThemeEnabled)
	if v := doc.Get("avatar_mode"); v.Exists() {
		if v.Type == gjson.String {
			s.AvatarMode = AvatarMode(v.Str)
		} else {
			invalidKey("avatar_mode", v)
		}
	}
	intKey(doc, "large_avatar_width", &s.LargeAvatarWidth)
	intKey(doc, "large_edit_offset", &s.LargeEditOffset)
	intKey(doc, "small_avatar_width", &s.SmallAvatarWidth)
	intKey(doc, "small_edit_offset", &s.SmallEditOffset)
	intKey(doc, "persona_banner_pos", &s.PersonaBannerPos)
	intKey(doc, "character_banner_pos", &s.CharacterBannerPos)

	if v := doc.Get("character_images"); v.Exists() {
		if !v.IsObject() {
			invalidKey("character_images", v)
			return s
		}
		v.ForEach(func(name, url gjson.Result) bool {
			if url.Type != gjson.String {
				slog.Warn("忽略无效的图片选择", "character", name.String(), "type", url.Type.String())
				return true
			}
			s.CharacterImages[name.String()] = url.Str
			return true
		})
	}
	return s
}

func boolKey(doc gjson.Result, key string, dst *bool) {
	v := doc.Get(key)
	switch {
	case !v.Exists():
	case v.IsBool():
		*dst = v.Bool()
	default:
		invalidKey(key, v)
	}
}

// intKey 只接受整数值。
func intKey(doc gjson.Result, key string, dst *int) {
	v := doc.Get(key)
	if !v.Exists() {
		return
	}
	if v.Type != gjson.Number || v.Num != float64(int(v.Num)) {
		invalidKey(key, v)
		return
	}
	*dst = int(v.Num)
}

func invalidKey(key string, v gjson.Result) {
	slog.Warn("设置项类型不符，使用默认值", "key", key, "value", v.Raw)
}
