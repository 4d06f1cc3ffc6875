// Package filepathext 解析配置中出现的路径。
package filepathext

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/purpose168/lightstyler/internal/home"
)

// Resolve 展开 ~ 前缀，相对路径相对 base 解析。
func Resolve(base, path string) string {
	if path == "" {
		return ""
	}
	return SmartJoin(base, home.Long(path))
}

// SmartJoin 连接两个路径，two 为绝对路径时直接返回 two。
func SmartJoin(one, two string) string {
	if SmartIsAbs(two) {
		return two
	}
	return filepath.Join(one, two)
}

// SmartIsAbs 判断路径是否为绝对路径。Windows 上以 / 开头的路径也算绝对路径。
func SmartIsAbs(path string) bool {
	if runtime.GOOS == "windows" {
		return filepath.IsAbs(path) || strings.HasPrefix(filepath.ToSlash(path), "/")
	}
	return filepath.IsAbs(path)
}
