// Package home 解析用户主目录，并展开配置路径中的 `~`。
package home

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var homedir = func() string {
	d, err := os.UserHomeDir()
	if err != nil {
		slog.Error("获取用户主目录失败", "error", err)
	}
	return d
}()

// Dir 返回用户主目录，无法确定时为空。
func Dir() string {
	return homedir
}

// Long 展开 `~` 和 `~/...` 形式的路径。`~user` 这类写法以及主目录未知时原样返回。
func Long(p string) string {
	if homedir == "" || !strings.HasPrefix(p, "~") {
		return p
	}
	rest := p[1:]
	if rest == "" {
		return homedir
	}
	if rest[0] != '/' && rest[0] != filepath.Separator {
		return p
	}
	return filepath.Join(homedir, rest[1:])
}
