//go:build !windows

package fsext

import (
	"os"
	"syscall"
)

// Owner 返回 path 所有者的 uid。查找配置时不会越过所有者不同的目录。
// 无法取得 stat 信息时按当前用户处理。
func Owner(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return os.Getuid(), nil
	}
	return int(stat.Uid), nil
}
