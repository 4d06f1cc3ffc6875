package version

import "runtime/debug"

// Version 是应用程序版本号，构建时通过 -ldflags 覆盖。
var Version = "devel"

// 通过 `go install` 安装时没有 -ldflags，此时退回到嵌入的模块版本。
func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	mainVersion := info.Main.Version
	if mainVersion != "" && mainVersion != "(devel)" {
		Version = mainVersion
	}
}
