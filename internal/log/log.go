package log

import (
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
)

// Setup 初始化全局 slog 日志，输出为 JSON 并按大小轮转。只生效一次。
func Setup(logFile string, debug bool) {
	initOnce.Do(func() {
		logRotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // MB
			MaxBackups: 0,
			MaxAge:     30, // 天
			Compress:   false,
		}

		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}

		logger := slog.NewJSONHandler(logRotator, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})

		slog.SetDefault(slog.New(logger))
		initialized.Store(true)
	})
}

// Initialized 报告 Setup 是否已经执行。
func Initialized() bool {
	return initialized.Load()
}

// RecoverPanic 恢复 panic 并记录堆栈，必须在 defer 中直接调用。
// cleanup 非空时在记录之后执行。
func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		slog.Error(
			"已恢复的 panic",
			"name", name,
			"panic", r,
			"stack", string(debug.Stack()),
		)
		if cleanup != nil {
			cleanup()
		}
	}
}
