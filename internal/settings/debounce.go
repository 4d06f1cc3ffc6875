package settings

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounceWindow 是合并写入的默认窗口
const DefaultDebounceWindow = 500 * time.Millisecond

// Debouncer 在窗口期内合并多次保存，只写入最后一次。
// 写入没有确认也不重试，失败通过 onError 和日志可见。
type Debouncer struct {
	window  time.Duration
	write   func(context.Context, Settings) error
	onError func(error)

	mu      sync.Mutex
	pending *Settings
	timer   *time.Timer
	closed  bool

	// writeMu 串行化实际的写入
	writeMu sync.Mutex
}

// NewDebouncer 创建合并写入队列，window 小于等于 0 时每次保存立即写入。
func NewDebouncer(window time.Duration, write func(context.Context, Settings) error, onError func(error)) *Debouncer {
	return &Debouncer{
		window:  window,
		write:   write,
		onError: onError,
	}
}

// Enqueue 记录待写入的设置并（重新）开始计时。
func (d *Debouncer) Enqueue(s Settings) {
	v := s.Clone()

	d.mu.Lock()
	d.pending = &v
	immediate := d.closed || d.window <= 0
	if !immediate {
		if d.timer != nil {
			d.timer.Stop()
		}
		d.timer = time.AfterFunc(d.window, func() {
			_ = d.Flush(context.Background())
		})
	}
	d.mu.Unlock()

	if immediate {
		_ = d.Flush(context.Background())
	}
}

// Pending 报告是否有尚未写入的设置。
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Flush 立即写入待写入的设置，没有待写入内容时什么也不做。
func (d *Debouncer) Flush(ctx context.Context) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	d.mu.Lock()
	p := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if p == nil {
		return nil
	}

	if err := d.write(ctx, *p); err != nil {
		slog.Error("保存设置失败", "error", err)
		if d.onError != nil {
			d.onError(err)
		}
		return err
	}
	slog.Debug("设置已保存", "selections", len(p.CharacterImages))
	return nil
}

// Close 写入剩余内容，之后的保存将立即写入。
func (d *Debouncer) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return d.Flush(ctx)
}
