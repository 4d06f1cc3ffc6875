// Package reconcile 在消息追加、聊天切换和选择变化时重新解析消息头像。
package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/purpose168/lightstyler/internal/avatar"
	"github.com/purpose168/lightstyler/internal/log"
)

// Reason 是一次整体协调的触发原因。
type Reason string

const (
	ReasonInitial          Reason = "initial"
	ReasonChatChanged      Reason = "chat_changed"
	ReasonSelectionChanged Reason = "selection_changed"
	ReasonRefresh          Reason = "refresh"
)

// Mode 返回该原因使用的解析模式。选择变化需要覆盖已设置的样式变量。
func (r Reason) Mode() avatar.Mode {
	switch r {
	case ReasonSelectionChanged, ReasonRefresh:
		return avatar.ModeRefresh
	default:
		return avatar.ModeFill
	}
}

// 默认延迟，留给宿主完成自己的渲染
const (
	DefaultSettleDelay = 100 * time.Millisecond
	DefaultChatDelay   = 100 * time.Millisecond
)

// MessageSource 按文档顺序提供当前可见的消息。
type MessageSource interface {
	Messages() []avatar.Message
}

// Stats 汇总一次整体协调。
type Stats struct {
	PassID   string
	Reason   Reason
	Messages int
	Stamped  int
	Written  int
	Failed   int
	Duration time.Duration
}

// Reconciler 串行执行所有解析工作。整体协调总是读取运行时的选择表，
// 不使用触发时的快照。
type Reconciler struct {
	source   MessageSource
	resolver *avatar.Resolver

	settleDelay time.Duration
	chatDelay   time.Duration
	triggers    []trigger
	onPass      func(Stats)

	// work 串行化解析
	work sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	pending Reason
	gen     uint64
}

// New 创建协调器。
func New(source MessageSource, resolver *avatar.Resolver, opts ...Option) *Reconciler {
	r := &Reconciler{
		source:      source,
		resolver:    resolver,
		settleDelay: DefaultSettleDelay,
		chatDelay:   DefaultChatDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DelayFor 返回给定原因的调度延迟。
func (r *Reconciler) DelayFor(reason Reason) time.Duration {
	switch reason {
	case ReasonChatChanged:
		return r.chatDelay
	case ReasonSelectionChanged:
		return r.settleDelay
	default:
		return 0
	}
}

// HandleAppend 只解析新追加的消息。
func (r *Reconciler) HandleAppend(msg avatar.Message) avatar.Result {
	r.work.Lock()
	defer r.work.Unlock()

	res, ok := r.resolveOne(msg, avatar.ModeFill)
	if !ok {
		slog.Warn("解析追加的消息失败")
	}
	return res
}

// ReconcileAll 逐条解析所有可见消息，单条失败不影响其余消息。
func (r *Reconciler) ReconcileAll(reason Reason) Stats {
	r.work.Lock()
	defer r.work.Unlock()

	start := time.Now()
	stats := Stats{PassID: uuid.NewString(), Reason: reason}
	mode := reason.Mode()

	for _, msg := range r.messages() {
		stats.Messages++
		res, ok := r.resolveOne(msg, mode)
		if !ok {
			stats.Failed++
			continue
		}
		if res.Stamped {
			stats.Stamped++
		}
		if res.Written {
			stats.Written++
		}
	}
	stats.Duration = time.Since(start)

	slog.Debug(
		"消息协调完成",
		"pass", stats.PassID,
		"reason", reason,
		"messages", stats.Messages,
		"written", stats.Written,
		"failed", stats.Failed,
	)
	if r.onPass != nil {
		r.onPass(stats)
	}
	return stats
}

func (r *Reconciler) messages() (msgs []avatar.Message) {
	defer log.RecoverPanic("reconcile.messages", func() { msgs = nil })
	return r.source.Messages()
}

func (r *Reconciler) resolveOne(msg avatar.Message, mode avatar.Mode) (res avatar.Result, ok bool) {
	if msg == nil {
		return res, false
	}
	defer log.RecoverPanic("reconcile.resolve", func() { ok = false })
	return r.resolver.Resolve(msg, mode), true
}

// Schedule 在 delay 后执行一次整体协调。与尚未执行的调度合并，
// 只执行一次；需要覆盖样式的原因优先。
func (r *Reconciler) Schedule(reason Reason, delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = merge(r.pending, reason)
	if r.timer != nil {
		r.timer.Stop()
	}
	r.gen++
	gen := r.gen
	r.timer = time.AfterFunc(delay, func() { r.fire(gen) })
}

func merge(current, next Reason) Reason {
	if current == "" || next.Mode() >= current.Mode() {
		return next
	}
	return current
}

func (r *Reconciler) fire(gen uint64) {
	r.mu.Lock()
	if gen != r.gen || r.pending == "" {
		r.mu.Unlock()
		return
	}
	reason := r.take()
	r.mu.Unlock()

	r.ReconcileAll(reason)
}

// take 取出待执行的原因并停止计时，调用方持有 mu。
func (r *Reconciler) take() Reason {
	reason := r.pending
	r.pending = ""
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
	return reason
}

// Pending 报告是否有尚未执行的调度。
func (r *Reconciler) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending != ""
}

// Flush 立即执行尚未执行的调度。没有调度时返回 false。
func (r *Reconciler) Flush() (Stats, bool) {
	r.mu.Lock()
	reason := r.take()
	r.mu.Unlock()

	if reason == "" {
		return Stats{}, false
	}
	return r.ReconcileAll(reason), true
}

// Stop 取消尚未执行的调度。
func (r *Reconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.take()
}

// Run 处理追加事件和所有触发源，直到 ctx 结束。
// appended 关闭后继续处理其他触发源。
func (r *Reconciler) Run(ctx context.Context, appended <-chan avatar.Message) {
	r.Start(ctx, appended)()
}

// Start 同步订阅所有触发源后在后台运行事件循环，返回的函数等待循环退出。
// 循环在 ctx 结束时退出，并取消尚未执行的调度。
func (r *Reconciler) Start(ctx context.Context, appended <-chan avatar.Message) (wait func()) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	reasons := make(chan Reason, len(r.triggers)+1)
	for _, t := range r.triggers {
		t.start(ctx, &wg, reasons)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			cancel()
			wg.Wait()
			r.Stop()
		}()
		r.loop(ctx, appended, reasons)
	}()
	return func() { <-done }
}

func (r *Reconciler) loop(ctx context.Context, appended <-chan avatar.Message, reasons <-chan Reason) {
	slog.Debug("消息协调器已启动", "triggers", len(r.triggers))
	for {
		select {
		case <-ctx.Done():
			slog.Debug("消息协调器已停止")
			return
		case msg, ok := <-appended:
			if !ok {
				appended = nil
				continue
			}
			r.HandleAppend(msg)
		case reason := <-reasons:
			r.Schedule(reason, r.DelayFor(reason))
		}
	}
}
