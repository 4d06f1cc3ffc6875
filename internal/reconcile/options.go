package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/purpose168/lightstyler/internal/pubsub"
)

// Option 配置 Reconciler。
type Option func(*Reconciler)

// WithSettleDelay 设置选择变化后的等待时间。
func WithSettleDelay(d time.Duration) Option {
	return func(r *Reconciler) { r.settleDelay = d }
}

// WithChatDelay 设置聊天切换后的等待时间。
func WithChatDelay(d time.Duration) Option {
	return func(r *Reconciler) { r.chatDelay = d }
}

// WithPassHook 在每次整体协调后调用 fn。
func WithPassHook(fn func(Stats)) Option {
	return func(r *Reconciler) { r.onPass = fn }
}

// WithTrigger 让 sub 上的每个事件都调度一次 reason 原因的整体协调。
func WithTrigger[T any](name string, sub pubsub.Subscriber[T], reason Reason) Option {
	return func(r *Reconciler) {
		r.triggers = append(r.triggers, trigger{
			name: name,
			start: func(ctx context.Context, wg *sync.WaitGroup, out chan<- Reason) {
				forward(ctx, wg, name, sub, reason, out)
			},
		})
	}
}

type trigger struct {
	name  string
	start func(ctx context.Context, wg *sync.WaitGroup, out chan<- Reason)
}

// forward 同步订阅，然后在后台把事件转换为协调原因。
func forward[T any](
	ctx context.Context,
	wg *sync.WaitGroup,
	name string,
	sub pubsub.Subscriber[T],
	reason Reason,
	out chan<- Reason,
) {
	events := sub.Subscribe(ctx)
	wg.Go(func() {
		for {
			select {
			case _, ok := <-events:
				if !ok {
					slog.Debug("订阅通道已关闭", "name", name)
					return
				}
				select {
				case out <- reason:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				slog.Debug("订阅已取消", "name", name)
				return
			}
		}
	})
}
