package app

import (
	"context"
	"fmt"

	"github.com/purpose168/lightstyler/internal/avatar"
	"github.com/purpose168/lightstyler/internal/dom"
	"github.com/purpose168/lightstyler/internal/reconcile"
)

// Session 把一份聊天页面交给后台协调器维护。
type Session struct {
	app      *App
	doc      *dom.Document
	rec      *reconcile.Reconciler
	appended chan avatar.Message
	cancel   context.CancelFunc
	wait     func()
	initial  reconcile.Stats
}

// OpenSession 启动协调器并对页面执行一次初始协调。
func (app *App) OpenSession(ctx context.Context, doc *dom.Document, opts ...reconcile.Option) *Session {
	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		app:      app,
		doc:      doc,
		rec:      app.NewReconciler(doc, opts...),
		appended: make(chan avatar.Message),
		cancel:   cancel,
	}
	s.wait = s.rec.Start(ctx, s.appended)
	s.initial = s.rec.ReconcileAll(reconcile.ReasonInitial)
	return s
}

// Initial 返回初始协调的统计。
func (s *Session) Initial() reconcile.Stats {
	return s.initial
}

// Reconciler 返回会话的协调器。
func (s *Session) Reconciler() *reconcile.Reconciler {
	return s.rec
}

// Append 把 HTML 片段追加到页面，新消息交给协调器解析。
func (s *Session) Append(ctx context.Context, fragment string) (int, error) {
	msgs, err := s.doc.Append(fragment)
	if err != nil {
		return 0, err
	}
	for _, m := range msgs {
		select {
		case s.appended <- m:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return len(msgs), nil
}

// SwitchChat 切换到第 index 个角色的聊天并安排整体协调。
func (s *Session) SwitchChat(index int) error {
	if err := s.app.Host.SwitchChat(index); err != nil {
		return fmt.Errorf("切换聊天失败: %w", err)
	}
	s.rec.Schedule(reconcile.ReasonChatChanged, s.rec.DelayFor(reconcile.ReasonChatChanged))
	return nil
}

// Close 立即执行尚未执行的协调，然后停止协调器并写入主题样式。
func (s *Session) Close() {
	s.rec.Flush()
	s.cancel()
	s.wait()
	s.app.ApplyTheme(s.doc)
}
