package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"
)

// Store 是设置存储适配器：加载时补齐默认值并执行旧数据迁移，
// 保存经由合并写入队列异步落盘。
type Store struct {
	namespace string
	synced    SyncedStore
	legacy    LegacyStore
	writer    *Debouncer

	mu      sync.RWMutex
	current Settings
}

// Option 配置 Store。
type Option func(*storeOptions)

type storeOptions struct {
	namespace string
	window    time.Duration
	onError   func(error)
}

// WithNamespace 设置命名空间。
func WithNamespace(ns string) Option {
	return func(o *storeOptions) { o.namespace = ns }
}

// WithDebounce 设置合并写入窗口。
func WithDebounce(d time.Duration) Option {
	return func(o *storeOptions) { o.window = d }
}

// WithErrorHandler 设置写入失败的回调。
func WithErrorHandler(fn func(error)) Option {
	return func(o *storeOptions) { o.onError = fn }
}

// NewStore 创建 Store。legacy 可以为 nil，此时跳过迁移。
func NewStore(synced SyncedStore, legacy LegacyStore, opts ...Option) *Store {
	o := storeOptions{
		namespace: DefaultNamespace,
		window:    DefaultDebounceWindow,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{
		namespace: o.namespace,
		synced:    synced,
		legacy:    legacy,
		current:   Defaults(),
	}
	s.writer = NewDebouncer(o.window, s.write, o.onError)
	return s
}

// Namespace 返回命名空间。
func (s *Store) Namespace() string {
	return s.namespace
}

// Load 读取设置并补齐缺失的默认值，必要时执行一次旧数据迁移。
// 类型不符的键记录日志并使用默认值，其余键不受影响；只有读取本身失败才返回错误，
// 此时返回的设置仍然可用。
func (s *Store) Load(ctx context.Context) (Settings, error) {
	loaded := Defaults()
	hasSelections := false

	raw, ok, err := s.synced.ReadNamespace(ctx, s.namespace)
	if err != nil {
		s.setCurrent(loaded)
		return loaded.Clone(), fmt.Errorf("读取设置失败: %w", err)
	}
	if ok {
		loaded = decode(raw)
		hasSelections = len(loaded.CharacterImages) > 0
	}
	loaded.normalize()

	if !hasSelections && s.legacy != nil {
		if legacy, found := s.readLegacy(ctx); found {
			maps.Copy(loaded.CharacterImages, legacy)
			loaded.normalize()
			s.migrate(ctx, loaded)
		}
	}

	s.setCurrent(loaded)
	return loaded.Clone(), nil
}

// readLegacy 读取旧版存储中的图片选择，任何失败都视为没有旧数据。
func (s *Store) readLegacy(ctx context.Context) (map[string]string, bool) {
	value, ok, err := s.legacy.GetItem(ctx, LegacySelectionsKey)
	if err != nil {
		slog.Warn("读取旧版本地存储失败", "key", LegacySelectionsKey, "error", err)
		return nil, false
	}
	if !ok || value == "" {
		return nil, false
	}

	var selections map[string]string
	if err := json.Unmarshal([]byte(value), &selections); err != nil {
		slog.Warn("旧版图片选择无法解析，忽略", "key", LegacySelectionsKey, "error", err)
		return nil, false
	}
	return selections, true
}

// migrate 立即写入合并后的设置，成功后删除旧键，失败时保留旧键以便下次重试。
func (s *Store) migrate(ctx context.Context, merged Settings) {
	if err := s.write(ctx, merged); err != nil {
		slog.Error("迁移旧版图片选择失败", "error", err)
		return
	}
	if err := s.legacy.RemoveItem(ctx, LegacySelectionsKey); err != nil {
		slog.Warn("删除旧版图片选择失败", "key", LegacySelectionsKey, "error", err)
		return
	}
	slog.Info("已迁移旧版图片选择", "count", len(merged.CharacterImages))
}

func (s *Store) write(ctx context.Context, v Settings) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("序列化设置失败: %w", err)
	}
	return s.synced.WriteNamespace(ctx, s.namespace, raw)
}

func (s *Store) setCurrent(v Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = v.Clone()
}

// Current 返回当前内存中的设置副本。
func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Save 替换当前设置并排队写入，不等待也不确认。
func (s *Store) Save(v Settings) {
	v = v.Clone()
	v.normalize()
	s.setCurrent(v)
	s.writer.Enqueue(v)
}

// Update 在当前设置上应用 fn 并保存，返回更新后的副本。
func (s *Store) Update(fn func(*Settings)) Settings {
	s.mu.Lock()
	v := s.current.Clone()
	fn(&v)
	v.normalize()
	s.current = v.Clone()
	s.mu.Unlock()

	s.writer.Enqueue(v)
	return v.Clone()
}

// SaveSelections 用 selections 替换图片选择并保存。
func (s *Store) SaveSelections(selections map[string]string) {
	s.Update(func(v *Settings) {
		v.CharacterImages = maps.Clone(selections)
	})
}

// Flush 立即写入排队中的设置。
func (s *Store) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

// Close 写入剩余内容，之后的保存将同步写入。
func (s *Store) Close(ctx context.Context) error {
	return s.writer.Close(ctx)
}
