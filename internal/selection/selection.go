// Package selection 维护角色名到备选头像地址的选择表。
package selection

import (
	"log/slog"
	"sync"

	"github.com/purpose168/lightstyler/internal/csync"
	"github.com/purpose168/lightstyler/internal/pubsub"
)

// Change 描述一次选择表变化。All 为 true 时表示整表清空。
type Change struct {
	Name string
	URL  string
	All  bool
}

// Persister 保存完整的选择表，不等待写入完成。
type Persister interface {
	SaveSelections(map[string]string)
}

// Table 是备选头像选择表。表中只存在地址非空的条目，
// 每次修改都会持久化并发布事件。
type Table struct {
	*pubsub.Broker[Change]

	entries *csync.VersionedMap[string, string]
	persist Persister

	// mu 保证修改与持久化的顺序一致
	mu sync.Mutex
}

var _ pubsub.Subscriber[Change] = (*Table)(nil)

// New 创建选择表。persist 可以为 nil，此时只保存在内存中。
func New(persist Persister) *Table {
	return &Table{
		Broker:  pubsub.NewBroker[Change](),
		entries: csync.NewVersionedMap[string, string](),
		persist: persist,
	}
}

// Load 用已保存的数据初始化选择表，不发布事件也不持久化。
func (t *Table) Load(selections map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	clean := make(map[string]string, len(selections))
	for name, url := range selections {
		if name != "" && url != "" {
			clean[name] = url
		}
	}
	t.entries.Reset(clean)
}

// Get 返回角色的备选头像地址。
func (t *Table) Get(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	return t.entries.Get(name)
}

// Set 为角色设置备选头像，url 为空时等同于 Clear。
func (t *Table) Set(name, url string) {
	if name == "" {
		return
	}
	if url == "" {
		t.Clear(name)
		return
	}

	t.mu.Lock()
	t.entries.Set(name, url)
	t.save()
	t.mu.Unlock()

	slog.Debug("已设置备选头像", "character", name, "url", url)
	t.Publish(pubsub.UpdatedEvent, Change{Name: name, URL: url})
}

// Clear 移除角色的备选头像，恢复为默认头像。
func (t *Table) Clear(name string) {
	if name == "" {
		return
	}

	t.mu.Lock()
	t.entries.Del(name)
	t.save()
	t.mu.Unlock()

	slog.Debug("已清除备选头像", "character", name)
	t.Publish(pubsub.DeletedEvent, Change{Name: name})
}

// ClearAll 清空整个选择表。
func (t *Table) ClearAll() {
	t.mu.Lock()
	t.entries.Reset(nil)
	t.save()
	t.mu.Unlock()

	slog.Debug("已清空备选头像")
	t.Publish(pubsub.DeletedEvent, Change{All: true})
}

func (t *Table) save() {
	if t.persist != nil {
		t.persist.SaveSelections(t.entries.Copy())
	}
}

// Snapshot 返回选择表的副本。
func (t *Table) Snapshot() map[string]string {
	return t.entries.Copy()
}

// Len 返回条目数。
func (t *Table) Len() int {
	return t.entries.Len()
}

// Version 每次修改后递增。
func (t *Table) Version() uint64 {
	return t.entries.Version()
}
