package csync

import (
	"sync/atomic"
)

// NewVersionedMap 创建一个带版本号的并发安全映射。
func NewVersionedMap[K comparable, V any]() *VersionedMap[K, V] {
	return &VersionedMap[K, V]{
		m: NewMap[K, V](),
	}
}

// VersionedMap 在每次写操作后递增版本号，读者据此判断内容是否变化。
type VersionedMap[K comparable, V any] struct {
	m *Map[K, V]
	v atomic.Uint64
}

// Get 获取键对应的值。
func (m *VersionedMap[K, V]) Get(key K) (V, bool) {
	return m.m.Get(key)
}

// Set 设置键对应的值并递增版本号。
func (m *VersionedMap[K, V]) Set(key K, value V) {
	m.m.Set(key, value)
	m.v.Add(1)
}

// Del 删除指定键并递增版本号。
func (m *VersionedMap[K, V]) Del(key K) {
	m.m.Del(key)
	m.v.Add(1)
}

// Reset 替换全部内容并递增版本号。
func (m *VersionedMap[K, V]) Reset(input map[K]V) {
	m.m.Reset(input)
	m.v.Add(1)
}

// Copy 返回内部映射的副本。
func (m *VersionedMap[K, V]) Copy() map[K]V {
	return m.m.Copy()
}

// Len 返回映射中的条目数量。
func (m *VersionedMap[K, V]) Len() int {
	return m.m.Len()
}

// Version 返回当前版本号。
func (m *VersionedMap[K, V]) Version() uint64 {
	return m.v.Load()
}
