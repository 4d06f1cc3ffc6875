// Package env 抽象环境变量的读取，便于在测试中替换。
package env

import (
	"maps"
	"os"
	"slices"
)

// Env 提供对一组环境变量的只读访问。
type Env interface {
	Get(key string) string
	Env() []string
}

type osEnv struct{}

// Get 返回进程环境中的变量值。
func (osEnv) Get(key string) string {
	return os.Getenv(key)
}

// Env 以 key=value 形式返回进程环境。
func (osEnv) Env() []string {
	return os.Environ()
}

// New 返回读取进程环境的 Env。
func New() Env {
	return &osEnv{}
}

type mapEnv struct {
	m map[string]string
}

// Get 返回映射中的变量值。
func (e *mapEnv) Get(key string) string {
	return e.m[key]
}

// Env 以 key=value 形式按键排序返回映射中的变量。
func (e *mapEnv) Env() []string {
	out := make([]string, 0, len(e.m))
	for _, k := range slices.Sorted(maps.Keys(e.m)) {
		out = append(out, k+"="+e.m[k])
	}
	return out
}

// NewFromMap 返回以给定映射为数据源的 Env。
func NewFromMap(m map[string]string) Env {
	if m == nil {
		m = map[string]string{}
	}
	return &mapEnv{m: m}
}

// Expand 按 Env 展开 s 中的 $VAR 和 ${VAR}。
func Expand(e Env, s string) string {
	return os.Expand(s, e.Get)
}
