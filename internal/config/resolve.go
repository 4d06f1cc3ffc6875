package config

import (
	"fmt"
	"strings"

	"github.com/purpose168/lightstyler/internal/env"
)

// VariableResolver 解析配置值中的变量引用
type VariableResolver interface {
	ResolveValue(value string) (string, error)
}

type environmentVariableResolver struct {
	env env.Env
}

// NewEnvironmentVariableResolver 创建基于 env 的变量解析器。
func NewEnvironmentVariableResolver(env env.Env) VariableResolver {
	return &environmentVariableResolver{
		env: env,
	}
}

// ResolveValue 展开值中任意位置的 $VAR 和 ${VAR}。
// 引用了未设置的变量时返回错误。
func (r *environmentVariableResolver) ResolveValue(value string) (string, error) {
	if value == "$" {
		return "", fmt.Errorf("无效的值格式: %s", value)
	}
	if !strings.Contains(value, "$") {
		return value, nil
	}

	var missing []string
	resolved := env.Expand(envFunc(func(key string) string {
		v := r.env.Get(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}), value)
	if len(missing) > 0 {
		return "", fmt.Errorf("环境变量 %q 未设置", missing[0])
	}
	return resolved, nil
}

// envFunc 把函数适配为 env.Env
type envFunc func(string) string

func (f envFunc) Get(key string) string { return f(key) }
func (f envFunc) Env() []string         { return nil }
