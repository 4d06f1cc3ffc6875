// Package config 加载 lightstyler 的配置：配置文件合并、环境变量覆盖和默认值。
package config

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/purpose168/lightstyler/internal/host"
)

const (
	appName              = "lightstyler"
	defaultDataDirectory = ".lightstyler"
	defaultHostURL       = "http://127.0.0.1:8000"
	defaultSettingsFile  = "extension_settings.json"
	defaultNamespace     = "lightstyler"

	defaultSettleDelayMS = 100
	defaultChatDelayMS   = 100
	defaultDebounceMS    = 500
)

// Config 保存 lightstyler 的配置。
type Config struct {
	Schema string `json:"$schema,omitempty"`

	Options *Options `json:"options,omitempty" jsonschema:"description=General application options"`

	Host *HostOptions `json:"host,omitempty" jsonschema:"description=Chat host connection and storage"`

	Reconcile *ReconcileOptions `json:"reconcile,omitempty" jsonschema:"description=Message reconciliation timing"`

	Persist *PersistOptions `json:"persist,omitempty" jsonschema:"description=Settings persistence"`

	// Characters 是本地宿主上下文使用的角色名册
	Characters []host.Character `json:"characters,omitempty" jsonschema:"description=Character roster used by the local host context"`

	// 内部字段
	workingDir    string `json:"-"`
	dataConfigDir string `json:"-"`
}

type Options struct {
	DataDirectory string `json:"data_directory,omitempty" env:"LIGHTSTYLER_DATA_DIR" jsonschema:"description=Directory for logs and the local database,example=.lightstyler"`
	Debug         bool   `json:"debug,omitempty" env:"LIGHTSTYLER_DEBUG" jsonschema:"description=Enable debug logging,default=false"`
}

type HostOptions struct {
	URL string `json:"url,omitempty" env:"LIGHTSTYLER_HOST_URL" jsonschema:"description=Base URL of the chat host,format=uri,default=http://127.0.0.1:8000"`
	// Headers 的值支持 $VAR 和 ${VAR}
	Headers      map[string]string `json:"headers,omitempty" jsonschema:"description=Request headers sent to the host; values may reference environment variables,example={\"X-CSRF-Token\":\"$CSRF_TOKEN\"}"`
	SettingsFile string            `json:"settings_file,omitempty" env:"LIGHTSTYLER_SETTINGS_FILE" jsonschema:"description=Path of the host extension settings document"`
	Namespace    string            `json:"namespace,omitempty" env:"LIGHTSTYLER_NAMESPACE" jsonschema:"description=Key of this extension in the settings document,default=lightstyler"`
}

type ReconcileOptions struct {
	SettleDelayMS int `json:"settle_delay_ms,omitempty" env:"LIGHTSTYLER_SETTLE_DELAY_MS" jsonschema:"description=Delay before reconciling after a selection change,default=100,minimum=0"`
	ChatDelayMS   int `json:"chat_delay_ms,omitempty" env:"LIGHTSTYLER_CHAT_DELAY_MS" jsonschema:"description=Delay before reconciling after a chat switch,default=100,minimum=0"`
}

type PersistOptions struct {
	DebounceMS int `json:"debounce_ms,omitempty" env:"LIGHTSTYLER_DEBOUNCE_MS" jsonschema:"description=Window for coalescing settings writes,default=500,minimum=0"`
}

func (c *Config) WorkingDir() string {
	return c.workingDir
}

// DataConfigPath 返回数据目录中的配置文件路径。
func (c *Config) DataConfigPath() string {
	return c.dataConfigDir
}

// LogFile 返回日志文件路径。
func (c *Config) LogFile() string {
	return filepath.Join(c.Options.DataDirectory, "logs", appName+".log")
}

func (r ReconcileOptions) SettleDelay() time.Duration {
	return time.Duration(r.SettleDelayMS) * time.Millisecond
}

func (r ReconcileOptions) ChatDelay() time.Duration {
	return time.Duration(r.ChatDelayMS) * time.Millisecond
}

func (p PersistOptions) Debounce() time.Duration {
	return time.Duration(p.DebounceMS) * time.Millisecond
}

// ResolvedHeaders 解析请求头中的环境变量引用。
func (h HostOptions) ResolvedHeaders(resolver VariableResolver) (http.Header, error) {
	headers := make(http.Header, len(h.Headers))
	for k, v := range h.Headers {
		resolved, err := resolver.ResolveValue(v)
		if err != nil {
			return nil, err
		}
		headers.Set(k, resolved)
	}
	return headers, nil
}
