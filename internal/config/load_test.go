package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/purpose168/lightstyler/internal/env"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	exitVal := m.Run()
	os.Exit(exitVal)
}

// isolate 让全局配置路径指向临时目录
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LIGHTSTYLER_GLOBAL_CONFIG", filepath.Join(dir, "global"))
	t.Setenv("LIGHTSTYLER_GLOBAL_DATA", filepath.Join(dir, "data"))
	return dir
}

func TestConfig_LoadFromBytes(t *testing.T) {
	data1 := []byte(`{"host": {"url": "http://a:1", "headers": {"X-A": "1"}}}`)
	data2 := []byte(`{"host": {"url": "http://b:2"}}`)
	data3 := []byte(`{"host": {}, "persist": {"debounce_ms": 50}}`)

	cfg, err := loadFromBytes([][]byte{data1, data2, data3})
	require.NoError(t, err)
	require.Equal(t, "http://b:2", cfg.Host.URL)
	require.Equal(t, map[string]string{"X-A": "1"}, cfg.Host.Headers)
	require.Equal(t, 50, cfg.Persist.DebounceMS)
}

func TestConfig_LoadFromBytesEmpty(t *testing.T) {
	cfg, err := loadFromBytes(nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)
}

func TestConfig_setDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.setDefaults("/tmp", "")

	require.Equal(t, "/tmp", cfg.WorkingDir())
	require.Equal(t, filepath.Join("/tmp", ".lightstyler"), cfg.Options.DataDirectory)
	require.Equal(t, "http://127.0.0.1:8000", cfg.Host.URL)
	require.Equal(t, "lightstyler", cfg.Host.Namespace)
	require.Equal(t, filepath.Join("/tmp", ".lightstyler", "extension_settings.json"), cfg.Host.SettingsFile)
	require.NotNil(t, cfg.Host.Headers)
	require.Equal(t, 100, cfg.Reconcile.SettleDelayMS)
	require.Equal(t, 100, cfg.Reconcile.ChatDelayMS)
	require.Equal(t, 500, cfg.Persist.DebounceMS)
	require.Equal(t, filepath.Join("/tmp", ".lightstyler", "logs", "lightstyler.log"), cfg.LogFile())
}

func TestConfig_setDefaultsKeepsValues(t *testing.T) {
	cfg := &Config{
		Host:    &HostOptions{URL: "http://host:9000/", SettingsFile: "/srv/settings.json"},
		Persist: &PersistOptions{DebounceMS: 10},
	}
	cfg.setDefaults("/tmp", "/var/lib/ls")

	require.Equal(t, "/var/lib/ls", cfg.Options.DataDirectory)
	require.Equal(t, "http://host:9000", cfg.Host.URL)
	require.Equal(t, "/srv/settings.json", cfg.Host.SettingsFile)
	require.Equal(t, 10, cfg.Persist.DebounceMS)
	require.Equal(t, 10*time.Millisecond, cfg.Persist.Debounce())
}

func TestLoad_MergesProjectConfigs(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(root, "lightstyler.json"),
		[]byte(`{"host": {"url": "http://root:1", "namespace": "outer"}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(nested, ".lightstyler.json"),
		[]byte(`{"host": {"url": "http://nested:2"}, "characters": [{"name": "Alice", "avatar": "alice.png"}]}`), 0o644))

	cfg, err := load(nested, "", false, env.NewFromMap(nil))
	require.NoError(t, err)
	require.Equal(t, "http://nested:2", cfg.Host.URL)
	require.Equal(t, "outer", cfg.Host.Namespace)
	require.Len(t, cfg.Characters, 1)
	require.Equal(t, "Alice", cfg.Characters[0].Name)
}

func TestLoad_GlobalConfig(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "global"), 0o755))
	require.NoError(t, os.WriteFile(GlobalConfig(),
		[]byte(`{"options": {"debug": true}, "reconcile": {"settle_delay_ms": 250}}`), 0o644))

	cfg, err := load(t.TempDir(), "", false, env.NewFromMap(nil))
	require.NoError(t, err)
	require.True(t, cfg.Options.Debug)
	require.Equal(t, 250, cfg.Reconcile.SettleDelayMS)
	require.Equal(t, GlobalConfigData(), cfg.DataConfigPath())
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	work := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(work, "lightstyler.json"),
		[]byte(`{"host": {"url": "http://file:1"}}`), 0o644))

	cfg, err := load(work, "", false, env.NewFromMap(map[string]string{
		"LIGHTSTYLER_HOST_URL":        "http://env:2",
		"LIGHTSTYLER_NAMESPACE":       "custom",
		"LIGHTSTYLER_DEBUG":           "true",
		"LIGHTSTYLER_DATA_DIR":        "/data/ls",
		"LIGHTSTYLER_DEBOUNCE_MS":     "20",
		"LIGHTSTYLER_CHAT_DELAY_MS":   "5",
		"LIGHTSTYLER_SETTINGS_FILE":   "/data/st/settings.json",
		"LIGHTSTYLER_SETTLE_DELAY_MS": "7",
	}))
	require.NoError(t, err)
	require.Equal(t, "http://env:2", cfg.Host.URL)
	require.Equal(t, "custom", cfg.Host.Namespace)
	require.True(t, cfg.Options.Debug)
	require.Equal(t, "/data/ls", cfg.Options.DataDirectory)
	require.Equal(t, "/data/st/settings.json", cfg.Host.SettingsFile)
	require.Equal(t, 20, cfg.Persist.DebounceMS)
	require.Equal(t, 5, cfg.Reconcile.ChatDelayMS)
	require.Equal(t, 7, cfg.Reconcile.SettleDelayMS)
}

func TestLoad_BadEnvValue(t *testing.T) {
	isolate(t)
	_, err := load(t.TempDir(), "", false, env.NewFromMap(map[string]string{
		"LIGHTSTYLER_DEBOUNCE_MS": "soon",
	}))
	require.Error(t, err)
}

func TestLoad_DebugFlag(t *testing.T) {
	isolate(t)
	cfg, err := load(t.TempDir(), "", true, env.NewFromMap(nil))
	require.NoError(t, err)
	require.True(t, cfg.Options.Debug)
}

func TestLoad_InvalidFile(t *testing.T) {
	isolate(t)
	work := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(work, "lightstyler.json"), []byte(`{"host": `), 0o644))

	_, err := load(work, "", false, env.NewFromMap(nil))
	require.Error(t, err)
}

func TestGlobalConfigPaths(t *testing.T) {
	t.Setenv("LIGHTSTYLER_GLOBAL_CONFIG", "")
	t.Setenv("LIGHTSTYLER_GLOBAL_DATA", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	require.Equal(t, filepath.Join("/xdg/config", "lightstyler", "lightstyler.json"), GlobalConfig())
	require.Equal(t, filepath.Join("/xdg/data", "lightstyler", "lightstyler.json"), GlobalConfigData())
}

func TestDefaults(t *testing.T) {
	isolate(t)
	cfg := Defaults("/work", "/data")
	require.Equal(t, "/data", cfg.Options.DataDirectory)
	require.Equal(t, filepath.Join("/data", "extension_settings.json"), cfg.Host.SettingsFile)
	require.Equal(t, GlobalConfigData(), cfg.DataConfigPath())
}

func TestConfig_setDefaultsRelativePaths(t *testing.T) {
	cfg := &Config{
		Options: &Options{DataDirectory: "state"},
		Host:    &HostOptions{SettingsFile: "host/settings.json"},
	}
	cfg.setDefaults("/work", "")

	require.Equal(t, filepath.Join("/work", "state"), cfg.Options.DataDirectory)
	require.Equal(t, filepath.Join("/work", "host", "settings.json"), cfg.Host.SettingsFile)
}
