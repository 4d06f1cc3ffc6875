package config

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	goenv "github.com/caarlos0/env/v11"
	"github.com/purpose168/lightstyler/internal/env"
	"github.com/purpose168/lightstyler/internal/filepathext"
	"github.com/purpose168/lightstyler/internal/fsext"
	"github.com/purpose168/lightstyler/internal/home"
	"github.com/purpose168/lightstyler/internal/log"
	"github.com/qjebbs/go-jsons"
)

// Load 从默认路径加载配置并初始化日志
func Load(workingDir, dataDir string, debug bool) (*Config, error) {
	cfg, err := load(workingDir, dataDir, debug, env.New())
	if err != nil {
		return nil, err
	}

	log.Setup(cfg.LogFile(), cfg.Options.Debug)
	return cfg, nil
}

func load(workingDir, dataDir string, debug bool, e env.Env) (*Config, error) {
	configPaths := lookupConfigs(workingDir)

	cfg, err := loadFromConfigPaths(configPaths)
	if err != nil {
		return nil, fmt.Errorf("从路径 %v 加载配置失败: %w", configPaths, err)
	}

	cfg.dataConfigDir = GlobalConfigData()
	cfg.ensureSections()

	if err := cfg.applyEnv(e); err != nil {
		return nil, err
	}

	cfg.setDefaults(workingDir, dataDir)

	if debug {
		cfg.Options.Debug = true
	}
	return cfg, nil
}

func (c *Config) ensureSections() {
	if c.Options == nil {
		c.Options = &Options{}
	}
	if c.Host == nil {
		c.Host = &HostOptions{}
	}
	if c.Reconcile == nil {
		c.Reconcile = &ReconcileOptions{}
	}
	if c.Persist == nil {
		c.Persist = &PersistOptions{}
	}
}

// applyEnv 用 LIGHTSTYLER_* 环境变量覆盖配置文件中的值
func (c *Config) applyEnv(e env.Env) error {
	opts := goenv.Options{Environment: envMap(e)}
	for _, target := range []any{c.Options, c.Host, c.Reconcile, c.Persist} {
		if err := goenv.ParseWithOptions(target, opts); err != nil {
			return fmt.Errorf("解析环境变量失败: %w", err)
		}
	}
	return nil
}

func envMap(e env.Env) map[string]string {
	m := make(map[string]string)
	for _, kv := range e.Env() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			m[k] = v
		}
	}
	return m
}

func (c *Config) setDefaults(workingDir, dataDir string) {
	c.workingDir = workingDir
	c.ensureSections()

	if dataDir != "" {
		c.Options.DataDirectory = dataDir
	} else if c.Options.DataDirectory == "" {
		c.Options.DataDirectory = filepath.Join(workingDir, defaultDataDirectory)
	}
	c.Options.DataDirectory = filepathext.Resolve(workingDir, c.Options.DataDirectory)

	c.Host.URL = strings.TrimRight(cmp.Or(c.Host.URL, defaultHostURL), "/")
	c.Host.Namespace = cmp.Or(c.Host.Namespace, defaultNamespace)
	if c.Host.SettingsFile == "" {
		c.Host.SettingsFile = filepath.Join(c.Options.DataDirectory, defaultSettingsFile)
	}
	c.Host.SettingsFile = filepathext.Resolve(workingDir, c.Host.SettingsFile)
	if c.Host.Headers == nil {
		c.Host.Headers = make(map[string]string)
	}

	if c.Reconcile.SettleDelayMS <= 0 {
		c.Reconcile.SettleDelayMS = defaultSettleDelayMS
	}
	if c.Reconcile.ChatDelayMS <= 0 {
		c.Reconcile.ChatDelayMS = defaultChatDelayMS
	}
	if c.Persist.DebounceMS <= 0 {
		c.Persist.DebounceMS = defaultDebounceMS
	}
}

// lookupConfigs 从当前工作目录向上搜索配置文件
func lookupConfigs(cwd string) []string {
	configPaths := []string{
		GlobalConfig(),
		GlobalConfigData(),
	}

	configNames := []string{appName + ".json", "." + appName + ".json"}

	foundConfigs, err := fsext.Lookup(cwd, configNames...)
	if err != nil {
		return configPaths
	}

	// 越近的配置优先级越高
	slices.Reverse(foundConfigs)

	return append(configPaths, foundConfigs...)
}

func loadFromConfigPaths(configPaths []string) (*Config, error) {
	var configs [][]byte

	for _, path := range configPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("打开配置文件 %s 失败: %w", path, err)
		}
		if len(data) == 0 {
			continue
		}
		configs = append(configs, data)
	}

	return loadFromBytes(configs)
}

func loadFromBytes(configs [][]byte) (*Config, error) {
	if len(configs) == 0 {
		return &Config{}, nil
	}

	data, err := jsons.Merge(configs)
	if err != nil {
		return nil, err
	}
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// GlobalConfig 返回全局配置文件路径
func GlobalConfig() string {
	if global := os.Getenv("LIGHTSTYLER_GLOBAL_CONFIG"); global != "" {
		return filepath.Join(global, fmt.Sprintf("%s.json", appName))
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName, fmt.Sprintf("%s.json", appName))
	}
	return filepath.Join(home.Dir(), ".config", appName, fmt.Sprintf("%s.json", appName))
}

// GlobalConfigData 返回数据目录中的配置文件路径
func GlobalConfigData() string {
	if data := os.Getenv("LIGHTSTYLER_GLOBAL_DATA"); data != "" {
		return filepath.Join(data, fmt.Sprintf("%s.json", appName))
	}
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName, fmt.Sprintf("%s.json", appName))
	}

	// Windows 下在 %LOCALAPPDATA%/lightstyler/
	if runtime.GOOS == "windows" {
		localAppData := cmp.Or(
			os.Getenv("LOCALAPPDATA"),
			filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local"),
		)
		return filepath.Join(localAppData, appName, fmt.Sprintf("%s.json", appName))
	}

	return filepath.Join(home.Dir(), ".local", "share", appName, fmt.Sprintf("%s.json", appName))
}

// Defaults 返回只含默认值的配置，不读取配置文件和环境变量。
func Defaults(workingDir, dataDir string) *Config {
	cfg := &Config{dataConfigDir: GlobalConfigData()}
	cfg.setDefaults(workingDir, dataDir)
	return cfg
}
