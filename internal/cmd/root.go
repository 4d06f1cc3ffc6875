package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/charmtone"
	"github.com/charmbracelet/x/term"
	"github.com/joho/godotenv"
	"github.com/purpose168/lightstyler/internal/app"
	"github.com/purpose168/lightstyler/internal/config"
	"github.com/purpose168/lightstyler/internal/db"
	"github.com/purpose168/lightstyler/internal/format"
	"github.com/purpose168/lightstyler/internal/version"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "当前工作目录")
	rootCmd.PersistentFlags().StringP("data-dir", "D", "", "自定义 lightstyler 数据目录")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "调试")
	rootCmd.Flags().BoolP("help", "h", false, "帮助")

	rootCmd.AddCommand(
		renderCmd,
		imagesCmd,
		foldersCmd,
		selectCmd,
		resetCmd,
		selectionsCmd,
		themeCmd,
		legacyCmd,
		dirsCmd,
		logsCmd,
		schemaCmd,
	)
}

var rootCmd = &cobra.Command{
	Use:   "lightstyler",
	Short: "聊天消息头像与主题样式工具",
	Long:  "为聊天页面中的消息解析头像、管理角色备选头像并生成主题样式",
	Example: `
# 处理聊天页面并输出结果
lightstyler render chat.html -o out.html

# 为角色选择备选头像
lightstyler select Alice smile.png

# 切换到小头像模式
lightstyler theme mode small

# 使用自定义数据目录
lightstyler -D /path/to/custom/.lightstyler selections
  `,
	SilenceUsage: true,
}

var mark = lipgloss.NewStyle().Foreground(charmtone.Dolly).SetString(`
  ▄▄▄▄▄▄▄▄▄▄
 ██ ▀▀▀▀▀▀ ██
 ██ ▄████▄ ██
 ██ ▀████▀ ██
  ▀▀▀▀▀▀▀▀▀▀
`)

// copied from cobra:
const defaultVersionTemplate = `{{with .DisplayName}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`

func Execute() {
	// cobra 没有提供打印版本的钩子，这里把彩色标志预先渲染进版本模板。
	if term.IsTerminal(os.Stdout.Fd()) {
		var b bytes.Buffer
		w := colorprofile.NewWriter(os.Stdout, os.Environ())
		w.Forward = &b
		_, _ = w.WriteString(mark.String())
		rootCmd.SetVersionTemplate(b.String() + "\n" + defaultVersionTemplate)
	}
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// supportsProgressBar 通过环境变量判断当前终端是否支持进度条。
func supportsProgressBar() bool {
	if !term.IsTerminal(os.Stderr.Fd()) {
		return false
	}
	termProg := os.Getenv("TERM_PROGRAM")
	_, isWindowsTerminal := os.LookupEnv("WT_SESSION")

	return isWindowsTerminal || strings.Contains(strings.ToLower(termProg), "ghostty")
}

// withProgressBar 在 fn 执行期间显示不确定进度条。
func withProgressBar(fn func() error) error {
	if supportsProgressBar() {
		_, _ = fmt.Fprint(os.Stderr, ansi.SetIndeterminateProgressBar)
		defer func() { _, _ = fmt.Fprint(os.Stderr, ansi.ResetProgressBar) }()
	}
	return fn()
}

// waitWith 在终端中执行 fn 时显示等待动画，按 ctrl+c 取消 fn 的上下文。
func waitWith(cmd *cobra.Command, label string, fn func(context.Context) error) error {
	if !term.IsTerminal(os.Stderr.Fd()) {
		return fn(cmd.Context())
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	s := format.NewSpinner(ctx, cancel, label)
	s.Start()
	err := fn(ctx)
	s.Stop()
	return err
}

// setupApp 加载配置、连接数据库并创建应用实例。
func setupApp(cmd *cobra.Command) (*app.App, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	ctx := cmd.Context()

	cwd, err := ResolveCwd(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(cwd, dataDir, debug)
	if err != nil {
		return nil, err
	}

	if err := createDataDir(cfg.Options.DataDirectory); err != nil {
		return nil, err
	}

	// 连接数据库，同时运行迁移。
	conn, err := db.Connect(ctx, cfg.Options.DataDirectory)
	if err != nil {
		return nil, err
	}

	appInstance, err := app.New(ctx, conn, cfg)
	if err != nil {
		_ = conn.Close()
		slog.Error("创建应用实例失败", "error", err)
		return nil, err
	}
	return appInstance, nil
}

// loadConfig 先读取工作目录中的 .env（不覆盖已有变量），再加载配置。
// 请求头中引用的变量通常放在 .env 里。
func loadConfig(cwd, dataDir string, debug bool) (*config.Config, error) {
	if err := godotenv.Load(filepath.Join(cwd, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("读取 .env 失败: %w", err)
	}
	return config.Load(cwd, dataDir, debug)
}

// readInput 读取 path 指向的文件，path 为空或 "-" 时读取标准输入。
func readInput(path string) ([]byte, error) {
	if path != "" && path != "-" {
		return os.ReadFile(path)
	}
	if term.IsTerminal(os.Stdin.Fd()) {
		return nil, fmt.Errorf("没有输入：请提供文件或通过管道传入 HTML")
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return nil, err
	}
	// 只接受命名管道（|）或常规文件（<）。
	if fi.Mode()&os.ModeNamedPipe == 0 && !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("标准输入不是管道或文件")
	}
	return io.ReadAll(os.Stdin)
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}

func createDataDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create data directory: %q %w", dir, err)
	}

	gitIgnorePath := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(gitIgnorePath); os.IsNotExist(err) {
		if err := os.WriteFile(gitIgnorePath, []byte("*\n"), 0o644); err != nil {
			return fmt.Errorf("failed to create .gitignore file: %q %w", gitIgnorePath, err)
		}
	}

	return nil
}
