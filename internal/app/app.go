// Package app 创建并持有各组件的唯一实例，管理应用程序生命周期。
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/purpose168/lightstyler/internal/avatar"
	"github.com/purpose168/lightstyler/internal/config"
	"github.com/purpose168/lightstyler/internal/db"
	"github.com/purpose168/lightstyler/internal/dom"
	"github.com/purpose168/lightstyler/internal/env"
	"github.com/purpose168/lightstyler/internal/gallery"
	"github.com/purpose168/lightstyler/internal/host"
	"github.com/purpose168/lightstyler/internal/reconcile"
	"github.com/purpose168/lightstyler/internal/selection"
	"github.com/purpose168/lightstyler/internal/settings"
	"github.com/purpose168/lightstyler/internal/theme"
)

// ErrNoCharacter 表示没有提供角色名。
var ErrNoCharacter = errors.New("需要角色名")

type App struct {
	Settings   *settings.Store
	Selections *selection.Table
	Gallery    *gallery.Client
	Resolver   *avatar.Resolver
	Host       *host.Local

	config *config.Config

	// global context and cleanup functions
	globalCtx    context.Context
	cleanupFuncs []func(context.Context) error
}

// New 初始化应用程序实例。设置读取失败时使用默认值继续。
func New(ctx context.Context, conn *sql.DB, cfg *config.Config) (*App, error) {
	headers, err := cfg.Host.ResolvedHeaders(config.NewEnvironmentVariableResolver(env.New()))
	if err != nil {
		return nil, fmt.Errorf("解析请求头失败: %w", err)
	}
	hostCtx := host.NewLocal(cfg.Characters, headers)

	store := settings.NewStore(
		settings.NewFileStore(cfg.Host.SettingsFile),
		settings.NewDBLegacyStore(db.New(conn)),
		settings.WithNamespace(cfg.Host.Namespace),
		settings.WithDebounce(cfg.Persist.Debounce()),
		settings.WithErrorHandler(func(err error) {
			slog.Error("设置未能保存", "file", cfg.Host.SettingsFile, "error", err)
		}),
	)
	loaded, err := store.Load(ctx)
	if err != nil {
		slog.Warn("加载设置失败，使用默认值", "error", err)
	}

	table := selection.New(store)
	table.Load(loaded.CharacterImages)

	app := &App{
		Settings:   store,
		Selections: table,
		Gallery:    gallery.New(cfg.Host.URL, gallery.WithHeaders(hostCtx.RequestHeaders)),
		Resolver:   avatar.NewResolver(table),
		Host:       hostCtx,

		config:    cfg,
		globalCtx: ctx,
	}

	app.cleanupFuncs = append(
		app.cleanupFuncs,
		func(ctx context.Context) error {
			// 先写入设置再关闭数据库
			flushErr := store.Close(ctx)
			return errors.Join(flushErr, conn.Close())
		},
		func(context.Context) error {
			table.Shutdown()
			hostCtx.Shutdown()
			return nil
		},
	)
	return app, nil
}

// Config 返回应用程序配置。
func (app *App) Config() *config.Config {
	return app.config
}

// NewReconciler 创建订阅选择表和聊天切换的协调器。
func (app *App) NewReconciler(source reconcile.MessageSource, opts ...reconcile.Option) *reconcile.Reconciler {
	base := []reconcile.Option{
		reconcile.WithSettleDelay(app.config.Reconcile.SettleDelay()),
		reconcile.WithChatDelay(app.config.Reconcile.ChatDelay()),
		reconcile.WithTrigger[selection.Change]("selections", app.Selections, reconcile.ReasonSelectionChanged),
		reconcile.WithTrigger[host.ChatChanged]("chat", app.Host, reconcile.ReasonChatChanged),
	}
	return reconcile.New(source, app.Resolver, append(base, opts...)...)
}

// ImageURL 把图片引用解析为地址。不含 / 的引用视为角色目录中的文件名。
func (app *App) ImageURL(character, ref string) string {
	if strings.Contains(ref, "/") {
		return ref
	}
	return gallery.ImageURL(character, ref)
}

// ApplyOverride 为角色设置备选头像，返回给用户的提示。
func (app *App) ApplyOverride(character, ref string) (string, error) {
	character = strings.TrimSpace(character)
	if character == "" {
		return "", ErrNoCharacter
	}
	if strings.TrimSpace(ref) == "" {
		return "", fmt.Errorf("需要图片地址或文件名")
	}

	url := app.ImageURL(character, ref)
	app.Selections.Set(character, url)
	msg := fmt.Sprintf("已为 %s 应用备选头像", character)
	slog.Info(msg, "character", character, "url", url)
	return msg, nil
}

// ResetOverride 恢复角色的默认头像。
func (app *App) ResetOverride(character string) (string, error) {
	character = strings.TrimSpace(character)
	if character == "" {
		return "", ErrNoCharacter
	}
	app.Selections.Clear(character)
	msg := fmt.Sprintf("已将 %s 恢复为默认头像", character)
	slog.Info(msg, "character", character)
	return msg, nil
}

// ResetAll 清空所有备选头像。
func (app *App) ResetAll() string {
	n := app.Selections.Len()
	app.Selections.ClearAll()
	msg := fmt.Sprintf("已清除 %d 个备选头像", n)
	slog.Info(msg)
	return msg
}

// Theme 返回当前设置。
func (app *App) Theme() settings.Settings {
	return app.Settings.Current()
}

// SetTheme 修改主题设置并保存。
func (app *App) SetTheme(fn func(*settings.Settings)) settings.Settings {
	return app.Settings.Update(fn)
}

// ThemeVariables 返回主题变量，以及当前角色的备选头像变量。
func (app *App) ThemeVariables() []theme.Variable {
	vars := theme.Variables(app.Theme())
	if c, ok := app.Host.ActiveCharacter(); ok {
		if v, ok := theme.CharacterOverride(app.Selections, c.Name); ok {
			vars = append(vars, v)
		}
	}
	return vars
}

// ApplyTheme 把主题样式写入页面。
func (app *App) ApplyTheme(doc *dom.Document) {
	doc.SetStylesheet(theme.StyleID, theme.Stylesheet(app.ThemeVariables()...))
}

// Shutdown 执行应用程序的优雅关闭。
func (app *App) Shutdown() {
	start := time.Now()
	defer func() { slog.Debug("关闭耗时 " + time.Since(start).String()) }()

	var wg sync.WaitGroup

	shutdownCtx, cancel := context.WithTimeout(app.globalCtx, 5*time.Second)
	defer cancel()

	for _, cleanup := range app.cleanupFuncs {
		if cleanup != nil {
			wg.Go(func() {
				if err := cleanup(shutdownCtx); err != nil {
					slog.Error("应用程序关闭时清理失败", "error", err)
				}
			})
		}
	}
	wg.Wait()
}
