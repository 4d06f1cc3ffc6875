package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/purpose168/lightstyler/internal/app"
	"github.com/purpose168/lightstyler/internal/settings"
	"github.com/purpose168/lightstyler/internal/theme"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "查看主题设置和样式表",
	Example: `
# 查看当前主题
lightstyler theme

# 使用小头像并调整布局
lightstyler theme mode small
lightstyler theme layout 80 100
  `,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *app.App) error {
			printTheme(cmd.OutOrStdout(), app)
			return nil
		})
	},
}

var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示当前主题",
	Args:  cobra.NoArgs,
	RunE:  themeCmd.RunE,
}

var themeEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "启用主题",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateTheme(cmd, func(s *settings.Settings) {
			theme.SetEnabled(s, true)
		})
	},
}

var themeDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "关闭主题",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateTheme(cmd, func(s *settings.Settings) {
			theme.SetEnabled(s, false)
		})
	},
}

var themeModeCmd = &cobra.Command{
	Use:       "mode <large|small>",
	Short:     "切换头像模式",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(settings.ModeLarge), string(settings.ModeSmall)},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := theme.ParseMode(args[0])
		if err != nil {
			return err
		}
		return updateTheme(cmd, func(s *settings.Settings) {
			theme.SetMode(s, mode)
		})
	},
}

var themeLayoutCmd = &cobra.Command{
	Use:   "layout <avatar-width> <edit-offset>",
	Short: "设置当前模式的头像宽度和编辑按钮偏移（像素）",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, offset, err := parsePair(args)
		if err != nil {
			return err
		}
		return updateTheme(cmd, func(s *settings.Settings) {
			theme.SetLayout(s, width, offset)
		})
	},
}

var themeBannerCmd = &cobra.Command{
	Use:   "banner <persona> <character>",
	Short: "设置用户和角色横幅的位置（百分比）",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		persona, character, err := parsePair(args)
		if err != nil {
			return err
		}
		return updateTheme(cmd, func(s *settings.Settings) {
			theme.SetBannerPositions(s, persona, character)
		})
	},
}

var themeResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "恢复当前模式的默认布局",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		banner, _ := cmd.Flags().GetBool("banner")
		return updateTheme(cmd, func(s *settings.Settings) {
			if banner {
				theme.ResetBannerPositions(s)
				return
			}
			theme.ResetMode(s, s.AvatarMode)
		})
	},
}

func init() {
	themeResetCmd.Flags().Bool("banner", false, "改为恢复默认横幅位置")
	themeCmd.AddCommand(
		themeShowCmd,
		themeEnableCmd,
		themeDisableCmd,
		themeModeCmd,
		themeLayoutCmd,
		themeBannerCmd,
		themeResetCmd,
	)
}

func withApp(cmd *cobra.Command, fn func(*app.App) error) error {
	app, err := setupApp(cmd)
	if err != nil {
		return err
	}
	defer app.Shutdown()
	return fn(app)
}

// updateTheme 修改设置并打印修改后的主题。
func updateTheme(cmd *cobra.Command, fn func(*settings.Settings)) error {
	return withApp(cmd, func(app *app.App) error {
		app.SetTheme(fn)
		printTheme(cmd.OutOrStdout(), app)
		return nil
	})
}

func printTheme(w io.Writer, app *app.App) {
	s := app.Theme()
	state := "已启用"
	if !s.ThemeEnabled {
		state = "已关闭"
	}
	fmt.Fprintf(w, "主题: %s\n头像模式: %s\n", state, s.AvatarMode)
	if css := theme.Stylesheet(app.ThemeVariables()...); css != "" {
		fmt.Fprint(w, css)
	}
}

func parsePair(args []string) (int, int, error) {
	a, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("无效的数值 %q: %w", args[0], err)
	}
	b, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("无效的数值 %q: %w", args[1], err)
	}
	return a, b, nil
}
