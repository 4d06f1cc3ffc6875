package cmd

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/x/term"
	"github.com/purpose168/lightstyler/internal/ansiext"
	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select <character> <image>",
	Short: "为角色选择备选头像",
	Long: `为角色设置备选头像。image 不含 / 时视为角色图片目录中的文件名，
否则按地址原样保存。`,
	Example: `
# 使用角色目录中的图片
lightstyler select Alice smile.png

# 使用任意地址
lightstyler select Alice /user/images/shared/alice.png
  `,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		msg, err := app.ApplyOverride(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset [character]",
	Short: "恢复角色的默认头像",
	Example: `
# 恢复 Alice 的默认头像
lightstyler reset Alice

# 清除所有备选头像
lightstyler reset --all
  `,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return fmt.Errorf("需要角色名或 --all")
		}

		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		if all {
			fmt.Fprintln(cmd.OutOrStdout(), app.ResetAll())
			return nil
		}
		msg, err := app.ResetOverride(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var selectionsCmd = &cobra.Command{
	Use:   "selections",
	Short: "列出所有角色的备选头像",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		selections := app.Selections.Snapshot()
		names := slices.Sorted(maps.Keys(selections))

		if term.IsTerminal(os.Stdout.Fd()) {
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				StyleFunc(func(row, col int) lipgloss.Style {
					return lipgloss.NewStyle().Padding(0, 2)
				}).
				Headers("角色", "头像")
			for _, name := range names {
				t.Row(ansiext.Escape(name), ansiext.Escape(selections[name]))
			}
			lipgloss.Println(t)
			return nil
		}
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ansiext.Escape(name), ansiext.Escape(selections[name]))
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("all", false, "清除所有备选头像")
}
