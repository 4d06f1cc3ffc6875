package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/dustin/go-humanize"
	"github.com/purpose168/lightstyler/internal/ansiext"
	"github.com/purpose168/lightstyler/internal/db"
	"github.com/spf13/cobra"
)

var legacyCmd = &cobra.Command{
	Use:   "legacy",
	Short: "查看旧版本地存储中的条目",
	Long: heredoc.Doc(`
		列出旧版本地存储中尚未迁移的条目。
		这些条目在下一次加载设置时合并进扩展设置并被删除。
	`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLegacyDB(cmd, func(ctx context.Context, q *db.Queries) error {
			items, err := q.ListItems(ctx)
			if err != nil {
				return fmt.Errorf("读取本地存储失败: %w", err)
			}
			for _, item := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n",
					ansiext.Escape(item.Key), ansiext.Escape(item.Value), humanize.Time(time.Unix(item.UpdatedAt, 0)))
			}
			return nil
		})
	},
}

var legacySetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "写入一条旧版本地存储条目",
	Example: `
# 写入旧版的角色图片选择，下次运行时迁移
lightstyler legacy set lightstyler_character_images '{"Alice":"/img/a.png"}'
  `,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLegacyDB(cmd, func(ctx context.Context, q *db.Queries) error {
			return q.SetItem(ctx, db.SetItemParams{Key: args[0], Value: args[1]})
		})
	},
}

var legacyRemoveCmd = &cobra.Command{
	Use:     "rm <key>",
	Aliases: []string{"remove"},
	Short:   "删除一条旧版本地存储条目",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLegacyDB(cmd, func(ctx context.Context, q *db.Queries) error {
			return q.RemoveItem(ctx, args[0])
		})
	},
}

func init() {
	legacyCmd.AddCommand(legacySetCmd, legacyRemoveCmd)
}

// withLegacyDB 只打开数据库，不加载设置，因此不会触发迁移。
func withLegacyDB(cmd *cobra.Command, fn func(context.Context, *db.Queries) error) error {
	debug, _ := cmd.Flags().GetBool("debug")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	cwd, err := ResolveCwd(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cwd, dataDir, debug)
	if err != nil {
		return err
	}
	if err := createDataDir(cfg.Options.DataDirectory); err != nil {
		return err
	}

	conn, err := db.Connect(cmd.Context(), cfg.Options.DataDirectory)
	if err != nil {
		return err
	}
	defer func(conn *sql.DB) { _ = conn.Close() }(conn)

	return fn(cmd.Context(), db.New(conn))
}
