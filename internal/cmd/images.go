package cmd

import (
	"context"
	"fmt"
	"os"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/x/term"
	"github.com/purpose168/lightstyler/internal/ansiext"
	"github.com/purpose168/lightstyler/internal/gallery"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

var imagesCmd = &cobra.Command{
	Use:   "images <character> [pattern]",
	Short: "列出角色目录中的图片",
	Long: heredoc.Doc(`
		列出角色目录中的图片，按修改时间从新到旧排列。
		提供 pattern 时只列出文件名模糊匹配的图片，按匹配程度排列。
	`),
	Example: `
# 列出 Alice 的图片
lightstyler images Alice

# 查找名字像 smile 的图片
lightstyler images Alice smil
  `,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		var images []gallery.Image
		_ = waitWith(cmd, "正在获取图片列表", func(ctx context.Context) error {
			images = app.Gallery.ListImages(ctx, args[0])
			return nil
		})
		if len(args) > 1 {
			images = filterImages(images, args[1])
		}
		if len(images) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s 没有图片\n", ansiext.Escape(args[0]))
			return nil
		}

		if term.IsTerminal(os.Stdout.Fd()) {
			current, _ := app.Selections.Get(args[0])
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				StyleFunc(func(row, col int) lipgloss.Style {
					return lipgloss.NewStyle().Padding(0, 2)
				}).
				Headers("名称", "文件", "地址")
			for _, img := range images {
				name := ansiext.Escape(img.DisplayName)
				if img.URL == current {
					name = "● " + name
				}
				t.Row(name, ansiext.Escape(img.Filename), ansiext.Escape(img.URL))
			}
			lipgloss.Println(t)
			return nil
		}
		for _, img := range images {
			fmt.Fprintln(cmd.OutOrStdout(), ansiext.Escape(img.Filename))
		}
		return nil
	},
}

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "列出宿主上的角色图片目录",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		var folders []string
		_ = waitWith(cmd, "正在获取图片目录", func(ctx context.Context) error {
			folders = app.Gallery.ListFolders(ctx)
			return nil
		})
		for _, name := range folders {
			fmt.Fprintln(cmd.OutOrStdout(), ansiext.Escape(name))
		}
		return nil
	},
}

// filterImages 按文件名模糊匹配 pattern，结果按匹配程度排序。
func filterImages(images []gallery.Image, pattern string) []gallery.Image {
	names := make([]string, len(images))
	for i, img := range images {
		names[i] = img.Filename
	}
	matches := fuzzy.Find(pattern, names)
	out := make([]gallery.Image, 0, len(matches))
	for _, m := range matches {
		out = append(out, images[m.Index])
	}
	return out
}
