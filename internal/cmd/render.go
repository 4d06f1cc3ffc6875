package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/x/term"
	"github.com/pkg/browser"
	"github.com/purpose168/lightstyler/internal/app"
	"github.com/purpose168/lightstyler/internal/dom"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "解析聊天页面中消息的头像并写入主题样式",
	Long: heredoc.Doc(`
		读取聊天页面 HTML，为每条消息写入作者标识和头像样式变量，
		应用角色备选头像，并把主题样式表写入页面。
		没有提供文件时从标准输入读取。
	`),
	Example: `
# 处理页面并输出到标准输出
lightstyler render chat.html

# 追加新消息后切换到第一个角色的聊天
lightstyler render chat.html --append new.html --chat 0 -o out.html

# 从管道读取
cat chat.html | lightstyler render
  `,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		open, _ := cmd.Flags().GetBool("open")
		fragments, _ := cmd.Flags().GetStringArray("append")
		chat, _ := cmd.Flags().GetInt("chat")

		var input string
		if len(args) > 0 {
			input = args[0]
		}
		raw, err := readInput(input)
		if err != nil {
			return fmt.Errorf("读取页面失败: %w", err)
		}
		doc, err := dom.Parse(bytes.NewReader(raw))
		if err != nil {
			return fmt.Errorf("解析页面失败: %w", err)
		}

		app, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer app.Shutdown()

		var html string
		err = withProgressBar(func() error {
			if err := renderDocument(cmd.Context(), app, doc, fragments, chat); err != nil {
				return err
			}
			html, err = doc.HTML()
			return err
		})
		if err != nil {
			return err
		}

		if output == "" || output == "-" {
			return writeHTML(cmd.OutOrStdout(), html)
		}
		if err := os.WriteFile(output, []byte(html), 0o644); err != nil {
			return err
		}
		if open {
			return browser.OpenFile(output)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringP("output", "o", "", "输出文件，默认写到标准输出")
	renderCmd.Flags().StringArrayP("append", "a", nil, "初始协调后追加的消息片段文件，可重复")
	renderCmd.Flags().Int("chat", -1, "最后切换到名册中第 N 个角色的聊天")
	renderCmd.Flags().Bool("open", false, "写入文件后用浏览器打开")
}

// writeHTML 输出到终端时高亮显示。
func writeHTML(w io.Writer, html string) error {
	if f, ok := w.(*os.File); ok && term.IsTerminal(f.Fd()) {
		if err := quick.Highlight(w, html, "html", "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err := io.WriteString(w, html)
	return err
}

// renderDocument 在一次会话中处理页面、追加片段并切换聊天。
func renderDocument(ctx context.Context, app *app.App, doc *dom.Document, fragments []string, chat int) error {
	s := app.OpenSession(ctx, doc)
	defer s.Close()

	initial := s.Initial()
	slog.Info("页面初始协调完成", "messages", initial.Messages, "written", initial.Written, "failed", initial.Failed)

	for _, name := range fragments {
		fragment, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("读取消息片段失败: %w", err)
		}
		n, err := s.Append(ctx, string(fragment))
		if err != nil {
			return fmt.Errorf("追加消息片段 %s 失败: %w", name, err)
		}
		slog.Debug("已追加消息", "file", name, "messages", n)
	}

	if chat >= 0 {
		return s.SwitchChat(chat)
	}
	return nil
}
