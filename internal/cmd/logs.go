package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"charm.land/log/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/term"
	"github.com/nxadm/tail"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

const defaultTailLines = 1000

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "查看 lightstyler 日志",
	Long: `按级别筛选并美化显示 lightstyler 写入的 JSON 日志。
使用 --follow 持续输出新条目，使用 --match 只看消息中包含指定文本的条目。`,
	Example: `
# 最近 200 条警告及以上
lightstyler logs -t 200 -l warn

# 跟踪设置保存相关的日志
lightstyler logs -f --match 设置
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := logsOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		cwd, _ := cmd.Flags().GetString("cwd")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		cfg, err := loadConfig(cwd, dataDir, false)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		out := cmd.OutOrStdout()
		p := newLogPrinter(out, opts)
		if f, ok := out.(*os.File); !ok || !term.IsTerminal(f.Fd()) {
			p.logger.SetColorProfile(colorprofile.NoTTY)
		}

		path := cfg.LogFile()
		lines, err := lastLines(path, opts.tail)
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(cmd.ErrOrStderr(), "未找到日志，lightstyler 可能尚未在此目录运行过。")
			return nil
		}
		if err != nil {
			return err
		}
		shown := p.printAll(lines)
		if len(lines) == opts.tail {
			fmt.Fprintf(cmd.ErrOrStderr(), "\n读取了最后 %d 行，显示 %d 条。完整日志位于: %s\n", opts.tail, shown, path)
		}
		if !opts.follow {
			return nil
		}
		return followLines(cmd.Context(), path, p.print)
	},
}

func init() {
	logsCmd.Flags().BoolP("follow", "f", false, "跟踪日志输出")
	logsCmd.Flags().IntP("tail", "t", defaultTailLines, "只读取最后 N 行")
	logsCmd.Flags().StringP("level", "l", "debug", "只显示不低于该级别的日志：debug、info、warn、error")
	logsCmd.Flags().String("match", "", "只显示消息包含该文本的日志")
}

type logsOptions struct {
	follow bool
	tail   int
	level  log.Level
	match  string
}

func logsOptionsFromFlags(cmd *cobra.Command) (logsOptions, error) {
	var opts logsOptions
	opts.follow, _ = cmd.Flags().GetBool("follow")
	opts.tail, _ = cmd.Flags().GetInt("tail")
	opts.match, _ = cmd.Flags().GetString("match")
	if opts.tail <= 0 {
		return opts, fmt.Errorf("--tail 必须为正数，得到 %d", opts.tail)
	}
	name, _ := cmd.Flags().GetString("level")
	level, err := log.ParseLevel(name)
	if err != nil {
		return opts, fmt.Errorf("无效的日志级别 %q: %w", name, err)
	}
	opts.level = level
	return opts, nil
}

// logEntry 是一行 slog JSON 日志。
type logEntry struct {
	time  time.Time
	level log.Level
	msg   string
	attrs []any
}

// parseLogLine 解析一行日志，不是 JSON 对象的行返回 false。
func parseLogLine(line string) (logEntry, bool) {
	doc := gjson.Parse(line)
	if !doc.IsObject() {
		return logEntry{}, false
	}
	e := logEntry{
		level: slogLevel(doc.Get("level").String()),
		msg:   doc.Get("msg").String(),
	}
	if t, err := time.Parse(time.RFC3339Nano, doc.Get("time").String()); err == nil {
		e.time = t
	}

	var keys []string
	fields := map[string]gjson.Result{}
	doc.ForEach(func(k, v gjson.Result) bool {
		switch k.Str {
		case "time", "level", "msg":
		default:
			keys = append(keys, k.Str)
			fields[k.Str] = v
		}
		return true
	})
	slices.Sort(keys)
	for _, k := range keys {
		v := fields[k]
		if k == "source" && v.IsObject() {
			e.attrs = append(e.attrs, k, fmt.Sprintf("%s:%d", v.Get("file").Str, v.Get("line").Int()))
			continue
		}
		e.attrs = append(e.attrs, k, v.Value())
	}
	return e, true
}

// slogLevel 把 slog 的级别名（包括 "WARN+2" 这类偏移写法）映射到显示级别。
func slogLevel(name string) log.Level {
	base, _, _ := strings.Cut(name, "+")
	base, _, _ = strings.Cut(base, "-")
	level, err := log.ParseLevel(strings.ToLower(base))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

type logPrinter struct {
	logger *log.Logger
	opts   logsOptions
	at     time.Time
}

func newLogPrinter(w io.Writer, opts logsOptions) *logPrinter {
	p := &logPrinter{opts: opts}
	p.logger = log.NewWithOptions(w, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		TimeFunction: func(time.Time) time.Time {
			if p.at.IsZero() {
				return time.Now()
			}
			return p.at
		},
	})
	return p
}

// print 输出一行日志，被筛掉或无法解析时返回 false。
func (p *logPrinter) print(line string) bool {
	e, ok := parseLogLine(line)
	if !ok || e.level < p.opts.level {
		return false
	}
	if p.opts.match != "" && !strings.Contains(e.msg, p.opts.match) {
		return false
	}
	p.at = e.time
	p.logger.Log(e.level, e.msg, e.attrs...)
	return true
}

func (p *logPrinter) printAll(lines []string) int {
	n := 0
	for _, line := range lines {
		if p.print(line) {
			n++
		}
	}
	return n
}

// lastLines 读取文件末尾最多 n 行。
func lastLines(path string, n int) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	t, err := tail.TailFile(path, tail.Config{Logger: tail.DiscardingLogger})
	if err != nil {
		return nil, fmt.Errorf("无法读取日志文件: %w", err)
	}
	defer t.Stop()

	ring := make([]string, n)
	count := 0
	for line := range t.Lines {
		if line.Err != nil {
			continue
		}
		ring[count%n] = line.Text
		count++
	}
	if count <= n {
		return ring[:count], nil
	}
	start := count % n
	return append(ring[start:], ring[:start]...), nil
}

// followLines 从文件末尾开始跟踪新行，直到 ctx 结束。
func followLines(ctx context.Context, path string, fn func(string) bool) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Logger:   tail.DiscardingLogger,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
	})
	if err != nil {
		return fmt.Errorf("无法跟踪日志文件: %w", err)
	}
	defer t.Stop()

	for {
		select {
		case line, ok := <-t.Lines:
			if !ok {
				return nil
			}
			if line.Err == nil {
				fn(line.Text)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
