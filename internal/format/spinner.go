// Package format 提供命令行输出的辅助组件。
package format

import (
	"context"
	"errors"
	"fmt"
	"os"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/charmtone"
)

// Spinner 在标准错误上显示等待动画，用于等待宿主响应的命令。
type Spinner struct {
	done chan struct{}
	prog *tea.Program
}

type model struct {
	cancel  context.CancelFunc
	spinner spinner.Model
	label   string
}

func (m model) Init() tea.Cmd { return m.spinner.Tick }

func (m model) View() tea.View {
	return tea.NewView(m.spinner.View() + " " + m.label)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// NewSpinner 创建等待动画。按下 ctrl+c 或 esc 时调用 cancel。
func NewSpinner(ctx context.Context, cancel context.CancelFunc, label string) *Spinner {
	m := model{
		cancel: cancel,
		label:  label,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(charmtone.Zest)),
		),
	}

	p := tea.NewProgram(m, tea.WithOutput(os.Stderr), tea.WithContext(ctx))

	return &Spinner{
		prog: p,
		done: make(chan struct{}, 1),
	}
}

func (s *Spinner) Start() {
	go func() {
		defer close(s.done)
		_, err := s.prog.Run()
		fmt.Fprint(os.Stderr, ansi.EraseEntireLine)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, tea.ErrInterrupted) {
			fmt.Fprintf(os.Stderr, "运行等待动画时出错: %v\n", err)
		}
	}()
}

// Stop 停止动画并等待它清除当前行。
func (s *Spinner) Stop() {
	s.prog.Quit()
	<-s.done
}
