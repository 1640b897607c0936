package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/declutter/internal/app"
	"github.com/moyu-x/declutter/pkg/logger"
)

type teaModel struct {
	m *model
}

func (tm teaModel) Init() tea.Cmd {
	return tm.m.Init()
}

func (tm teaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := tm.m.Update(msg)
	return tm, cmd
}

func (tm teaModel) View() string {
	return tm.m.View()
}

// Run 启动交互界面，base 为表单的初始值
func Run(ctx context.Context, base *app.Options) error {
	logger.Get().Info().Msg("Starting TUI")

	m := initialModel(ctx, base)
	p := tea.NewProgram(teaModel{m: &m}, tea.WithAltScreen(), tea.WithContext(ctx))
	m.send = p.Send

	_, err := p.Run()
	if err != nil {
		logger.Get().Error().Err(err).Msg("TUI exited with an error")
	}
	return err
}
