package tui

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/declutter/config"
	"github.com/moyu-x/declutter/internal"
	"github.com/moyu-x/declutter/internal/app"
	"github.com/moyu-x/declutter/pkg/logger"
)

var errRootRequired = errors.New("a directory is required")

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.state {
		case StateConfig:
			return m.updateConfigPhase(msg)
		case StateComplete:
			return m.updateCompletePhase(msg)
		}

	case tea.WindowSizeMsg:
		m.handleResize(msg)

	case phaseMsg:
		if m.current != "" {
			m.completed++
		}
		m.current = msg.phase
		return m, m.progressBar.SetPercent(m.percent())

	case runCompleteMsg:
		m.state = StateComplete
		m.summary = msg.summary
		m.err = msg.err
		if m.current != "" {
			m.completed++
		}
		m.logFinalStats()
		return m, m.progressBar.SetPercent(1)

	case spinner.TickMsg:
		if m.state == StateRunning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		model, cmd := m.progressBar.Update(msg)
		m.progressBar = model.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m *model) updateConfigPhase(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		if msg.String() == "tab" || m.focus != FocusOptions {
			m.nextFocus()
			m.updateFocusState()
			return m, nil
		}
	case "shift+tab":
		m.prevFocus()
		m.updateFocusState()
		return m, nil
	case "enter":
		return m.handleEnterKey()
	}

	var cmd tea.Cmd
	switch m.focus {
	case FocusRoot:
		m.rootInput, cmd = m.rootInput.Update(msg)
	case FocusDays:
		m.daysInput, cmd = m.daysInput.Update(msg)
	case FocusOptions:
		m.optionList, cmd = m.optionList.Update(msg)
	}
	return m, cmd
}

func (m *model) updateCompletePhase(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "enter":
		m.state = StateConfig
		m.focus = FocusRoot
		m.summary = nil
		m.err = nil
		m.updateFocusState()
	}
	return m, nil
}

func (m *model) nextFocus() {
	switch m.focus {
	case FocusRoot:
		m.focus = FocusDays
	case FocusDays:
		m.focus = FocusOptions
	case FocusOptions:
		m.focus = FocusStart
	case FocusStart:
		m.focus = FocusRoot
	}
}

func (m *model) prevFocus() {
	switch m.focus {
	case FocusRoot:
		m.focus = FocusStart
	case FocusDays:
		m.focus = FocusRoot
	case FocusOptions:
		m.focus = FocusDays
	case FocusStart:
		m.focus = FocusOptions
	}
}

func (m *model) updateFocusState() {
	if m.focus == FocusRoot {
		m.rootInput.Focus()
	} else {
		m.rootInput.Blur()
	}

	if m.focus == FocusDays {
		m.daysInput.Focus()
	} else {
		m.daysInput.Blur()
	}

	m.optionList.KeyMap.CursorUp.SetEnabled(m.focus == FocusOptions)
	m.optionList.KeyMap.CursorDown.SetEnabled(m.focus == FocusOptions)
}

func (m *model) handleEnterKey() (tea.Model, tea.Cmd) {
	switch m.focus {
	case FocusRoot, FocusDays:
		m.nextFocus()
		m.updateFocusState()
		return m, nil

	case FocusOptions:
		m.toggle(m.optionList.Index())
		return m, nil

	case FocusStart:
		opts, err := m.buildOptions()
		if err != nil {
			m.err = err
			return m, nil
		}
		return m, m.startRun(opts)
	}

	return m, nil
}

// toggle 切换第 i 个开关
func (m *model) toggle(i int) {
	items := m.optionList.Items()
	if i < 0 || i >= len(items) {
		return
	}
	item, ok := items[i].(optionItem)
	if !ok {
		return
	}
	item.enabled = !item.enabled
	m.optionList.SetItem(i, item)
}

// buildOptions 根据表单内容生成运行参数
func (m *model) buildOptions() (*app.Options, error) {
	root := strings.TrimSpace(m.rootInput.Value())
	if root == "" {
		return nil, errRootRequired
	}
	root, err := config.AbsPath(root)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}

	days, err := strconv.Atoi(strings.TrimSpace(m.daysInput.Value()))
	if err != nil || days < 0 {
		return nil, fmt.Errorf("days must be a whole number >= 0, got %q", m.daysInput.Value())
	}

	opts := m.base
	opts.Root = root
	opts.DaysOld = days
	opts.DryRun = m.enabled(optDryRun)
	opts.Organize = m.enabled(optOrganize)
	opts.TopLevelOnly = m.enabled(optTopLevel)
	opts.DetectType = m.enabled(optDetectType)
	// 界面运行期间日志只写入文件
	opts.Console = io.Discard
	opts.Phases = nil
	opts.OnPhase = func(p internal.Phase) {
		if m.send != nil {
			m.send(phaseMsg{phase: p})
		}
	}
	return &opts, nil
}

func (m *model) startRun(opts *app.Options) tea.Cmd {
	m.state = StateRunning
	m.err = nil
	m.summary = nil
	m.current = ""
	m.completed = 0
	m.logFile = opts.LogFile
	m.total = len(internal.PhaseOrder)
	if !opts.Organize {
		m.total--
	}

	logger.Get().Info().Msgf("Starting cleanup of %s", opts.Root)

	run, ctx := m.run, m.ctx
	return tea.Batch(
		m.spinner.Tick,
		m.progressBar.SetPercent(0),
		func() tea.Msg {
			summary, err := run(ctx, opts)
			return runCompleteMsg{summary: summary, err: err}
		},
	)
}

func (m *model) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.completed) / float64(m.total)
}

func (m *model) handleResize(msg tea.WindowSizeMsg) {
	width := msg.Width

	m.rootInput.Width = width - 10
	m.daysInput.Width = 10
	m.optionList.SetWidth(width - 4)
	m.progressBar.Width = width - 10
}

func (m *model) logFinalStats() {
	if m.err != nil {
		logger.Get().Error().Err(m.err).Msgf("Cleanup failed: %v", m.err)
		return
	}
	if m.summary == nil {
		return
	}
	logger.Get().Info().Msgf("Cleanup of %s finished: %d actions, %d failures in %s",
		m.summary.Root, m.summary.Actions(), m.summary.Failures, m.summary.Duration())
}
