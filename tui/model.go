package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moyu-x/declutter/internal"
	"github.com/moyu-x/declutter/internal/app"
)

type State int

const (
	StateConfig State = iota
	StateRunning
	StateComplete
)

type Focus int

const (
	FocusRoot Focus = iota
	FocusDays
	FocusOptions
	FocusStart
)

// 开关选项在列表中的位置
const (
	optDryRun = iota
	optOrganize
	optTopLevel
	optDetectType
)

// runFunc 执行一次清理，测试中可以替换
type runFunc func(ctx context.Context, opts *app.Options) (*internal.Summary, error)

type model struct {
	ctx   context.Context
	state State
	focus Focus
	base  app.Options

	rootInput   textinput.Model
	daysInput   textinput.Model
	optionList  list.Model
	spinner     spinner.Model
	progressBar progress.Model

	total     int
	completed int
	current   internal.Phase
	logFile   string
	summary   *internal.Summary
	err       error

	run  runFunc
	send func(tea.Msg)
}

func initialModel(ctx context.Context, base *app.Options) model {
	rootInput := textinput.New()
	rootInput.Placeholder = "Directory to clean (e.g. ~/Downloads)"
	rootInput.Prompt = "> "
	rootInput.PromptStyle = accentStyle
	rootInput.TextStyle = textStyle
	rootInput.SetValue(base.Root)
	rootInput.Focus()

	daysInput := textinput.New()
	daysInput.Placeholder = "30"
	daysInput.Prompt = "> "
	daysInput.PromptStyle = accentStyle
	daysInput.TextStyle = textStyle
	daysInput.CharLimit = 6
	daysInput.SetValue(strconv.Itoa(base.DaysOld))

	optionList := list.New([]list.Item{
		optionItem{title: "Dry run", desc: "only log what would happen", enabled: base.DryRun},
		optionItem{title: "Organize by type", desc: "move top-level files into folders by extension", enabled: base.Organize},
		optionItem{title: "Top-level duplicates only", desc: "compare files directly inside the root only", enabled: base.TopLevelOnly},
		optionItem{title: "Detect type of extensionless files", desc: "read file headers instead of using OTHERS", enabled: base.DetectType},
	}, list.NewDefaultDelegate(), 0, 12)
	optionList.Title = "Options (Enter toggles)"
	optionList.SetShowStatusBar(false)
	optionList.SetShowHelp(false)
	optionList.SetFilteringEnabled(false)
	optionList.Styles.Title = labelStyle
	optionList.Styles.TitleBar = lipgloss.NewStyle()

	progressBar := progress.New(progress.WithGradient(progressFrom, progressTo))
	progressBar.PercentageStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Width(4)

	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		FPS:    time.Second / 10,
	}
	s.Style = accentStyle

	if ctx == nil {
		ctx = context.Background()
	}

	return model{
		ctx:         ctx,
		state:       StateConfig,
		focus:       FocusRoot,
		base:        *base,
		rootInput:   rootInput,
		daysInput:   daysInput,
		optionList:  optionList,
		spinner:     s,
		progressBar: progressBar,
		run:         app.Run,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// optionItem 列表中的一个开关
type optionItem struct {
	title   string
	desc    string
	enabled bool
}

func (o optionItem) Title() string {
	if o.enabled {
		return "[x] " + o.title
	}
	return "[ ] " + o.title
}
func (o optionItem) Description() string { return o.desc }
func (o optionItem) FilterValue() string { return o.title }

// enabled 返回第 i 个开关的状态
func (m *model) enabled(i int) bool {
	item, ok := m.optionList.Items()[i].(optionItem)
	return ok && item.enabled
}
