package tui

import "github.com/charmbracelet/lipgloss"

// 配色：绿色表示焦点和完成，琥珀色表示预览模式，红色表示失败
const (
	colorAccent = lipgloss.Color("42")
	colorLabel  = lipgloss.Color("79")
	colorText   = lipgloss.Color("252")
	colorMuted  = lipgloss.Color("244")
	colorPath   = lipgloss.Color("110")
	colorDryRun = lipgloss.Color("214")
	colorError  = lipgloss.Color("203")

	progressFrom = "#2E8B57"
	progressTo   = "#9BE7B0"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			MarginBottom(1)

	separatorStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorLabel).
			Bold(true)

	// accentStyle 当前焦点的提示符和按钮
	accentStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	textStyle = lipgloss.NewStyle().
			Foreground(colorText)

	focusedBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	blurredBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.HiddenBorder()).
			Padding(0, 1)

	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorLabel).
			Padding(1, 2)

	dryRunStyle = lipgloss.NewStyle().
			Foreground(colorDryRun).
			Bold(true)

	filePathStyle = lipgloss.NewStyle().
			Foreground(colorPath)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Faint(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)
)
