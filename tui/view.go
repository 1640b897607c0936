package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/moyu-x/declutter/internal"
)

var phaseLabels = map[internal.Phase]string{
	internal.PhaseReapEmptyFolders: "Removing empty folders",
	internal.PhaseDeleteOldFiles:   "Deleting old files",
	internal.PhaseRemoveDuplicates: "Removing duplicate files",
	internal.PhaseOrganizeByType:   "Organizing files by type",
}

func (m *model) View() string {
	switch m.state {
	case StateConfig:
		return m.configView()
	case StateRunning:
		return m.runningView()
	case StateComplete:
		return m.completeView()
	default:
		return "unknown state"
	}
}

func (m *model) configView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🧹 Declutter") + "\n\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n\n")

	b.WriteString(labelStyle.Render("1. Directory to clean:") + "\n")
	b.WriteString(m.box(FocusRoot, m.rootInput.View()) + "\n\n")

	b.WriteString(labelStyle.Render("2. Days before a file counts as old:") + "\n")
	b.WriteString(m.box(FocusDays, m.daysInput.View()) + "\n\n")

	b.WriteString(labelStyle.Render("3. Options:") + "\n")
	b.WriteString(m.box(FocusOptions, m.optionList.View()) + "\n\n")

	start := "[ Start ]"
	if m.enabled(optDryRun) {
		start = "[ Start dry run ]"
	}
	if m.focus == FocusStart {
		b.WriteString(accentStyle.Render(start) + "\n\n")
	} else {
		b.WriteString(buttonStyle.Render(start) + "\n\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n")
	b.WriteString(hintStyle.Render("Keys:") + "\n")
	b.WriteString("  • Tab / Shift+Tab to move focus\n")
	b.WriteString("  • Enter to toggle an option or start\n")
	b.WriteString("  • Ctrl+C to quit\n")

	return lipgloss.NewStyle().
		Padding(1).
		Render(b.String())
}

func (m *model) box(f Focus, content string) string {
	if m.focus == f {
		return focusedBoxStyle.Render(content)
	}
	return blurredBoxStyle.Render(content)
}

func (m *model) runningView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🔄 Cleaning up...") + "\n\n")

	label := "Starting"
	if m.current != "" {
		label = phaseLabels[m.current]
	}
	b.WriteString(m.spinner.View() + " " + textStyle.Render(label) + "\n\n")

	b.WriteString(labelStyle.Render(fmt.Sprintf("Phase %d of %d:", min(m.completed+1, m.total), m.total)) + "\n")
	b.WriteString(m.progressBar.View() + "\n\n")

	b.WriteString(labelStyle.Render("Directory:") + "\n")
	b.WriteString(filePathStyle.Render(strings.TrimSpace(m.rootInput.Value())) + "\n")

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) completeView() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString(errorStyle.Render("❌ Cleanup failed: "+m.err.Error()) + "\n\n")
	} else {
		b.WriteString(titleStyle.Render("✅ Cleanup complete!") + "\n\n")
	}

	if m.summary != nil {
		b.WriteString(RenderSummary(m.summary, m.logFile) + "\n\n")
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n")
	b.WriteString(hintStyle.Render("Enter to start over, q or Ctrl+C to quit") + "\n")

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}
