package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/moyu-x/declutter/internal"
)

// RenderSummary 渲染一次运行的统计，命令行和界面共用
func RenderSummary(s *internal.Summary, logFile string) string {
	var b strings.Builder

	title := labelStyle.Render("📊 Summary")
	if s.DryRun {
		title += " " + dryRunStyle.Render("(dry run)")
	}
	b.WriteString(title + "\n\n")

	b.WriteString(fmt.Sprintf("  Empty folders removed:   %d\n", s.EmptyFoldersRemoved))
	b.WriteString(fmt.Sprintf("  Old files deleted:       %d\n", s.OldFilesDeleted))
	b.WriteString(fmt.Sprintf("  Duplicate files removed: %d\n", s.DuplicatesRemoved))
	b.WriteString(fmt.Sprintf("  Files organized:         %d\n", s.FilesMoved))
	if s.Failures > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  Failures:                %d", s.Failures)) + "\n")
	}
	b.WriteString(fmt.Sprintf("  Elapsed:                 %s\n", s.Duration().Round(time.Millisecond)))

	if s.Root != "" {
		b.WriteString("\n  Directory: " + filePathStyle.Render(s.Root) + "\n")
	}
	if logFile != "" {
		b.WriteString("  Log file:  " + filePathStyle.Render(logFile) + "\n")
	}
	if s.DryRun {
		b.WriteString("\n" + dryRunStyle.Render("Nothing was changed. Run again with --dry-run=false to apply."))
	}

	return summaryBoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
