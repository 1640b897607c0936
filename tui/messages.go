package tui

import (
	"github.com/moyu-x/declutter/internal"
)

// phaseMsg 某个阶段开始执行
type phaseMsg struct {
	phase internal.Phase
}

// runCompleteMsg 清理运行结束
type runCompleteMsg struct {
	summary *internal.Summary
	err     error
}
