package internal

import "time"

// Phase 清理阶段
type Phase string

const (
	PhaseReapEmptyFolders Phase = "reap-empty-folders"
	PhaseDeleteOldFiles   Phase = "delete-old-files"
	PhaseRemoveDuplicates Phase = "remove-duplicates"
	PhaseOrganizeByType   Phase = "organize-by-type"
)

// PhaseOrder 阶段的固定执行顺序
var PhaseOrder = []Phase{
	PhaseReapEmptyFolders,
	PhaseDeleteOldFiles,
	PhaseRemoveDuplicates,
	PhaseOrganizeByType,
}

// Action 对单个条目执行的操作
type Action string

const (
	ActionRemoveDir Action = "remove-dir"
	ActionTrash     Action = "trash"
	ActionMove      Action = "move"
)

// Outcome 单个条目的处理结果
type Outcome struct {
	Path   string
	Target string // 仅移动操作使用
	Action Action
	Err    error
}

// Failed 条目是否处理失败
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// PhaseResult 单个阶段的处理结果
type PhaseResult struct {
	Phase  Phase
	Done   []Outcome
	Failed []Outcome
}

// Record 按成功或失败归档一个结果
func (r *PhaseResult) Record(o Outcome) {
	if o.Failed() {
		r.Failed = append(r.Failed, o)
		return
	}
	r.Done = append(r.Done, o)
}

// Summary 一次运行的统计
type Summary struct {
	Root                string
	DryRun              bool
	EmptyFoldersRemoved int
	OldFilesDeleted     int
	DuplicatesRemoved   int
	FilesMoved          int
	Failures            int
	StartTime           time.Time
	EndTime             time.Time
}

// Merge 将阶段结果合并进统计
func (s *Summary) Merge(r PhaseResult) {
	n := len(r.Done)
	switch r.Phase {
	case PhaseReapEmptyFolders:
		s.EmptyFoldersRemoved += n
	case PhaseDeleteOldFiles:
		s.OldFilesDeleted += n
	case PhaseRemoveDuplicates:
		s.DuplicatesRemoved += n
	case PhaseOrganizeByType:
		s.FilesMoved += n
	}
	s.Failures += len(r.Failed)
}

// Actions 四个计数之和
func (s *Summary) Actions() int {
	return s.EmptyFoldersRemoved + s.OldFilesDeleted + s.DuplicatesRemoved + s.FilesMoved
}

// Duration 运行耗时
func (s *Summary) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}
