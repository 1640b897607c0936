package reaper

import (
	"github.com/rs/zerolog"

	"github.com/moyu-x/declutter/internal"
	"github.com/moyu-x/declutter/pkg/fsops"
	"github.com/moyu-x/declutter/pkg/logger"
	"github.com/moyu-x/declutter/pkg/scanner"
)

// Reaper 删除空目录
// 按后序遍历处理，子目录处理完之后再重新读取父目录，嵌套的空目录链一次就能全部删除
type Reaper struct {
	walker  *scanner.Walker
	mutator fsops.Mutator
	log     zerolog.Logger
}

// New 创建空目录清理器
func New(walker *scanner.Walker, mutator fsops.Mutator, log zerolog.Logger) *Reaper {
	return &Reaper{walker: walker, mutator: mutator, log: log}
}

// Run 删除根目录下的所有空目录，根目录本身永远不会被删除
func (r *Reaper) Run() internal.PhaseResult {
	result := internal.PhaseResult{Phase: internal.PhaseReapEmptyFolders}
	r.visit(r.walker.Root(), &result)
	return result
}

func (r *Reaper) visit(dir string, result *internal.PhaseResult) {
	subdirs, err := r.walker.Subdirs(dir)
	if err != nil {
		r.log.Error().Err(err).Str(logger.FieldPath, dir).Msgf("Error reading directory %s: %v", dir, err)
		return
	}
	for _, sub := range subdirs {
		r.visit(sub, result)
	}

	if dir == r.walker.Root() {
		return
	}

	entries, err := r.walker.Entries(dir)
	if err != nil {
		r.log.Error().Err(err).Str(logger.FieldPath, dir).Msgf("Error reading directory %s: %v", dir, err)
		return
	}
	if len(entries) > 0 {
		return
	}

	outcome := internal.Outcome{Path: dir, Action: internal.ActionRemoveDir}
	if err := r.mutator.RemoveDir(dir); err != nil {
		outcome.Err = err
		r.log.Error().Err(err).Str(logger.FieldPath, dir).Msgf("Failed to remove folder %s: %v", dir, err)
	} else {
		r.log.Info().Str(logger.FieldPath, dir).Msgf("Removed empty folder: %s", dir)
	}
	result.Record(outcome)
}
