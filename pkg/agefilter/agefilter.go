package agefilter

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/moyu-x/declutter/internal"
	"github.com/moyu-x/declutter/pkg/fsops"
	"github.com/moyu-x/declutter/pkg/logger"
	"github.com/moyu-x/declutter/pkg/scanner"
)

const day = 24 * time.Hour

// IsOld 文件的最后修改时间是否早于当前时间至少 days 天
func IsOld(fs afero.Fs, path string, days int, now time.Time) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return olderThan(info.ModTime(), days, now), nil
}

func olderThan(modTime time.Time, days int, now time.Time) bool {
	age := now.Sub(modTime).Seconds() / day.Seconds()
	return age >= float64(days)
}

// Filter 删除旧文件的阶段
type Filter struct {
	walker  *scanner.Walker
	mutator fsops.Mutator
	log     zerolog.Logger
	days    int
	now     func() time.Time
}

// New 创建旧文件过滤器
func New(walker *scanner.Walker, mutator fsops.Mutator, log zerolog.Logger, days int) *Filter {
	return &Filter{
		walker:  walker,
		mutator: mutator,
		log:     log,
		days:    days,
		now:     time.Now,
	}
}

// WithClock 替换时间来源
func (f *Filter) WithClock(now func() time.Time) *Filter {
	f.now = now
	return f
}

// Run 将根目录下所有旧文件移入回收站
func (f *Filter) Run() internal.PhaseResult {
	result := internal.PhaseResult{Phase: internal.PhaseDeleteOldFiles}
	now := f.now()

	f.walker.WalkFiles(func(e scanner.Entry) {
		if outcome, acted := f.process(e.Path, now); acted {
			result.Record(outcome)
		}
	}, func(path string, err error) {
		f.log.Error().Err(err).Str(logger.FieldPath, path).Msgf("Error reading directory %s: %v", path, err)
	})

	return result
}

// process 处理单个文件，文件不旧时返回 false
func (f *Filter) process(path string, now time.Time) (internal.Outcome, bool) {
	outcome := internal.Outcome{Path: path, Action: internal.ActionTrash}

	old, err := IsOld(f.walker.Fs(), path, f.days, now)
	if err == nil && !old {
		return outcome, false
	}
	if err == nil {
		err = f.mutator.Trash(path)
	}
	if err != nil {
		outcome.Err = err
		f.log.Error().Err(err).Str(logger.FieldPath, path).Msgf("Error deleting file %s: %v", path, err)
		return outcome, true
	}

	f.log.Info().Str(logger.FieldPath, path).Msgf("Deleted old file: %s", path)
	return outcome, true
}
