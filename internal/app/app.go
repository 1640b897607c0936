package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/moyu-x/declutter/config"
	"github.com/moyu-x/declutter/internal"
	"github.com/moyu-x/declutter/pkg/agefilter"
	"github.com/moyu-x/declutter/pkg/classifier"
	"github.com/moyu-x/declutter/pkg/deduplicator"
	"github.com/moyu-x/declutter/pkg/fsops"
	"github.com/moyu-x/declutter/pkg/hasher"
	"github.com/moyu-x/declutter/pkg/logger"
	"github.com/moyu-x/declutter/pkg/reaper"
	"github.com/moyu-x/declutter/pkg/scanner"
	"github.com/moyu-x/declutter/pkg/trash"
)

// ErrNoPhases 选择的阶段为空
var ErrNoPhases = errors.New("no phases selected")

// Options 一次清理运行的参数
type Options struct {
	Root         string
	DryRun       bool
	Organize     bool
	DaysOld      int
	TopLevelOnly bool

	LogFile  string
	LogLevel string
	TrashDir string // 为空时使用系统回收站

	Conflict      classifier.Conflict
	DetectType    bool
	HashAlgorithm hasher.Algorithm
	Exclude       []string

	// Phases 只运行指定的阶段，为空时运行全部阶段；执行顺序始终是固定顺序
	Phases []internal.Phase
	// OnPhase 每个阶段开始前调用
	OnPhase func(internal.Phase)

	Fs      afero.Fs  // 默认 afero.NewOsFs()
	Console io.Writer // 默认 os.Stdout
	NoColor bool
	Now     func() time.Time
}

// phaseMessages 阶段开始时输出的提示
var phaseMessages = map[internal.Phase]string{
	internal.PhaseReapEmptyFolders: "Removing empty folders...",
	internal.PhaseDeleteOldFiles:   "Deleting old files...",
	internal.PhaseRemoveDuplicates: "Removing duplicate files...",
	internal.PhaseOrganizeByType:   "Organizing files by type (top-level only)...",
}

// Run 按固定顺序执行所有清理阶段并返回统计
// 根目录无效时在任何阶段开始之前返回错误；单个条目的失败只记录日志，不会中断运行
func Run(ctx context.Context, opts *Options) (*internal.Summary, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	if err := config.ValidateRoot(fs, root); err != nil {
		return nil, err
	}
	if opts.DaysOld < 0 {
		return nil, fmt.Errorf("%w (got %d)", config.ErrNegativeDays, opts.DaysOld)
	}

	phases := selectPhases(opts)
	if len(phases) == 0 {
		return nil, ErrNoPhases
	}

	logFile, err := config.AbsPath(opts.LogFile)
	if err != nil {
		return nil, fmt.Errorf("resolve log file: %w", err)
	}
	sink, err := logger.Init(logger.Options{
		Level:   opts.LogLevel,
		File:    logFile,
		Console: opts.Console,
		NoColor: opts.NoColor,
	})
	if err != nil {
		return nil, fmt.Errorf("init log: %w", err)
	}
	defer sink.Close()
	log := sink.Logger

	r, err := newRunner(fs, root, logFile, opts, log, now)
	if err != nil {
		return nil, err
	}

	summary := &internal.Summary{
		Root:      root,
		DryRun:    opts.DryRun,
		StartTime: now(),
	}

	log.Info().Msgf("Scanning directory: %s", root)
	log.Info().Msgf("DRY_RUN mode: %s", onOff(opts.DryRun))
	log.Debug().Msgf("Found %d files under %s", r.walker.CountFiles(), root)

	for _, phase := range phases {
		if err := ctx.Err(); err != nil {
			summary.EndTime = now()
			log.Warn().Err(err).Msgf("Run cancelled before %s", phase)
			return summary, err
		}

		if opts.OnPhase != nil {
			opts.OnPhase(phase)
		}
		log.Info().Str(logger.FieldPhase, string(phase)).Msg(phaseMessages[phase])

		result := r.run(phase)
		summary.Merge(result)

		log.Debug().
			Str(logger.FieldPhase, string(phase)).
			Msgf("Phase %s finished: %d done, %d failed", phase, len(result.Done), len(result.Failed))
	}

	summary.EndTime = now()
	r.finish()

	log.Info().Msg("Cleanup complete.")
	log.Info().Msgf("Empty folders removed: %d", summary.EmptyFoldersRemoved)
	log.Info().Msgf("Old files deleted: %d", summary.OldFilesDeleted)
	log.Info().Msgf("Duplicate files removed: %d", summary.DuplicatesRemoved)
	log.Info().Msgf("Files organized: %d", summary.FilesMoved)
	if summary.Failures > 0 {
		log.Warn().Msgf("Failures: %d", summary.Failures)
	}

	return summary, nil
}

// selectPhases 按固定顺序返回需要运行的阶段
func selectPhases(opts *Options) []internal.Phase {
	var phases []internal.Phase
	for _, p := range internal.PhaseOrder {
		if p == internal.PhaseOrganizeByType && !opts.Organize {
			continue
		}
		if len(opts.Phases) > 0 && !slices.Contains(opts.Phases, p) {
			continue
		}
		phases = append(phases, p)
	}
	return phases
}

// runner 持有一次运行中各阶段共享的协作者
type runner struct {
	walker  *scanner.Walker
	mutator fsops.Mutator
	log     zerolog.Logger
	opts    *Options
	now     func() time.Time
}

func newRunner(fs afero.Fs, root, logFile string, opts *Options, log zerolog.Logger, now func() time.Time) (*runner, error) {
	trashDir := opts.TrashDir
	if trashDir == "" {
		var err error
		if trashDir, err = trash.DefaultRoot(); err != nil {
			return nil, err
		}
	}
	trashDir, err := filepath.Abs(trashDir)
	if err != nil {
		return nil, fmt.Errorf("resolve trash dir: %w", err)
	}

	var mutator fsops.Mutator
	if opts.DryRun {
		// 预览模式下所有读取都经过只读文件系统
		fs = afero.NewReadOnlyFs(fs)
		mutator = fsops.NewDryRun(fs)
	} else {
		mutator = fsops.NewLive(fs, newTrasher(fs, opts.TrashDir, trashDir))
	}

	walker, err := scanner.New(fs, root, scanner.Options{
		Exclude:   opts.Exclude,
		Protected: []string{logFile},
		SkipDirs:  []string{trashDir},
		Hidden:    mutator.Gone,
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Msgf("Trash: %s, log: %s, exclude: %v", trashDir, logFile, opts.Exclude)

	return &runner{walker: walker, mutator: mutator, log: log, opts: opts, now: now}, nil
}

// newTrasher 未指定回收站目录且操作真实文件系统时使用系统回收站
// 其余情况使用 trashDir 下的 freedesktop 回收站
func newTrasher(fs afero.Fs, configured, trashDir string) fsops.Trasher {
	if _, ok := fs.(*afero.OsFs); ok && configured == "" {
		return trash.NewSystem()
	}
	return trash.New(fs, trashDir)
}

func (r *runner) run(phase internal.Phase) internal.PhaseResult {
	switch phase {
	case internal.PhaseReapEmptyFolders:
		return reaper.New(r.walker, r.mutator, r.log).Run()
	case internal.PhaseDeleteOldFiles:
		return agefilter.New(r.walker, r.mutator, r.log, r.opts.DaysOld).WithClock(r.now).Run()
	case internal.PhaseRemoveDuplicates:
		h := hasher.New(r.walker.Fs(), r.opts.HashAlgorithm)
		return deduplicator.NewDeduplicator(r.walker, h, r.mutator, r.log, r.opts.TopLevelOnly).Run()
	case internal.PhaseOrganizeByType:
		return classifier.NewClassifier(r.walker, r.mutator, r.log, classifier.Options{
			Conflict:   r.opts.Conflict,
			DetectType: r.opts.DetectType,
		}).Run()
	}
	return internal.PhaseResult{Phase: phase}
}

// finish 预览模式下输出记录的全部计划操作
func (r *runner) finish() {
	if !r.mutator.DryRun() {
		return
	}
	dry, ok := r.mutator.(*fsops.DryRunMutator)
	if !ok {
		return
	}
	for _, o := range dry.Planned() {
		r.log.Debug().Str(logger.FieldPath, o.Path).Msgf("Planned %s: %s", o.Action, o.Path)
	}
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
