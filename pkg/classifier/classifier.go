package classifier

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/rs/zerolog"

	"github.com/moyu-x/declutter/internal"
	"github.com/moyu-x/declutter/pkg/fsops"
	"github.com/moyu-x/declutter/pkg/logger"
	"github.com/moyu-x/declutter/pkg/scanner"
)

// 识别文件类型时读取的文件头长度
const HeaderSize = 8192

// ErrDestinationExists 分类目录中已有同名文件
var ErrDestinationExists = fsops.ErrExists

// Conflict 目标文件已存在时的处理方式
type Conflict string

const (
	// ConflictSkip 跳过并记为失败
	ConflictSkip Conflict = "skip"
	// ConflictRename 使用带 uuid 前缀的新文件名
	ConflictRename Conflict = "rename"
)

// ParseConflict 解析冲突处理方式
func ParseConflict(s string) (Conflict, error) {
	switch c := Conflict(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return ConflictSkip, nil
	case ConflictSkip, ConflictRename:
		return c, nil
	default:
		return "", fmt.Errorf("unknown conflict policy %q (want skip or rename)", s)
	}
}

// Options 分类选项
type Options struct {
	Conflict Conflict
	// DetectType 为无扩展名的文件读取文件头识别类型
	DetectType bool
}

// Classifier 将根目录下的文件按扩展名移动到对应的大写目录中
type Classifier struct {
	walker  *scanner.Walker
	mutator fsops.Mutator
	log     zerolog.Logger
	opts    Options
	newName func(name string) string
}

// NewClassifier 创建分类器
func NewClassifier(walker *scanner.Walker, mutator fsops.Mutator, log zerolog.Logger, opts Options) *Classifier {
	if opts.Conflict == "" {
		opts.Conflict = ConflictSkip
	}
	return &Classifier{
		walker:  walker,
		mutator: mutator,
		log:     log,
		opts:    opts,
		newName: uniqueName,
	}
}

// Run 整理根目录下的文件，子目录中的文件不受影响
func (c *Classifier) Run() internal.PhaseResult {
	result := internal.PhaseResult{Phase: internal.PhaseOrganizeByType}
	root := c.walker.Root()

	files, err := c.walker.Files(root)
	if err != nil {
		c.log.Error().Err(err).Str(logger.FieldPath, root).Msgf("Error reading directory %s: %v", root, err)
		return result
	}

	for _, f := range files {
		if outcome, acted := c.processFile(f.Path); acted {
			result.Record(outcome)
		}
	}
	return result
}

// processFile 移动单个文件，源路径与目标路径相同时返回 false
func (c *Classifier) processFile(path string) (internal.Outcome, bool) {
	name := filepath.Base(path)
	folder := filepath.Join(c.walker.Root(), Folder(c.Category(path)))
	target := filepath.Join(folder, name)
	outcome := internal.Outcome{Path: path, Target: target, Action: internal.ActionMove}

	if target == filepath.Clean(path) {
		return outcome, false
	}

	if err := c.mutator.EnsureDir(folder); err != nil {
		return c.fail(outcome, fmt.Errorf("create folder %s: %w", folder, err)), true
	}

	target, err := c.resolveTarget(folder, name)
	if err != nil {
		return c.fail(outcome, err), true
	}
	outcome.Target = target

	if err := c.mutator.Move(path, target); err != nil {
		return c.fail(outcome, err), true
	}

	c.log.Info().
		Str(logger.FieldPath, path).
		Str(logger.FieldTarget, target).
		Msgf("Moved %s to %s", name, folder)
	return outcome, true
}

// resolveTarget 根据冲突处理方式确定目标路径
func (c *Classifier) resolveTarget(folder, name string) (string, error) {
	target := filepath.Join(folder, name)
	exists, err := c.mutator.Exists(target)
	if err != nil {
		return "", fmt.Errorf("check destination: %w", err)
	}
	if !exists {
		return target, nil
	}
	if c.opts.Conflict != ConflictRename {
		return "", fmt.Errorf("%s: %w", target, ErrDestinationExists)
	}

	for i := 0; i < 10; i++ {
		candidate := filepath.Join(folder, c.newName(name))
		exists, err := c.mutator.Exists(candidate)
		if err != nil {
			return "", fmt.Errorf("check destination: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free name for %s in %s: %w", name, folder, ErrDestinationExists)
}

func (c *Classifier) fail(outcome internal.Outcome, err error) internal.Outcome {
	outcome.Err = err
	c.log.Error().Err(err).Str(logger.FieldPath, outcome.Path).Msgf("Failed to move %s: %v", outcome.Path, err)
	return outcome
}

// Category 返回文件的分类（小写，不含点）
// 无扩展名的文件在开启类型识别时按文件头判断，否则归入 others
func (c *Classifier) Category(path string) string {
	if ext := Extension(filepath.Base(path)); ext != "" {
		return ext
	}
	if !c.opts.DetectType {
		return internal.OthersCategory
	}

	kind, err := c.detectFileType(path)
	if err != nil {
		c.log.Debug().Err(err).Str(logger.FieldPath, path).Msg("type detection failed")
		return internal.OthersCategory
	}
	if kind == types.Unknown || kind.Extension == "" {
		return internal.OthersCategory
	}
	return strings.ToLower(kind.Extension)
}

func (c *Classifier) detectFileType(path string) (types.Type, error) {
	file, err := c.walker.Fs().Open(path)
	if err != nil {
		return types.Unknown, err
	}
	defer file.Close()

	buffer := make([]byte, HeaderSize)
	n, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return types.Unknown, err
	}

	return filetype.Match(buffer[:n])
}

// Extension 返回文件名的扩展名（小写，不含点）
// 以点开头的文件名（例如 .bashrc）前导的点不算扩展名
func Extension(name string) string {
	ext := filepath.Ext(strings.TrimLeft(name, "."))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Folder 分类对应的目录名
func Folder(category string) string {
	if category == "" {
		category = internal.OthersCategory
	}
	return strings.ToUpper(category)
}

func uniqueName(name string) string {
	return fmt.Sprintf("%s-%s", uuid.New().String(), name)
}
