package deduplicator

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/moyu-x/declutter/internal"
	"github.com/moyu-x/declutter/pkg/fsops"
	"github.com/moyu-x/declutter/pkg/hasher"
	"github.com/moyu-x/declutter/pkg/logger"
	"github.com/moyu-x/declutter/pkg/scanner"
)

// Deduplicator 按内容摘要删除重复文件
// 每个摘要第一个出现的文件作为保留的原始文件，之后出现的同摘要文件都是重复文件
type Deduplicator struct {
	walker       *scanner.Walker
	hasher       *hasher.Hasher
	mutator      fsops.Mutator
	log          zerolog.Logger
	topLevelOnly bool

	// 摘要 -> 原始文件路径；弱摘要下同一摘要可能对应多个内容不同的原始文件
	hashes map[string][]string
}

// NewDeduplicator 创建去重处理器
// topLevelOnly 为 true 时只检查根目录，否则检查整个目录树
func NewDeduplicator(walker *scanner.Walker, h *hasher.Hasher, mutator fsops.Mutator, log zerolog.Logger, topLevelOnly bool) *Deduplicator {
	return &Deduplicator{
		walker:       walker,
		hasher:       h,
		mutator:      mutator,
		log:          log,
		topLevelOnly: topLevelOnly,
		hashes:       make(map[string][]string),
	}
}

// Run 扫描候选目录并删除重复文件
func (d *Deduplicator) Run() internal.PhaseResult {
	result := internal.PhaseResult{Phase: internal.PhaseRemoveDuplicates}

	onErr := func(path string, err error) {
		d.log.Error().Err(err).Str(logger.FieldPath, path).Msgf("Error reading directory %s: %v", path, err)
	}

	for _, dir := range d.walker.Dirs(!d.topLevelOnly, onErr) {
		files, err := d.walker.Files(dir)
		if err != nil {
			onErr(dir, err)
			continue
		}
		for _, f := range files {
			if outcome, acted := d.process(f.Path); acted {
				result.Record(outcome)
			}
		}
	}

	d.log.Debug().Msgf("Duplicate scan finished: %d distinct digests", len(d.hashes))
	return result
}

// process 处理单个文件，文件不是重复文件时返回 false
func (d *Deduplicator) process(path string) (internal.Outcome, bool) {
	outcome := internal.Outcome{Path: path, Action: internal.ActionTrash}

	canonical, err := d.Check(path)
	if err != nil {
		// 无法读取的文件既不是原始文件也不是重复文件
		d.log.Error().Err(err).Str(logger.FieldPath, path).Msgf("Error hashing file %s: %v", path, err)
		return outcome, false
	}
	if canonical == "" {
		return outcome, false
	}

	outcome.Target = canonical
	// 哈希之后文件可能已被外部删除，回收站对不存在的路径不报错
	exists, err := d.mutator.Exists(path)
	if err != nil {
		outcome.Err = err
		d.log.Error().Err(err).Str(logger.FieldPath, path).Msgf("Failed to delete duplicate %s: %v", path, err)
		return outcome, true
	}
	if !exists {
		d.log.Warn().Str(logger.FieldPath, path).Msgf("Duplicate %s vanished before removal", path)
		return outcome, false
	}

	if err := d.mutator.Trash(path); err != nil {
		outcome.Err = err
		d.log.Error().Err(err).Str(logger.FieldPath, path).Msgf("Failed to delete duplicate %s: %v", path, err)
		return outcome, true
	}

	d.log.Info().
		Str(logger.FieldPath, path).
		Str(logger.FieldTarget, canonical).
		Msgf("Removed duplicate: %s", path)
	return outcome, true
}

// Check 计算文件摘要并登记
// 返回该文件重复的原始文件路径；文件不是重复文件时返回空字符串并登记为原始文件
func (d *Deduplicator) Check(path string) (string, error) {
	digest, err := d.hasher.Sum(path)
	if err != nil {
		return "", err
	}

	d.log.Debug().Str(logger.FieldPath, path).Str(logger.FieldDigest, digest).Msgf("Digest of %s", path)

	owners := d.hashes[digest]
	if len(owners) > 0 && d.hasher.Algorithm().Strong() {
		return owners[0], nil
	}

	for _, owner := range owners {
		same, err := d.hasher.SameContent(owner, path)
		if err != nil {
			return "", fmt.Errorf("compare with %s: %w", owner, err)
		}
		if same {
			return owner, nil
		}
	}

	d.hashes[digest] = append(owners, path)
	return "", nil
}

// Canonical 返回每个摘要登记的原始文件
func (d *Deduplicator) Canonical() map[string][]string {
	out := make(map[string][]string, len(d.hashes))
	for k, v := range d.hashes {
		out[k] = append([]string(nil), v...)
	}
	return out
}
