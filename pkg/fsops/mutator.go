package fsops

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/moyu-x/declutter/internal"
)

// Trasher 将路径移入可恢复的回收站
// 路径不存在时不返回错误
type Trasher interface {
	Trash(path string) error
}

// Mutator 所有破坏性文件系统操作的入口
// 各阶段只通过它修改目录树，预览模式因此可以保证不做任何修改
type Mutator interface {
	Trash(path string) error
	Move(src, dst string) error
	RemoveDir(path string) error
	EnsureDir(path string) error
	Exists(path string) (bool, error)
	// Gone 路径是否已在本次运行中被移除或移走
	Gone(path string) bool
	DryRun() bool
}

// Live 真正执行修改的 Mutator
type Live struct {
	fs      afero.Fs
	trasher Trasher
}

// NewLive 创建执行修改的 Mutator
func NewLive(fs afero.Fs, trasher Trasher) *Live {
	return &Live{fs: fs, trasher: trasher}
}

func (l *Live) Trash(path string) error {
	return l.trasher.Trash(path)
}

func (l *Live) Move(src, dst string) error {
	return MoveFile(l.fs, src, dst)
}

// RemoveDir 删除空目录
func (l *Live) RemoveDir(path string) error {
	return l.fs.Remove(path)
}

func (l *Live) EnsureDir(path string) error {
	return l.fs.MkdirAll(path, internal.DirPerm)
}

func (l *Live) Exists(path string) (bool, error) {
	return afero.Exists(l.fs, path)
}

func (l *Live) Gone(string) bool { return false }

func (l *Live) DryRun() bool { return false }

// DryRunMutator 预览模式的 Mutator
// 不修改文件系统，只记录本应被移除的路径，使后续阶段看到与真实运行相同的目录树
type DryRunMutator struct {
	fs      afero.Fs
	gone    map[string]internal.Action
	created map[string]bool
}

// NewDryRun 创建预览模式的 Mutator
func NewDryRun(fs afero.Fs) *DryRunMutator {
	return &DryRunMutator{
		fs:      fs,
		gone:    make(map[string]internal.Action),
		created: make(map[string]bool),
	}
}

func (d *DryRunMutator) Trash(path string) error {
	exists, err := d.Exists(path)
	if err != nil || !exists {
		return err
	}
	d.gone[filepath.Clean(path)] = internal.ActionTrash
	return nil
}

func (d *DryRunMutator) Move(src, dst string) error {
	if _, err := d.fs.Stat(src); err != nil || d.Gone(src) {
		return fmt.Errorf("stat source: %w", errOrNotExist(err))
	}
	exists, err := d.Exists(dst)
	if err != nil {
		return fmt.Errorf("check destination: %w", err)
	}
	if exists {
		return fmt.Errorf("%s: %w", dst, ErrExists)
	}
	d.gone[filepath.Clean(src)] = internal.ActionMove
	d.created[filepath.Clean(dst)] = true
	return nil
}

func (d *DryRunMutator) RemoveDir(path string) error {
	if _, err := d.fs.Stat(path); err != nil {
		return err
	}
	d.gone[filepath.Clean(path)] = internal.ActionRemoveDir
	return nil
}

func (d *DryRunMutator) EnsureDir(path string) error {
	d.created[filepath.Clean(path)] = true
	return nil
}

func (d *DryRunMutator) Exists(path string) (bool, error) {
	path = filepath.Clean(path)
	if d.created[path] {
		return true, nil
	}
	if d.Gone(path) {
		return false, nil
	}
	return afero.Exists(d.fs, path)
}

// Gone 路径本身或其任一上级目录是否已被记录为移除
func (d *DryRunMutator) Gone(path string) bool {
	p := filepath.Clean(path)
	for {
		if _, ok := d.gone[p]; ok {
			return true
		}
		parent := filepath.Dir(p)
		if parent == p {
			return false
		}
		p = parent
	}
}

func (d *DryRunMutator) DryRun() bool { return true }

// Planned 返回记录下的所有移除操作，按路径排序
func (d *DryRunMutator) Planned() []internal.Outcome {
	outcomes := make([]internal.Outcome, 0, len(d.gone))
	for p, a := range d.gone {
		outcomes = append(outcomes, internal.Outcome{Path: p, Action: a})
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Path < outcomes[j].Path })
	return outcomes
}

func errOrNotExist(err error) error {
	if err != nil {
		return err
	}
	return afero.ErrFileNotFound
}
