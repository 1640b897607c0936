package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// Entry 目录中的一个条目
type Entry struct {
	Path string
	Info os.FileInfo
}

// Options 遍历选项
type Options struct {
	// Exclude 相对根目录的 doublestar 模式，匹配的文件和目录不会被访问
	Exclude []string
	// Protected 永远不会作为文件返回的路径（例如日志文件）
	Protected []string
	// SkipDirs 不会被进入的目录（例如回收站目录）
	SkipDirs []string
	// Hidden 判断路径是否已在本次运行中被移除
	Hidden func(path string) bool
}

// Walker 基于 afero 的目录遍历器
// 每次调用都会重新读取目录，不缓存任何状态
type Walker struct {
	fs        afero.Fs
	root      string
	exclude   []string
	protected map[string]bool
	skipDirs  []string
	hidden    func(string) bool
}

// New 创建遍历器
func New(fs afero.Fs, root string, opts Options) (*Walker, error) {
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	w := &Walker{
		fs:        fs,
		root:      filepath.Clean(root),
		exclude:   opts.Exclude,
		protected: make(map[string]bool, len(opts.Protected)),
		hidden:    opts.Hidden,
	}
	for _, p := range opts.Protected {
		if p != "" {
			w.protected[filepath.Clean(p)] = true
		}
	}
	for _, d := range opts.SkipDirs {
		if d != "" {
			w.skipDirs = append(w.skipDirs, filepath.Clean(d))
		}
	}
	return w, nil
}

// Root 根目录
func (w *Walker) Root() string {
	return w.root
}

// Fs 底层文件系统
func (w *Walker) Fs() afero.Fs {
	return w.fs
}

// IsProtected 路径是否受保护
func (w *Walker) IsProtected(path string) bool {
	return w.protected[filepath.Clean(path)]
}

// isHidden 路径是否已在本次运行中被移除
func (w *Walker) isHidden(path string) bool {
	return w.hidden != nil && w.hidden(path)
}

// isSkippedDir 目录是否位于不可进入的目录之下
func (w *Walker) isSkippedDir(path string) bool {
	for _, d := range w.skipDirs {
		if path == d || strings.HasPrefix(path, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// IsExcluded 路径是否匹配排除模式
func (w *Walker) IsExcluded(path string) bool {
	if len(w.exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)
	for _, pattern := range w.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// Entries 返回目录中所有仍然存在的条目，按名称排序
// 不应用排除规则，用于判断目录是否为空
func (w *Walker) Entries(dir string) ([]Entry, error) {
	infos, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		path := filepath.Join(dir, info.Name())
		if w.isHidden(path) {
			continue
		}
		entries = append(entries, Entry{Path: path, Info: info})
	}
	return entries, nil
}

// Files 返回目录中可处理的普通文件
// 受保护的文件、被排除的文件和符号链接不会返回
func (w *Walker) Files(dir string) ([]Entry, error) {
	entries, err := w.Entries(dir)
	if err != nil {
		return nil, err
	}

	var files []Entry
	for _, e := range entries {
		if !e.Info.Mode().IsRegular() {
			continue
		}
		if w.IsProtected(e.Path) || w.IsExcluded(e.Path) {
			continue
		}
		files = append(files, e)
	}
	return files, nil
}

// Subdirs 返回目录中可进入的子目录
func (w *Walker) Subdirs(dir string) ([]string, error) {
	entries, err := w.Entries(dir)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, e := range entries {
		if !e.Info.IsDir() {
			continue
		}
		if w.isSkippedDir(e.Path) || w.IsExcluded(e.Path) {
			continue
		}
		dirs = append(dirs, e.Path)
	}
	return dirs, nil
}

// Dirs 返回需要扫描的目录列表
// recursive 为 false 时只返回根目录，否则按先序遍历返回根目录及所有子目录
// 无法读取的目录通过 onErr 报告后跳过
func (w *Walker) Dirs(recursive bool, onErr func(path string, err error)) []string {
	dirs := []string{w.root}
	if !recursive {
		return dirs
	}

	var visit func(dir string)
	visit = func(dir string) {
		subdirs, err := w.Subdirs(dir)
		if err != nil {
			if onErr != nil {
				onErr(dir, err)
			}
			return
		}
		for _, sub := range subdirs {
			dirs = append(dirs, sub)
			visit(sub)
		}
	}
	visit(w.root)
	return dirs
}

// WalkFiles 按先序遍历访问根目录下的所有可处理文件
func (w *Walker) WalkFiles(fn func(Entry), onErr func(path string, err error)) {
	for _, dir := range w.Dirs(true, onErr) {
		files, err := w.Files(dir)
		if err != nil {
			if onErr != nil {
				onErr(dir, err)
			}
			continue
		}
		for _, f := range files {
			fn(f)
		}
	}
}

// CountFiles 统计根目录下可处理的文件数量
func (w *Walker) CountFiles() int {
	count := 0
	w.WalkFiles(func(Entry) { count++ }, nil)
	return count
}
