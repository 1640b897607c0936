package trash

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/moyu-x/declutter/internal"
	"github.com/moyu-x/declutter/pkg/fsops"
)

const (
	filesDir   = "files"
	infoDir    = "info"
	infoSuffix = ".trashinfo"

	deletionDateFormat = "2006-01-02T15:04:05"
)

// Dir 遵循 freedesktop.org 回收站规范的回收站目录
// 被删除的条目放在 files/ 下，恢复所需的原路径记录在 info/<name>.trashinfo 中
type Dir struct {
	fs   afero.Fs
	root string
	now  func() time.Time
}

var _ fsops.Trasher = (*Dir)(nil)

// New 创建回收站，root 为回收站根目录
func New(fs afero.Fs, root string) *Dir {
	return &Dir{fs: fs, root: filepath.Clean(root), now: time.Now}
}

// DefaultRoot 返回默认回收站目录
// 优先使用 $XDG_DATA_HOME/Trash，其次 ~/.local/share/Trash
func DefaultRoot() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "Trash"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "Trash"), nil
}

// Root 回收站根目录
func (d *Dir) Root() string {
	return d.root
}

// Trash 将文件或目录移入回收站，路径不存在时直接返回
func (d *Dir) Trash(path string) error {
	path = filepath.Clean(path)
	if _, err := d.fs.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}

	for _, sub := range []string{filesDir, infoDir} {
		if err := d.fs.MkdirAll(filepath.Join(d.root, sub), internal.DirPerm); err != nil {
			return fmt.Errorf("create trash directory: %w", err)
		}
	}

	name, infoPath, err := d.reserve(filepath.Base(path), path)
	if err != nil {
		return err
	}

	if err := fsops.MoveFile(d.fs, path, filepath.Join(d.root, filesDir, name)); err != nil {
		d.fs.Remove(infoPath)
		return fmt.Errorf("move %s to trash: %w", path, err)
	}
	return nil
}

// reserve 独占创建 .trashinfo 文件以占用一个名称，重名时追加 uuid
func (d *Dir) reserve(base, original string) (string, string, error) {
	name := base
	for attempt := 0; attempt < 10; attempt++ {
		infoPath := filepath.Join(d.root, infoDir, name+infoSuffix)
		f, err := d.fs.OpenFile(infoPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			_, werr := f.WriteString(d.info(original))
			cerr := f.Close()
			if werr != nil || cerr != nil {
				d.fs.Remove(infoPath)
				return "", "", fmt.Errorf("write trash info: %w", errors.Join(werr, cerr))
			}
			exists, err := afero.Exists(d.fs, filepath.Join(d.root, filesDir, name))
			if err != nil {
				d.fs.Remove(infoPath)
				return "", "", err
			}
			if !exists {
				return name, infoPath, nil
			}
			// 残留的同名条目，换一个名称
			d.fs.Remove(infoPath)
		} else if !errors.Is(err, os.ErrExist) {
			return "", "", fmt.Errorf("create trash info: %w", err)
		}
		name = uniqueName(base)
	}
	return "", "", fmt.Errorf("no free trash name for %s", base)
}

func (d *Dir) info(original string) string {
	var b strings.Builder
	b.WriteString("[Trash Info]\n")
	b.WriteString("Path=" + (&url.URL{Path: original}).EscapedPath() + "\n")
	b.WriteString("DeletionDate=" + d.now().Format(deletionDateFormat) + "\n")
	return b.String()
}

func uniqueName(base string) string {
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "." + uuid.NewString() + ext
}
