package trash

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Bios-Marcel/wastebasket/v2"

	"github.com/moyu-x/declutter/pkg/fsops"
)

// System 操作系统自带的回收站
// Linux 上是 freedesktop 回收站，Windows 上是回收站，macOS 上是废纸篓
type System struct {
	trash func(paths ...string) error
}

var _ fsops.Trasher = (*System)(nil)

// NewSystem 创建使用系统回收站的 Trasher
func NewSystem() *System {
	return &System{trash: wastebasket.Trash}
}

// Trash 将文件或目录移入系统回收站，路径不存在时直接返回
func (s *System) Trash(path string) error {
	path = filepath.Clean(path)
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err := s.trash(path); err != nil {
		return fmt.Errorf("move %s to trash: %w", path, err)
	}
	return nil
}
