package fsops

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// ErrExists 目标路径已存在
var ErrExists = errors.New("destination already exists")

// MoveFile 使用 rename 操作将文件从源路径移动到目标路径
// rename 失败时（例如跨卷移动）退回到复制后删除，目标已存在时返回 ErrExists
func MoveFile(fs afero.Fs, src, dst string) error {
	exists, err := afero.Exists(fs, dst)
	if err != nil {
		return fmt.Errorf("check destination: %w", err)
	}
	if exists {
		return fmt.Errorf("%s: %w", dst, ErrExists)
	}

	if err := fs.Rename(src, dst); err == nil {
		return nil
	}

	return copyAndRemove(fs, src, dst)
}

func copyAndRemove(fs afero.Fs, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	sourceFile, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer sourceFile.Close()

	destFile, err := fs.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		fs.Remove(dst)
		return fmt.Errorf("copy content: %w", err)
	}
	if err := destFile.Close(); err != nil {
		fs.Remove(dst)
		return fmt.Errorf("close destination: %w", err)
	}

	// 保留修改时间，移动不应让文件变"新"
	_ = fs.Chtimes(dst, info.ModTime(), info.ModTime())

	sourceFile.Close()
	if err := fs.Remove(src); err != nil {
		return fmt.Errorf("remove source: %w", err)
	}
	return nil
}
