package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyu-x/declutter/config"
	"github.com/moyu-x/declutter/internal"
	"github.com/moyu-x/declutter/pkg/trash"
)

// exampleTree 创建 a.txt/b.txt（内容相同）、40 天前修改的 old.log 以及空目录 Empty
func exampleTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("same content"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("same content"), 0644))

	old := filepath.Join(root, "old.log")
	require.NoError(t, os.WriteFile(old, []byte("ancient"), 0644))
	mod := time.Now().Add(-40 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(old, mod, mod))

	require.NoError(t, os.Mkdir(filepath.Join(root, "Empty"), 0755))
	return root
}

func testOptions(t *testing.T, root string) *Options {
	t.Helper()
	return &Options{
		Root:     root,
		Organize: true,
		DaysOld:  30,
		LogFile:  filepath.Join(t.TempDir(), "logs", "declutter_log.txt"),
		LogLevel: "info",
		TrashDir: filepath.Join(t.TempDir(), "Trash"),
		Console:  &bytes.Buffer{},
		NoColor:  true,
	}
}

// snapshot 返回目录树中所有路径及文件内容
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		if info.IsDir() {
			out[rel] = "<dir>"
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[rel] = string(data) + "@" + info.ModTime().String()
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestRun_Example(t *testing.T) {
	root := exampleTree(t)
	opts := testOptions(t, root)

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.EmptyFoldersRemoved)
	assert.Equal(t, 1, summary.OldFilesDeleted)
	assert.Equal(t, 1, summary.DuplicatesRemoved)
	assert.Equal(t, 1, summary.FilesMoved)
	assert.Zero(t, summary.Failures)
	assert.False(t, summary.DryRun)

	assert.NoDirExists(t, filepath.Join(root, "Empty"))
	assert.NoFileExists(t, filepath.Join(root, "old.log"))
	assert.NoFileExists(t, filepath.Join(root, "a.txt"))
	assert.NoFileExists(t, filepath.Join(root, "b.txt"))
	assert.FileExists(t, filepath.Join(root, "TXT", "a.txt"))

	assert.FileExists(t, filepath.Join(opts.TrashDir, "files", "old.log"))
	assert.FileExists(t, filepath.Join(opts.TrashDir, "files", "b.txt"))
	assert.FileExists(t, filepath.Join(opts.TrashDir, "info", "b.txt.trashinfo"))
}

func TestRun_Idempotent(t *testing.T) {
	root := exampleTree(t)
	opts := testOptions(t, root)

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Zero(t, summary.Actions())
	assert.Zero(t, summary.Failures)
}

func TestRun_DryRunLeavesTreeUnchanged(t *testing.T) {
	root := exampleTree(t)
	opts := testOptions(t, root)
	opts.DryRun = true

	before := snapshot(t, root)
	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, before, snapshot(t, root))
	assert.NoDirExists(t, opts.TrashDir)
	assert.True(t, summary.DryRun)

	// 预览模式的统计与真实运行一致
	live := testOptions(t, root)
	liveSummary, err := Run(context.Background(), live)
	require.NoError(t, err)

	assert.Equal(t, liveSummary.EmptyFoldersRemoved, summary.EmptyFoldersRemoved)
	assert.Equal(t, liveSummary.OldFilesDeleted, summary.OldFilesDeleted)
	assert.Equal(t, liveSummary.DuplicatesRemoved, summary.DuplicatesRemoved)
	assert.Equal(t, liveSummary.FilesMoved, summary.FilesMoved)
}

func TestRun_OthersFolder(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "README"), []byte("readme"), 0644))

	summary, err := Run(context.Background(), testOptions(t, root))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesMoved)
	assert.FileExists(t, filepath.Join(root, "OTHERS", "README"))
}

func TestRun_LogFileExempt(t *testing.T) {
	root := exampleTree(t)
	opts := testOptions(t, root)
	opts.LogFile = filepath.Join(root, "declutter_log.txt")
	opts.DaysOld = 0

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)

	// 阈值为 0 时所有文件都是旧文件，日志文件除外
	assert.Equal(t, 3, summary.OldFilesDeleted)
	assert.Zero(t, summary.FilesMoved)
	assert.FileExists(t, opts.LogFile)
	assert.NoDirExists(t, filepath.Join(root, "TXT"))

	data, err := os.ReadFile(opts.LogFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, internal.LogHeader, lines[0])

	line := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - Deleted old file: `)
	matched := 0
	for _, l := range lines[1:] {
		if line.MatchString(l) {
			matched++
		}
	}
	assert.Equal(t, 3, matched)
}

func TestRun_LogTruncatedEachRun(t *testing.T) {
	root := exampleTree(t)
	opts := testOptions(t, root)

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)
	_, err = Run(context.Background(), opts)
	require.NoError(t, err)

	data, err := os.ReadFile(opts.LogFile)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), internal.LogHeader))
	assert.NotContains(t, string(data), "Removed duplicate")
}

func TestRun_MissingRoot(t *testing.T) {
	opts := testOptions(t, filepath.Join(t.TempDir(), "missing"))

	_, err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, config.ErrRootMissing)
	assert.NoFileExists(t, opts.LogFile)
}

func TestRun_RootIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := Run(context.Background(), testOptions(t, file))
	assert.ErrorIs(t, err, config.ErrRootNotDir)
}

func TestRun_PhaseSubset(t *testing.T) {
	root := exampleTree(t)
	opts := testOptions(t, root)
	opts.Phases = []internal.Phase{internal.PhaseRemoveDuplicates}

	var seen []internal.Phase
	opts.OnPhase = func(p internal.Phase) { seen = append(seen, p) }

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, []internal.Phase{internal.PhaseRemoveDuplicates}, seen)
	assert.Equal(t, 1, summary.DuplicatesRemoved)
	assert.Zero(t, summary.EmptyFoldersRemoved+summary.OldFilesDeleted+summary.FilesMoved)
	assert.DirExists(t, filepath.Join(root, "Empty"))
}

func TestRun_PhaseOrder(t *testing.T) {
	opts := testOptions(t, t.TempDir())

	var seen []internal.Phase
	opts.OnPhase = func(p internal.Phase) { seen = append(seen, p) }

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, internal.PhaseOrder, seen)

	seen = nil
	opts.Organize = false
	_, err = Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, internal.PhaseOrder[:3], seen)
}

func TestRun_NoPhases(t *testing.T) {
	opts := testOptions(t, t.TempDir())
	opts.Organize = false
	opts.Phases = []internal.Phase{internal.PhaseOrganizeByType}

	_, err := Run(context.Background(), opts)
	assert.True(t, errors.Is(err, ErrNoPhases))
}

func TestRun_Cancelled(t *testing.T) {
	root := exampleTree(t)
	before := snapshot(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := Run(ctx, testOptions(t, root))
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Zero(t, summary.Actions())
	assert.Equal(t, before, snapshot(t, root))
}

func TestRun_Exclude(t *testing.T) {
	root := exampleTree(t)
	opts := testOptions(t, root)
	opts.Exclude = []string{"*.log", "Empty"}

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Zero(t, summary.EmptyFoldersRemoved)
	assert.Zero(t, summary.OldFilesDeleted)
	assert.FileExists(t, filepath.Join(root, "old.log"))
	assert.DirExists(t, filepath.Join(root, "Empty"))
}

func TestNewTrasher(t *testing.T) {
	osFs := afero.NewOsFs()

	assert.IsType(t, &trash.System{}, newTrasher(osFs, "", "/home/u/.local/share/Trash"))
	assert.IsType(t, &trash.Dir{}, newTrasher(osFs, "/tmp/trash", "/tmp/trash"))
	assert.IsType(t, &trash.Dir{}, newTrasher(afero.NewMemMapFs(), "", "/trash"))

	dir, ok := newTrasher(osFs, "/tmp/trash", "/tmp/trash").(*trash.Dir)
	require.True(t, ok)
	assert.Equal(t, "/tmp/trash", dir.Root())
}
