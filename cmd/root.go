package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/moyu-x/declutter/config"
	"github.com/moyu-x/declutter/internal"
	"github.com/moyu-x/declutter/internal/app"
	"github.com/moyu-x/declutter/pkg/classifier"
	"github.com/moyu-x/declutter/pkg/hasher"
)

const rootLongDescription = `Declutter is a file-hygiene tool for a single directory tree.

One pass runs four phases in a fixed order:
  1. remove empty folders (deepest first)
  2. move files older than a threshold to the trash
  3. move duplicate files (same SHA-256 content) to the trash, keeping the first copy
  4. optionally move top-level files into folders named by extension (TXT/, PDF/, OTHERS/)

Dry-run is on by default: nothing is changed until --dry-run=false is given.`

// 命令行参数与配置项的对应关系
var flagKeys = map[string]string{
	"root":        config.KeyRoot,
	"dry-run":     config.KeyDryRun,
	"organize":    config.KeyOrganize,
	"days":        config.KeyDaysOld,
	"top-level":   config.KeyTopLevelOnly,
	"log-file":    config.KeyLogFile,
	"log-level":   config.KeyLogLevel,
	"trash-dir":   config.KeyTrashDir,
	"on-conflict": config.KeyConflict,
	"detect-type": config.KeyDetectType,
	"hash":        config.KeyHashAlgorithm,
	"exclude":     config.KeyExclude,
}

// globalFlags 所有子命令共享的参数
type globalFlags struct {
	configFile string
	debug      bool
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:          "declutter",
		Short:        "Remove empty folders, old files and duplicates, then organize by type",
		Long:         rootLongDescription,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default searches $HOME/.declutter, . and /etc/declutter for declutter.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "v", false, "enable debug logging")

	cmd.AddCommand(
		newRunCmd(flags),
		newDedupCmd(flags),
		newTUICmd(flags),
		newVersionCmd(),
	)
	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// addCommonFlags 注册 run 与 dedup 共用的参数
func addCommonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("root", "r", config.DefaultRoot, "directory to clean up")
	f.Bool("dry-run", true, "only log what would happen (use --dry-run=false to apply)")
	f.Bool("top-level", false, "check duplicates in the root directory only")
	f.String("log-file", internal.DefaultLogFile, "log file, truncated on every run")
	f.String("log-level", "info", "log level: debug, info, warn, error")
	f.String("trash-dir", "", "trash directory (default: the system trash)")
	f.StringArrayP("exclude", "x", nil, "skip paths matching this glob, relative to root (can be repeated)")
	f.String("hash", string(hasher.SHA256), "content digest: sha256 or xxhash")
}

// loadConfig 按参数、环境变量、配置文件、默认值的优先级读取配置
// 位置参数给出的根目录优先于 --root
func loadConfig(cmd *cobra.Command, flags *globalFlags, args []string) (*config.Config, error) {
	v := config.New(flags.configFile)

	if err := bindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	if len(args) > 0 {
		v.Set(config.KeyRoot, args[0])
	}
	if flags.debug {
		v.Set(config.KeyLogLevel, "debug")
	}

	return config.Load(v)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// buildOptions 将配置转换为一次运行的参数
func buildOptions(cfg *config.Config) (*app.Options, error) {
	algorithm, err := hasher.ParseAlgorithm(cfg.Hash.Algorithm)
	if err != nil {
		return nil, err
	}
	conflict, err := classifier.ParseConflict(cfg.OrganizeConflict)
	if err != nil {
		return nil, err
	}

	return &app.Options{
		Root:          cfg.Root,
		DryRun:        cfg.DryRun,
		Organize:      cfg.Organize,
		DaysOld:       cfg.DaysOld,
		TopLevelOnly:  cfg.Duplicates.TopLevelOnly,
		LogFile:       cfg.Log.File,
		LogLevel:      cfg.Log.Level,
		TrashDir:      cfg.Trash.Dir,
		Conflict:      conflict,
		DetectType:    cfg.DetectType,
		HashAlgorithm: algorithm,
		Exclude:       cfg.Exclude,
	}, nil
}
