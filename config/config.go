package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/moyu-x/declutter/internal"
	"github.com/moyu-x/declutter/pkg/classifier"
	"github.com/moyu-x/declutter/pkg/hasher"
)

// 配置项名称
const (
	KeyRoot          = "root"
	KeyDryRun        = "dry_run"
	KeyOrganize      = "organize"
	KeyDaysOld       = "days_old"
	KeyTopLevelOnly  = "duplicates.top_level_only"
	KeyLogFile       = "log.file"
	KeyLogLevel      = "log.level"
	KeyTrashDir      = "trash.dir"
	KeyConflict      = "organize_conflict"
	KeyDetectType    = "detect_type"
	KeyHashAlgorithm = "hash.algorithm"
	KeyExclude       = "exclude"
)

const (
	EnvPrefix  = "DECLUTTER"
	configName = "declutter"

	DefaultRoot = "~/Downloads"
)

var (
	// ErrRootMissing 目标根目录不存在
	ErrRootMissing = errors.New("root directory does not exist")
	// ErrRootNotDir 目标根路径不是目录
	ErrRootNotDir = errors.New("root path is not a directory")
	// ErrNegativeDays 天数阈值为负数
	ErrNegativeDays = errors.New("days_old must be >= 0")
)

// Config 一次运行的全部配置，启动时读取一次
type Config struct {
	Root     string `mapstructure:"root"`
	DryRun   bool   `mapstructure:"dry_run"`
	Organize bool   `mapstructure:"organize"`
	DaysOld  int    `mapstructure:"days_old"`

	Duplicates struct {
		TopLevelOnly bool `mapstructure:"top_level_only"`
	} `mapstructure:"duplicates"`

	Log struct {
		File  string `mapstructure:"file"`
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Trash struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"trash"`

	OrganizeConflict string `mapstructure:"organize_conflict"`
	DetectType       bool   `mapstructure:"detect_type"`

	Hash struct {
		Algorithm string `mapstructure:"algorithm"`
	} `mapstructure:"hash"`

	Exclude []string `mapstructure:"exclude"`
}

// SetDefaults 设置所有配置项的默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyRoot, DefaultRoot)
	v.SetDefault(KeyDryRun, true)
	v.SetDefault(KeyOrganize, true)
	v.SetDefault(KeyDaysOld, internal.DefaultDaysOld)
	v.SetDefault(KeyTopLevelOnly, false)
	v.SetDefault(KeyLogFile, internal.DefaultLogFile)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyTrashDir, "")
	v.SetDefault(KeyConflict, string(classifier.ConflictSkip))
	v.SetDefault(KeyDetectType, false)
	v.SetDefault(KeyHashAlgorithm, string(hasher.SHA256))
	v.SetDefault(KeyExclude, []string{})
}

// New 创建 viper 实例
// configFile 为空时依次在 $HOME/.declutter、当前目录和 /etc/declutter 中查找 declutter.yaml
func New(configFile string) *viper.Viper {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.declutter")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/declutter")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	return v
}

// Load 读取配置文件并解析配置
// 找不到配置文件时使用默认值和环境变量，显式指定的配置文件不存在时返回错误
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize 展开 ~ 并转换为绝对路径
func (c *Config) normalize() error {
	var err error
	if c.Root, err = AbsPath(c.Root); err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}
	if c.Log.File, err = AbsPath(c.Log.File); err != nil {
		return fmt.Errorf("resolve log file: %w", err)
	}
	if c.Trash.Dir, err = AbsPath(c.Trash.Dir); err != nil {
		return fmt.Errorf("resolve trash dir: %w", err)
	}
	return nil
}

func (c *Config) check() error {
	if c.DaysOld < 0 {
		return fmt.Errorf("%w (got %d)", ErrNegativeDays, c.DaysOld)
	}
	if _, err := hasher.ParseAlgorithm(c.Hash.Algorithm); err != nil {
		return err
	}
	if _, err := classifier.ParseConflict(c.OrganizeConflict); err != nil {
		return err
	}
	return nil
}

// ValidateRoot 目标根目录必须存在且是目录
func ValidateRoot(fs afero.Fs, root string) error {
	if root == "" {
		return fmt.Errorf("root: %w", ErrRootMissing)
	}
	info, err := fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", root, ErrRootMissing)
		}
		return fmt.Errorf("stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", root, ErrRootNotDir)
	}
	return nil
}

// ExpandHome 将开头的 ~ 替换为用户主目录
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// AbsPath 展开 ~ 后返回绝对路径，空路径保持为空
func AbsPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	expanded, err := ExpandHome(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}
