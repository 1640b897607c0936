package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/moyu-x/declutter/internal"
)

// 结构化字段名，写入日志文件时被忽略，日志行只保留消息本身
const (
	FieldPath   = "path"
	FieldTarget = "target"
	FieldPhase  = "phase"
	FieldDigest = "digest"
)

const fileTimeFormat = "2006-01-02 15:04:05"

var global *zerolog.Logger

// Options 日志配置
type Options struct {
	Level   string    // "debug", "info", "warn", "error"
	File    string    // 日志文件路径，为空时仅输出到控制台
	Console io.Writer // 控制台输出，默认 os.Stdout
	NoColor bool
}

// Sink 日志输出端，同时写入控制台和日志文件
type Sink struct {
	Logger zerolog.Logger
	file   *os.File
}

// ParseLevel 解析日志级别，未知级别按 info 处理
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New 创建日志输出端
// 日志文件每次运行都会被截断，并以固定的首行开始
func New(opts Options) (*Sink, error) {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	noColor := opts.NoColor
	if f, ok := console.(*os.File); ok && !isatty.IsTerminal(f.Fd()) {
		noColor = true
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: console, NoColor: noColor, TimeFormat: "15:04:05"},
	}

	sink := &Sink{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), internal.DirPerm); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		if _, err := fmt.Fprintln(f, internal.LogHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("write log header: %w", err)
		}
		sink.file = f
		writers = append(writers, fileWriter(f))
	}

	sink.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()

	return sink, nil
}

// fileWriter 以 "<timestamp> - <message>" 格式写入日志文件
func fileWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: fileTimeFormat,
		PartsOrder: []string{zerolog.TimestampFieldName, zerolog.MessageFieldName},
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("- %v", i)
		},
		FieldsExclude: []string{
			FieldPath, FieldTarget, FieldPhase, FieldDigest, zerolog.ErrorFieldName,
		},
	}
}

// Path 返回日志文件路径，未写文件时为空
func (s *Sink) Path() string {
	if s.file == nil {
		return ""
	}
	return s.file.Name()
}

// Close 关闭日志文件，如果它是全局 logger 则同时清除全局 logger
func (s *Sink) Close() error {
	if global == &s.Logger {
		global = nil
	}
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// Init 创建日志输出端并设置为全局 logger
func Init(opts Options) (*Sink, error) {
	sink, err := New(opts)
	if err != nil {
		return nil, err
	}
	global = &sink.Logger
	return sink, nil
}

// Get 返回全局 logger 实例
// 如果 logger 未初始化，返回一个丢弃所有输出的 logger
func Get() *zerolog.Logger {
	if global == nil {
		l := zerolog.New(io.Discard)
		global = &l
	}
	return global
}
