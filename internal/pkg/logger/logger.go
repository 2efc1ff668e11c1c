// Package logger 基于 zap 的全局日志，文件输出由 lumberjack 负责切割。
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogFile    = "controller.log"
	defaultMaxSizeMB  = 200
	defaultMaxBackups = 10
	defaultMaxAgeDays = 7
)

type LogOption struct {
	Format   string // console / json
	LogDir   string // 为空时只输出到 stdout
	Level    string // debug / info / warn / error
	Compress bool
}

var sugar atomic.Pointer[zap.SugaredLogger]

func init() {
	sugar.Store(newSugar(zapcore.InfoLevel, consoleEncoder(), zapcore.AddSync(os.Stdout)))
}

// InitLogger 替换全局 logger，可重复调用
func InitLogger(opt LogOption) error {
	level, err := parseLevel(opt.Level)
	if err != nil {
		return err
	}

	var enc zapcore.Encoder
	switch strings.ToLower(opt.Format) {
	case "", "console":
		enc = consoleEncoder()
	case "json":
		enc = zapcore.NewJSONEncoder(encoderConfig())
	default:
		return fmt.Errorf("unknown log format %q", opt.Format)
	}

	ws := zapcore.AddSync(os.Stdout)
	if opt.LogDir != "" {
		if err := os.MkdirAll(opt.LogDir, 0o755); err != nil {
			return fmt.Errorf("create log dir %s: %w", opt.LogDir, err)
		}
		file := &lumberjack.Logger{
			Filename:   filepath.Join(opt.LogDir, defaultLogFile),
			MaxSize:    defaultMaxSizeMB,
			MaxBackups: defaultMaxBackups,
			MaxAge:     defaultMaxAgeDays,
			Compress:   opt.Compress,
			LocalTime:  true,
		}
		ws = zapcore.NewMultiWriteSyncer(ws, zapcore.AddSync(file))
	}

	old := sugar.Swap(newSugar(level, enc, ws))
	_ = old.Sync()
	return nil
}

func parseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return l, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func consoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(encoderConfig())
}

func newSugar(level zapcore.Level, enc zapcore.Encoder, ws zapcore.WriteSyncer) *zap.SugaredLogger {
	core := zapcore.NewCore(enc, ws, level)
	// 跳过本包的一层封装，caller 指向业务代码
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

func Debugf(template string, args ...interface{}) {
	sugar.Load().Debugf(template, args...)
}

func Infof(template string, args ...interface{}) {
	sugar.Load().Infof(template, args...)
}

func Warnf(template string, args ...interface{}) {
	sugar.Load().Warnf(template, args...)
}

func Errorf(template string, args ...interface{}) {
	sugar.Load().Errorf(template, args...)
}

func Sync() {
	_ = sugar.Load().Sync()
}
