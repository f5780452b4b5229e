package mlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fixkme/ticktimer/errs"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultDirMode os.FileMode = 0755

type Logger interface {
	Trace(v ...any)
	Debug(v ...any)
	Info(v ...any)
	Notice(v ...any)
	Warn(v ...any)
	Error(v ...any)
	Fatal(v ...any)

	Tracef(format string, v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Noticef(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
	Fatalf(format string, v ...any)
}

var logger Logger

func SetLogger(l Logger) {
	logger = l
}

// UseStdLogger 输出到标准输出
func UseStdLogger(level Level) error {
	SetLogger(newZapLogger(level, zapcore.Lock(os.Stdout)))
	return nil
}

// UseFileLogger 输出到path/logName.log, 按大小滚动, stdOut为true时同时输出到标准输出
func UseFileLogger(path string, logName string, level Level, stdOut bool) error {
	if len(path) == 0 {
		path = "."
	}
	if err := os.MkdirAll(path, defaultDirMode); err != nil {
		return err
	}
	if logName == "" {
		logName = "mlog"
	}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(path, logName+".log"),
		MaxSize:    100, // MB
		MaxBackups: 10,
		MaxAge:     30,
		LocalTime:  true,
	}
	syncers := []zapcore.WriteSyncer{zapcore.AddSync(file)}
	if stdOut {
		syncers = append(syncers, zapcore.Lock(os.Stdout))
	}
	l := newZapLogger(level, syncers...)
	l.closer = file
	SetLogger(l)
	return nil
}

// Sync 刷新并关闭当前日志输出
func Sync() error {
	if s, ok := logger.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

type Level uint32

const (
	FatalLevel Level = iota
	ErrorLevel
	WarnLevel
	NoticeLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

var levelNames = [...]string{"fatal", "error", "warn", "notice", "info", "debug", "trace"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", uint32(l))
}

// ParseLevel 解析配置中的日志级别名称
func ParseLevel(name string) (Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return InfoLevel, errs.Config.Printf("unknown log level %q", name)
}

func Trace(a ...any) {
	if logger == nil {
		return
	}
	logger.Trace(a...)
}

func Tracef(format string, a ...any) {
	if logger == nil {
		return
	}
	logger.Tracef(format, a...)
}

func Debug(a ...any) {
	if logger == nil {
		return
	}
	logger.Debug(a...)
}

func Debugf(format string, a ...any) {
	if logger == nil {
		return
	}
	logger.Debugf(format, a...)
}

func Info(a ...any) {
	if logger == nil {
		return
	}
	logger.Info(a...)
}

func Infof(format string, a ...any) {
	if logger == nil {
		return
	}
	logger.Infof(format, a...)
}

func Notice(a ...any) {
	if logger == nil {
		return
	}
	logger.Notice(a...)
}

func Noticef(format string, a ...any) {
	if logger == nil {
		return
	}
	logger.Noticef(format, a...)
}

func Warn(a ...any) {
	if logger == nil {
		return
	}
	logger.Warn(a...)
}

func Warnf(format string, a ...any) {
	if logger == nil {
		return
	}
	logger.Warnf(format, a...)
}

func Error(a ...any) {
	if logger == nil {
		return
	}
	logger.Error(a...)
}

func Errorf(format string, a ...any) {
	if logger == nil {
		return
	}
	logger.Errorf(format, a...)
}

func Fatal(a ...any) {
	if logger == nil {
		return
	}
	logger.Fatal(a...)
}

func Fatalf(format string, a ...any) {
	if logger == nil {
		return
	}
	logger.Fatalf(format, a...)
}
