package mlog

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zap没有trace和notice, trace低于debug一级, notice按info输出
const zapTraceLevel = zapcore.DebugLevel - 1

func zapLevel(level Level) zapcore.Level {
	switch level {
	case FatalLevel:
		return zapcore.FatalLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case NoticeLevel, InfoLevel:
		return zapcore.InfoLevel
	case DebugLevel:
		return zapcore.DebugLevel
	}
	return zapTraceLevel
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l < zapcore.DebugLevel {
		enc.AppendString("TRACE")
		return
	}
	zapcore.CapitalLevelEncoder(l, enc)
}

type zapLogger struct {
	level  Level
	zl     *zap.Logger
	closer io.Closer
}

func newZapLogger(level Level, syncers ...zapcore.WriteSyncer) *zapLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05.000000")
	encCfg.EncodeLevel = encodeLevel
	encCfg.CallerKey = ""
	encCfg.StacktraceKey = ""

	enabler := zap.NewAtomicLevelAt(zapLevel(level))
	cores := make([]zapcore.Core, 0, len(syncers))
	for _, ws := range syncers {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, enabler))
	}
	return &zapLogger{
		level: level,
		zl:    zap.New(zapcore.NewTee(cores...)),
	}
}

func (l *zapLogger) IsLevelEnabled(level Level) bool {
	return l.level >= level
}

func (l *zapLogger) Logf(level Level, format string, args ...any) {
	if !l.IsLevelEnabled(level) {
		return
	}
	var msg string
	if len(format) == 0 {
		msg = fmt.Sprint(args...)
	} else {
		msg = fmt.Sprintf(format, args...)
	}
	if ce := l.zl.Check(zapLevel(level), msg); ce != nil {
		ce.Write()
	}
}

func (l *zapLogger) Sync() error {
	err := l.zl.Sync()
	if l.closer != nil {
		if cerr := l.closer.Close(); cerr != nil {
			return cerr
		}
	}
	return err
}

func (l *zapLogger) Trace(v ...any)                 { l.Logf(TraceLevel, "", v...) }
func (l *zapLogger) Tracef(format string, v ...any) { l.Logf(TraceLevel, format, v...) }
func (l *zapLogger) Debug(v ...any)                 { l.Logf(DebugLevel, "", v...) }
func (l *zapLogger) Debugf(format string, v ...any) { l.Logf(DebugLevel, format, v...) }
func (l *zapLogger) Info(v ...any)                  { l.Logf(InfoLevel, "", v...) }
func (l *zapLogger) Infof(format string, v ...any)  { l.Logf(InfoLevel, format, v...) }
func (l *zapLogger) Notice(v ...any)                { l.Logf(NoticeLevel, "", v...) }
func (l *zapLogger) Noticef(format string, v ...any) {
	l.Logf(NoticeLevel, format, v...)
}
func (l *zapLogger) Warn(v ...any)                  { l.Logf(WarnLevel, "", v...) }
func (l *zapLogger) Warnf(format string, v ...any)  { l.Logf(WarnLevel, format, v...) }
func (l *zapLogger) Error(v ...any)                 { l.Logf(ErrorLevel, "", v...) }
func (l *zapLogger) Errorf(format string, v ...any) { l.Logf(ErrorLevel, format, v...) }

// Fatal 输出后退出进程
func (l *zapLogger) Fatal(v ...any)                 { l.Logf(FatalLevel, "", v...) }
func (l *zapLogger) Fatalf(format string, v ...any) { l.Logf(FatalLevel, format, v...) }
