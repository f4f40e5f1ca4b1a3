package log

import (
	"context"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps a zap.Logger with context hooks.
type Logger struct {
	zap   *zap.Logger
	hooks []Hook
}

var globalLogger atomic.Pointer[Logger]

//nolint:gochecknoinits // install a usable default logger before configuration.
func init() {
	globalLogger.Store(New(Config{}))
}

// New builds a Logger from the config. Invalid levels fall back to info.
func New(config Config) *Logger {
	level := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(config.Level); err == nil && config.Level != "" {
		level = parsed
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if config.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	sink := zapcore.Lock(os.Stderr)

	core := zapcore.NewCore(encoder, sink, level)

	if config.File.Enabled && config.File.Path != "" {
		fileSink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   config.File.Path,
			MaxSize:    config.File.MaxSizeMB,
			MaxBackups: config.File.MaxBackups,
			MaxAge:     config.File.MaxAgeDays,
		})
		core = zapcore.NewTee(core, zapcore.NewCore(encoder, fileSink, level))
	}

	zl := zap.New(core, zap.AddCallerSkip(2))
	if config.Name != "" {
		zl = zl.Named(config.Name)
	}

	return &Logger{
		zap:   zl,
		hooks: []Hook{HookFunc(traceFields)},
	}
}

// SetGlobalConfig replaces the process-wide logger. Called once at startup.
func SetGlobalConfig(config Config) {
	globalLogger.Store(New(config))
}

// GetGlobalLogger returns the process-wide logger.
func GetGlobalLogger() *Logger {
	return globalLogger.Load()
}

func (l *Logger) log(ctx context.Context, level zapcore.Level, msg string, fields ...Field) {
	for _, hook := range l.hooks {
		fields = append(fields, hook.Apply(ctx, msg)...)
	}

	if ce := l.zap.Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.DebugLevel, msg, fields...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.InfoLevel, msg, fields...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.WarnLevel, msg, fields...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.ErrorLevel, msg, fields...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

func Debug(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().Debug(ctx, msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().Info(ctx, msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().Warn(ctx, msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().Error(ctx, msg, fields...)
}
