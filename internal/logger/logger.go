package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})
	With(args ...interface{}) Logger
	Sync() error
}

type Config struct {
	Level    string
	Encoding string
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New builds a zap backed logger writing to stderr. Unknown levels fall back to info.
func New(cfg Config) Logger {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Encoding == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)
	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	return &zapLogger{sugar: l.Sugar()}
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

func (l *zapLogger) Debug(args ...interface{}) { l.sugar.Debug(args...) }

func (l *zapLogger) Debugf(template string, args ...interface{}) { l.sugar.Debugf(template, args...) }

func (l *zapLogger) Info(args ...interface{}) { l.sugar.Info(args...) }

func (l *zapLogger) Infof(template string, args ...interface{}) { l.sugar.Infof(template, args...) }

func (l *zapLogger) Warn(args ...interface{}) { l.sugar.Warn(args...) }

func (l *zapLogger) Warnf(template string, args ...interface{}) { l.sugar.Warnf(template, args...) }

func (l *zapLogger) Error(args ...interface{}) { l.sugar.Error(args...) }

func (l *zapLogger) Errorf(template string, args ...interface{}) { l.sugar.Errorf(template, args...) }

func (l *zapLogger) Fatalf(template string, args ...interface{}) { l.sugar.Fatalf(template, args...) }

func (l *zapLogger) With(args ...interface{}) Logger {
	return &zapLogger{sugar: l.sugar.With(args...)}
}

func (l *zapLogger) Sync() error { return l.sugar.Sync() }
