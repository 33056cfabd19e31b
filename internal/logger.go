package internal

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging capability handed to every hook.
type Logger interface {
	Log(text string)
	Error(text string)
}

// ZapLogger adapts a zap logger to the hook Logger interface.
type ZapLogger struct {
	log *zap.Logger
}

func NewZapLogger(log *zap.Logger) *ZapLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapLogger{log: log}
}

// Named returns a child logger scoped to a hook phase.
func (l *ZapLogger) Named(phase Phase) *ZapLogger {
	return &ZapLogger{log: l.log.Named(string(phase))}
}

func (l *ZapLogger) Log(text string) {
	l.log.Info(text)
}

func (l *ZapLogger) Error(text string) {
	l.log.Error(text)
}

// Zap exposes the underlying logger for structured fields.
func (l *ZapLogger) Zap() *zap.Logger {
	return l.log
}

// NewCLILogger builds the logger used by the relhooks binary. Hook output
// goes to w so stdout stays free for command results.
func NewCLILogger(w io.Writer, jsonOutput, verbose bool) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var enc zapcore.Encoder = zapcore.NewConsoleEncoder(encCfg)
	if jsonOutput {
		jsonCfg := zap.NewProductionEncoderConfig()
		jsonCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(jsonCfg)
	}

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}
