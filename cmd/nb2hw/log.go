package main

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger returns a console logger writing to w. Timestamps are left out
// since the output is read by a person watching the run.
func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

// logLevel maps --quiet and --verbose to a level. Quiet wins.
func logLevel(f commonFlags) zapcore.Level {
	switch {
	case f.quiet:
		return zapcore.ErrorLevel
	case f.verbose:
		return zapcore.DebugLevel
	default:
		return zapcore.WarnLevel
	}
}
