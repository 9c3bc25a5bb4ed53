// Package dlogger exposes a simple zap logger, with log levels
package dlogger

import (
	"io"
	"os"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LogLevelInfo sets the log level to info
	LogLevelInfo = "info"

	// LogLevelDebug sets the log level to debug
	LogLevelDebug = "debug"

	// LogLevelNone sets logger to no logging
	LogLevelNone = "none"
)

// GetLogger returns a console logger with the specified level, writing to stderr
// so that standard output only carries command results
func GetLogger(logLevel string) (*zap.Logger, error) {
	return NewCombinedLogger(logLevel, os.Stderr, nil)
}

// NewCombinedLogger returns a zap logger writing human-readable lines to console
// and JSON records to file, both filtered at the specified level.
//
// Either writer may be nil. Every record carries a "run" field identifying this logger.
func NewCombinedLogger(logLevel string, console, file io.Writer) (*zap.Logger, error) {
	if logLevel == LogLevelNone {
		return zap.NewNop(), nil
	}
	lvl, err := parseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	enabler := zap.NewAtomicLevelAt(lvl)

	cores := make([]zapcore.Core, 0, 2)
	if console != nil {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderConfig()),
			zapcore.Lock(zapcore.AddSync(console)),
			enabler,
		))
	}
	if file != nil {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileEncoderConfig()),
			zapcore.AddSync(file),
			enabler,
		))
	}
	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	return zap.New(zapcore.NewTee(cores...)).With(zap.String("run", ksuid.New().String())), nil
}

func parseLevel(logLevel string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		return lvl, err
	}
	return lvl, nil
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.CallerKey = zapcore.OmitKey
	return cfg
}

func fileEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}
