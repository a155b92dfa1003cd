// Package logger wires go.uber.org/zap for mofcheck.
//
// Libraries never reach for a global: every constructor that logs accepts a
// *zap.Logger through an option and defaults to zap.NewNop(). The global in
// this package exists for the CLI and batch runner only.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process logger used by the CLI. It starts as a no-op so
// calls before Init are safe.
var Logger = zap.NewNop()

// New builds a logger for env ("production" → JSON at Info, anything else →
// console at Debug). level, when non-empty, overrides the default level.
func New(env, level string) (*zap.Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// stdout carries the descriptor JSON
	config.OutputPaths = []string{"stderr"}

	return config.Build()
}

// Init replaces the global Logger.
func Init(env, level string) error {
	l, err := New(env, level)
	if err != nil {
		return err
	}
	Logger = l
	return nil
}

// Component returns a named child of the global logger.
func Component(name string) *zap.Logger {
	return Logger.Named(name)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Logger.Sync()
}
