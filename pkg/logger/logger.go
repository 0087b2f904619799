package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON production logger when production is set and a
// human-readable development logger otherwise.
func New(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

// Must is New that falls back to a no-op logger instead of failing
func Must(production bool) *zap.Logger {
	l, err := New(production)
	if err != nil {
		return zap.NewNop()
	}
	return l
}
