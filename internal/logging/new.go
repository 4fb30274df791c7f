package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// Config selects the logging backend and its minimum level.
type Config struct {
	Backend string
	Level   string
}

// New builds a Logger writing JSON lines to w (os.Stdout when nil).
// Unknown levels fall back to info; unknown backends fall back to slog.
func New(cfg Config, w io.Writer) Logger {
	if w == nil {
		w = os.Stdout
	}

	switch strings.ToLower(cfg.Backend) {
	case BackendZap:
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.TimeKey = "timestamp"
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		level := zapcore.InfoLevel
		if err := level.Set(cfg.Level); err != nil {
			level = zapcore.InfoLevel
		}

		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.Lock(zapcore.AddSync(w)),
			level,
		)
		return NewZapLogger(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)))
	default:
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level = slog.LevelInfo
		}
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
	}
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() Logger {
	return NewZapLogger(zap.NewNop())
}
