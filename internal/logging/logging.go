// Package logging builds the zap loggers used by every command.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yourusername/shopadmin/configs"
)

// New builds a logger from cfg. The returned level can be changed at runtime,
// e.g. after a configuration reload.
func New(cfg configs.LogConfig) (*zap.Logger, zap.AtomicLevel, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		return nil, level, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "text":
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	case "json", "":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, level, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	var sink zapcore.WriteSyncer
	switch cfg.Output {
	case "stdout", "":
		sink = zapcore.Lock(os.Stdout)
	case "stderr":
		sink = zapcore.Lock(os.Stderr)
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, level, fmt.Errorf("failed to open log file: %w", err)
		}
		sink = zapcore.AddSync(f)
	default:
		return nil, level, fmt.Errorf("invalid log output %q", cfg.Output)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(zapcore.Lock(os.Stderr))), level, nil
}

// ApplyLevel sets level from its textual form, leaving it unchanged when the
// text is not a level.
func ApplyLevel(level zap.AtomicLevel, text string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(text))); err != nil {
		return err
	}
	level.SetLevel(l)
	return nil
}
