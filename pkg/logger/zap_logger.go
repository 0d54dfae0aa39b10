package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how verbosely the therapist logs.
type Options struct {
	// Dir is the directory holding furby.log. Empty disables the file core.
	Dir string
	// Level is the minimum level written to the log file.
	Level string
	// Console enables the stderr core (warnings and above only).
	Console bool
}

// FileName is the rotated log file written inside Options.Dir.
const FileName = "furby.log"

// DefaultDir returns ~/.furby_therapist/logs, or a relative fallback when the
// home directory cannot be resolved.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".furby_therapist", "logs")
	}
	return filepath.Join(home, ".furby_therapist", "logs")
}

// New builds a zap logger that tees a rotated JSON file core with a quiet
// console core. The console only sees warnings so it never interrupts the
// conversation on stdout.
func New(opts Options) (*zap.Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var cores []zapcore.Core

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir %s: %w", opts.Dir, err)
		}

		// 1. Rotation
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, FileName),
			MaxSize:    10, // Megabytes
			MaxBackups: 5,
			MaxAge:     30, // Days
			Compress:   true,
		}

		// 2. JSON encoder
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.MessageKey = "message"
		encoderConfig.LevelKey = "level"
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(rotator),
			level,
		))
	}

	if opts.Console {
		consoleConfig := zap.NewDevelopmentEncoderConfig()
		consoleConfig.TimeKey = ""
		consoleConfig.CallerKey = ""
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleConfig),
			zapcore.Lock(os.Stderr),
			zap.WarnLevel,
		))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// NewNop returns a logger that discards everything. Used by tests and by the
// stateless library entry point when the caller brings no logger.
func NewNop() *zap.Logger {
	return zap.NewNop()
}

func parseLevel(raw string) (zapcore.Level, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return zap.DebugLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(raw))); err != nil {
		return zap.DebugLevel, fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	return level, nil
}
