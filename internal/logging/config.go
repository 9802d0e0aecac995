package logging

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/go-gum/archive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EnvLogLevel     = "ASSETPACK_LOG_LEVEL"
	EnvLogTimestamp = "ASSETPACK_LOG_TIMESTAMP"
	EnvLogNoColor   = "ASSETPACK_LOG_NOCOLOR"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

type Config struct {
	Level     zapcore.Level
	Timestamp bool
	NoColor   bool
	Disabled  bool
}

// Option adjusts the profile defaults before the environment overrides apply.
type Option func(*Config)

// WithLevel sets the level from a level name. Unknown names are ignored.
func WithLevel(raw string) Option {
	return func(cfg *Config) {
		if lvl, disabled, ok := ParseLevel(raw); ok {
			cfg.Level = lvl
			cfg.Disabled = disabled
		}
	}
}

var (
	configureOnce sync.Once
	configured    *zap.Logger
)

func ConfigureRuntime(opts ...Option) *zap.Logger {
	return Configure(ProfileRuntime, opts...)
}

func ConfigureTests() *zap.Logger {
	return Configure(ProfileTest)
}

// Configure installs a logger for the profile as the logger of the archive
// packages and returns it. Only the first call has an effect, later calls
// return the logger installed by the first one.
func Configure(profile Profile, opts ...Option) *zap.Logger {
	configureOnce.Do(func() {
		cfg := DefaultConfig(profile)
		for _, opt := range opts {
			opt(&cfg)
		}

		ApplyEnvOverrides(&cfg)

		configured = New(cfg)
		archive.SetLogger(configured)
	})

	return configured
}

func DefaultConfig(profile Profile) Config {
	switch profile {
	case ProfileTest:
		return Config{Level: zapcore.DebugLevel, Timestamp: false}
	default:
		return Config{Level: zapcore.InfoLevel, Timestamp: true}
	}
}

func ApplyEnvOverrides(cfg *Config) {
	if lvl, disabled, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
		cfg.Disabled = disabled
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

// New builds a console logger writing to stderr.
func New(cfg Config) *zap.Logger {
	if cfg.Disabled {
		return zap.NewNop()
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if cfg.NoColor {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	if !cfg.Timestamp {
		encoderConfig.TimeKey = zapcore.OmitKey
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		cfg.Level,
	)

	return zap.New(core)
}

// ParseLevel parses a level name. disabled reports a name that turns logging off.
func ParseLevel(raw string) (level zapcore.Level, disabled bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zapcore.InfoLevel, false, false
	case "debug", "trace":
		return zapcore.DebugLevel, false, true
	case "info":
		return zapcore.InfoLevel, false, true
	case "warn", "warning":
		return zapcore.WarnLevel, false, true
	case "error":
		return zapcore.ErrorLevel, false, true
	case "disabled", "disable", "off", "none":
		return zapcore.InfoLevel, true, true
	default:
		return zapcore.InfoLevel, false, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
