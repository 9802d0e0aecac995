package logging

import (
	"testing"

	"github.com/go-gum/archive"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	level, disabled, ok := ParseLevel(" Warning ")
	require.True(t, ok)
	require.False(t, disabled)
	require.Equal(t, zapcore.WarnLevel, level)

	_, disabled, ok = ParseLevel("off")
	require.True(t, ok)
	require.True(t, disabled)

	_, _, ok = ParseLevel("")
	require.False(t, ok)

	_, _, ok = ParseLevel("loud")
	require.False(t, ok)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogTimestamp, "false")
	t.Setenv(EnvLogNoColor, "1")

	cfg := DefaultConfig(ProfileRuntime)
	ApplyEnvOverrides(&cfg)

	require.Equal(t, Config{Level: zapcore.DebugLevel, Timestamp: false, NoColor: true}, cfg)
}

func TestInvalidEnvIsIgnored(t *testing.T) {
	t.Setenv(EnvLogLevel, "chatty")
	t.Setenv(EnvLogTimestamp, "maybe")

	cfg := DefaultConfig(ProfileTest)
	ApplyEnvOverrides(&cfg)

	require.Equal(t, DefaultConfig(ProfileTest), cfg)
}

func TestNew(t *testing.T) {
	logger := New(Config{Level: zapcore.WarnLevel})
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.True(t, logger.Core().Enabled(zapcore.ErrorLevel))

	logger = New(Config{Disabled: true})
	require.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestWithLevel(t *testing.T) {
	cfg := DefaultConfig(ProfileRuntime)

	WithLevel("warn")(&cfg)
	require.Equal(t, zapcore.WarnLevel, cfg.Level)

	WithLevel("loud")(&cfg)
	require.Equal(t, zapcore.WarnLevel, cfg.Level)

	WithLevel("off")(&cfg)
	require.True(t, cfg.Disabled)
}

func TestConfigureOnce(t *testing.T) {
	logger := ConfigureTests()
	require.NotNil(t, logger)
	require.Same(t, logger, archive.Logger())

	// later calls keep the first logger
	require.Same(t, logger, Configure(ProfileRuntime, WithLevel("error")))
	require.Same(t, logger, ConfigureRuntime())
}
