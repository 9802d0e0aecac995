package main

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/go-gum/archive/internal/asset"
	"github.com/go-gum/archive/internal/logging"
	"go.uber.org/zap"
)

// assetpack.toml key mapping to the pack options.
type fileConfig struct {
	Format   string `toml:"format"`
	Compress bool   `toml:"compress"`
	Strict   bool   `toml:"strict"`
	LogLevel string `toml:"log_level"`
}

type config struct {
	Options  asset.Options
	LogLevel string
}

func defaultConfig() config {
	return config{
		Options:  asset.Options{Format: asset.FormatBinary},
		LogLevel: "info",
	}
}

// loadConfig reads path and overlays the keys it defines on the defaults.
// An empty path returns the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, errors.Wrap(err, "load assetpack config")
	}

	if meta.IsDefined("format") {
		cfg.Options.Format = asset.Format(strings.ToLower(strings.TrimSpace(raw.Format)))
	}
	if meta.IsDefined("compress") {
		cfg.Options.Compress = raw.Compress
	}
	if meta.IsDefined("strict") {
		cfg.Options.Strict = raw.Strict
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if err := cfg.validate(); err != nil {
		return config{}, errors.Wrapf(err, "config %q", path)
	}

	return cfg, nil
}

func (c config) validate() error {
	if err := c.Options.Format.Validate(); err != nil {
		return err
	}

	if _, _, ok := logging.ParseLevel(c.LogLevel); !ok {
		return errors.Newf("invalid log_level %q", c.LogLevel)
	}

	return nil
}

// logger installs the command logger. The environment overrides the configured level.
func (c config) logger() *zap.Logger {
	return logging.ConfigureRuntime(logging.WithLevel(c.LogLevel))
}
