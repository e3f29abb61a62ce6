// Package config provides configuration loading for the zcstring command.
package config

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/rawbytedev/zcstring/pkg/zcjson"
	"github.com/rawbytedev/zcstring/pkg/zcwire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the settings of the zcstring command.
type Config struct {
	Log    LogConfig    `koanf:"log"`
	Decode DecodeConfig `koanf:"decode"`
	Wire   WireConfig   `koanf:"wire"`
}

// LogConfig controls the command's logger.
type LogConfig struct {
	Level  zapcore.Level `koanf:"level"`
	Format string        `koanf:"format"` // "console" or "json"
}

// DecodeConfig controls JSON decoding.
type DecodeConfig struct {
	CopyStrings bool `koanf:"copy_strings"`
}

// WireConfig controls frame encoding.
type WireConfig struct {
	Compress bool   `koanf:"compress"`
	Level    string `koanf:"level"` // zstd level: fastest, default, better, best
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Wire.Level == "" {
		cfg.Wire.Level = "default"
	}
}

// Validate checks the configuration for values no component accepts.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q (must be console or json)", c.Log.Format)
	}
	if c.Log.Level < zapcore.DebugLevel || c.Log.Level > zapcore.FatalLevel {
		return fmt.Errorf("invalid log level %d", c.Log.Level)
	}
	if ok, _ := zstd.EncoderLevelFromString(c.Wire.Level); !ok {
		return fmt.Errorf("invalid wire level %q (must be fastest, default, better or best)", c.Wire.Level)
	}
	return nil
}

// DecoderOptions returns the zcjson options described by c.
func (c *Config) DecoderOptions(log *zap.Logger) zcjson.Options {
	return zcjson.Options{CopyStrings: c.Decode.CopyStrings, Logger: log}
}

// EncoderOptions returns the zcwire options described by c.
func (c *Config) EncoderOptions() zcwire.Options {
	_, level := zstd.EncoderLevelFromString(c.Wire.Level)
	return zcwire.Options{Compress: c.Wire.Compress, Level: level}
}

// NewLogger builds the zap logger described by c.
func (c *Config) NewLogger() (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if c.Log.Format == "json" {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(c.Log.Level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
