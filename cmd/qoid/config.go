package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the qoid configuration file (~/.config/qoid/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Decoding
	Strict       *bool   `yaml:"strict"`
	VerifyMagic  *bool   `yaml:"verify_magic"`
	MaxPixels    *uint64 `yaml:"max_pixels"`
	OutputFormat string  `yaml:"output_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
	MaxBodyBytes  *int64 `yaml:"max_body_bytes"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "qoid", "config.yaml")
}

// LoadConfig reads the config file at path. A missing file yields a zero
// Config and no error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyLogConfig applies config file defaults to the logging flags when the
// corresponding flag was not explicitly set.
func applyLogConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

func applyDecodeConfig(c *cli.Command, cfg Config) {
	if cfg.Strict != nil && !c.IsSet("strict") {
		strict = *cfg.Strict
	}
	if cfg.VerifyMagic != nil && !c.IsSet("verify-magic") {
		verifyMagic = *cfg.VerifyMagic
	}
	if cfg.MaxPixels != nil && !c.IsSet("max-pixels") {
		maxPixels = *cfg.MaxPixels
	}
}

// applyOutputConfig returns the configured output format unless --format
// was given.
func applyOutputConfig(c *cli.Command, cfg Config, format *string) {
	if cfg.OutputFormat != "" && !c.IsSet("format") {
		*format = cfg.OutputFormat
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string, maxBody *int64) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.MaxBodyBytes != nil && !c.IsSet("max-body") {
		*maxBody = *cfg.MaxBodyBytes
	}
}
