package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/qoid/internal/logger"
	"github.com/samcharles93/qoid/pkg/qoi"
)

var (
	configFile  string
	logLevel    string
	logFormat   string
	debug       bool
	strict      bool
	verifyMagic bool
	maxPixels   uint64

	// loadedConfig is read once in setup and consulted by each command.
	loadedConfig Config
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml",
			Sources:     cli.EnvVars("QOID_CONFIG"),
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func decodeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "strict",
			Usage:       "require exactly width*height pixels and non-zero dimensions",
			Destination: &strict,
		},
		&cli.BoolFlag{
			Name:        "verify-magic",
			Usage:       "reject streams whose magic is not \"qoif\"",
			Destination: &verifyMagic,
		},
		&cli.Uint64Flag{
			Name:        "max-pixels",
			Usage:       "reject images with more pixels (0 = no limit)",
			Destination: &maxPixels,
		},
	}
}

// setup loads the config file and installs the logger in the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := configFile
	if path == "" {
		path = configPath()
	}
	cfg, cfgErr := LoadConfig(path)
	loadedConfig = cfg
	applyLogConfig(cmd, cfg)

	level := logLevel
	if debug {
		level = "debug"
	}
	log := logger.Setup(os.Stderr, logFormat, level)
	if cfgErr != nil {
		log.Warn("ignoring config file", "path", path, "error", cfgErr)
	}
	return logger.WithContext(ctx, log), nil
}

// decodeOptions resolves decoder options from flags and the config file.
func decodeOptions(cmd *cli.Command) qoi.Options {
	applyDecodeConfig(cmd, loadedConfig)
	return qoi.Options{
		VerifyMagic: verifyMagic,
		Strict:      strict,
		MaxPixels:   maxPixels,
	}
}
