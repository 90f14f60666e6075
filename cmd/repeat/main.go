package main

import (
	"errors"
	"os"

	"github.com/spf13/pflag"

	"github.com/dlowe-net/repeat/internal/config"
	"github.com/dlowe-net/repeat/internal/core"
	"github.com/dlowe-net/repeat/internal/logging"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Parse(os.Args, version, os.Stdout, os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)
	logger.Debug("resolved configuration",
		"times", cfg.Times,
		"interval", cfg.Interval.Duration(),
		"precise", cfg.Precise,
		"untilerr", cfg.StopOnError,
		"untilsuccess", cfg.StopOnSuccess,
		"noshell", cfg.Mode == config.Direct,
		"shell", cfg.Shell,
	)

	code, err := core.New(cfg, logger).Run()
	if err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
	os.Exit(code)
}
