package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/colibri-io/colibri/pkg/colibri"
)

func main() {
	var cfg colibri.Config
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	app, err := colibri.New(cfg, logger, prometheus.DefaultRegisterer)
	if err != nil {
		level.Error(logger).Log("msg", "initialising colibri", "err", err)
		os.Exit(1)
	}

	level.Info(logger).Log("msg", "starting colibri", "target", cfg.Target)
	if err := app.Run(); err != nil {
		level.Error(logger).Log("msg", "running colibri", "err", err)
		os.Exit(1)
	}
}
