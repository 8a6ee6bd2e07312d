package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/erikmagkekse/dshare/model"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	level := zerolog.InfoLevel
	if l := os.Getenv("LOG_LEVEL"); l != "" {
		if parsed, err := zerolog.ParseLevel(l); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	cfg, err := env.ParseAs[model.Config]()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := newApp(&cfg)
	err = app.command().Run(ctx, dispatchArgs(os.Args))

	if cfg.MetricsTextfile != "" {
		if werr := prometheus.WriteToTextfile(cfg.MetricsTextfile, prometheus.DefaultGatherer); werr != nil {
			log.Warn().Err(werr).Str("path", cfg.MetricsTextfile).Msg("failed to write metrics textfile")
		}
	}

	if err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// dispatchArgs maps the dshare-server and dshare-client entry points onto
// the matching subcommand, so both can be symlinks to one binary.
func dispatchArgs(args []string) []string {
	if len(args) == 0 {
		return []string{model.AppName}
	}
	switch filepath.Base(args[0]) {
	case model.AppName + "-server":
		return append([]string{model.AppName, "server"}, args[1:]...)
	case model.AppName + "-client":
		return append([]string{model.AppName, "client"}, args[1:]...)
	}
	return args
}

func usageError(format string, a ...any) error {
	return model.Invalid(fmt.Sprintf(format, a...))
}
