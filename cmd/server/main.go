package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/classic-cipher-go/internal/config"
	"github.com/classic-cipher-go/internal/restart"
	"github.com/classic-cipher-go/internal/server"
)

func main() {
	// Load configuration first
	cfg := config.Load()

	// Setup logging based on config
	setupLogging(cfg)

	log.Info().
		Str("version", config.Version).
		Str("http_addr", cfg.GetHTTPAddr()).
		Bool("h2c", cfg.Scheme.EnableH2C).
		Bool("https", cfg.IsHTTPSEnabled()).
		Bool("mysql_mirror", cfg.IsMirrorEnabled()).
		Msg("Starting classic-cipher server")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// The server is rebuilt when a saved scheme change requests a
	// restart, so new listeners come up on the new ports.
	for {
		srv, err := server.New(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create server")
		}

		restartChan := make(chan struct{})
		restart.SetChan(restartChan)

		errChan := make(chan error, 1)
		go func() { errChan <- srv.Start() }()

		select {
		case err := <-errChan:
			if err != nil {
				log.Fatal().Err(err).Msg("Server error")
			}
			return
		case <-sigChan:
			log.Info().Msg("Received shutdown signal")
			shutdown(srv)
			return
		case <-restartChan:
			log.Info().Msg("Restart requested, rebuilding server")
			shutdown(srv)
		}
	}
}

func shutdown(srv *server.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}
}

func setupLogging(cfg *config.Config) {
	// Set time format
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Set log level
	switch cfg.Log.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Set output destination
	var out io.Writer = os.Stdout
	switch cfg.Log.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Log.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.Log.Output).Msg("Failed to open log file, using stdout")
		} else {
			out = f
		}
	}

	// Set output format
	if cfg.Log.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		})
	} else {
		log.Logger = log.Output(out)
	}
}
