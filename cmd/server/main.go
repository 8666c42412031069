package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Heidric/hmacsign/internal/cfg"
	"github.com/Heidric/hmacsign/internal/logger"
	"github.com/Heidric/hmacsign/internal/server"
	"github.com/Heidric/hmacsign/internal/services"
)

// loadConfig reads the environment and lets command-line flags override it.
func loadConfig() (*cfg.Config, error) {
	config, err := cfg.NewConfig()
	if err != nil {
		return nil, err
	}

	flag.StringVar(&config.ServerAddress, "a", config.ServerAddress, "HTTP server endpoint address")
	flag.StringVar(&config.Key, "k", config.Key, "HMAC key used for /sign and response signatures")
	flag.Parse()

	return config, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runner, ctx := errgroup.WithContext(ctx)

	config, err := loadConfig()
	if err != nil {
		log.Fatal(err, "Load config")
	}

	logger, err := logger.Initialize(config.Logger, os.Stderr)
	if err != nil {
		log.Fatal(err, "Init logger")
	}
	ctx = logger.WithContext(ctx)

	signer := services.NewSignService(config.Key)
	if !signer.HasKey() {
		logger.Zerolog().Warn().Msg("KEY is empty, responses are not signed")
	}

	server := server.NewServer(config.ServerAddress, config.Key, signer, logger.Zerolog())
	server.Run(ctx, runner)

	runner.Go(func() error {
		<-ctx.Done()
		return server.Shutdown(ctx)
	})

	if err := runner.Wait(); err != nil {
		logger.Zerolog().Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}
