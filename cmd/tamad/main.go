package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tamaos/tamaos/internal/boot"
	"github.com/tamaos/tamaos/internal/config"
	"github.com/tamaos/tamaos/internal/logging"
	"github.com/tamaos/tamaos/internal/server"
)

func main() {
	serve := flag.Bool("serve", false, "Keep running after boot and serve the HTTP API")
	port := flag.String("port", "", "Server port (overrides PORT)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	if err := boot.Run(cfg); err != nil {
		log.Fatalf("Boot failed: %v", err)
	}

	if !*serve {
		return
	}

	logger := logging.FromConfig(cfg.Logging, cfg.Paths.Logs)
	defer logger.Sync()

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
	case err := <-errChan:
		logger.Fatal("Server error", zap.Error(err))
	}
}
