package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/sharedrive/sharedrive/internal/config"
	"github.com/sharedrive/sharedrive/internal/db"
	"github.com/sharedrive/sharedrive/internal/resource"
	"github.com/sharedrive/sharedrive/internal/server"
	"github.com/sharedrive/sharedrive/internal/sharing"
	"github.com/sharedrive/sharedrive/internal/user"
	"golang.org/x/sync/errgroup"
)

func newLogger(conf config.Config) (*slog.Logger, error) {
	if err := os.MkdirAll(conf.LogDirectory, 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}

	logFile := filepath.Join(conf.LogDirectory, string(conf.Environment)+".log")
	file, err := os.OpenFile(
		logFile,
		os.O_RDWR|os.O_APPEND|os.O_CREATE,
		0644,
	)
	if err != nil {
		return nil, fmt.Errorf("os.OpenFile: %w", err)
	}
	var slogHandler slog.Handler
	if conf.Environment == config.EnvironmentDevelopment {
		slogHandler = slog.NewJSONHandler(
			io.MultiWriter(os.Stdout, file),
			&slog.HandlerOptions{
				Level: slog.LevelDebug,
			},
		)
	}
	if conf.Environment == config.EnvironmentProduction {
		slogHandler = slog.NewJSONHandler(
			file,
			&slog.HandlerOptions{
				Level: slog.LevelInfo,
			},
		)
	}
	logger := slog.New(slogHandler)
	slog.SetDefault(logger)
	return logger, nil
}

func main() {
	conf, err := config.ReadConfig("")
	if err != nil {
		log.Fatalf("config.ReadConfig: %v", err)
	}
	logger, err := newLogger(conf)
	if err != nil {
		log.Fatalf("newLogger: %v", err)
	}

	if err := runMain(conf, logger); err != nil {
		logger.Error("runMain", "error", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func runMain(conf config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.FromConfig(conf, logger)
	if err != nil {
		return fmt.Errorf("db.FromConfig: %w", err)
	}
	defer dbClient.Close()
	if err := dbClient.Migrate(); err != nil {
		return fmt.Errorf("dbClient.Migrate: %w", err)
	}

	mutationLock := &sync.Mutex{}
	reader := resource.NewReader(dbClient)
	resolver := sharing.NewResolver(dbClient, reader)
	propagator := sharing.NewPropagator(logger)
	userService := user.NewService(logger, dbClient)
	resourceService := resource.NewService(logger, dbClient, reader, propagator, mutationLock)
	sharingService := sharing.NewService(logger, dbClient, reader, resolver, propagator, mutationLock)

	httpServer := &http.Server{
		Addr: conf.ListenAddress,
		Handler: server.New(
			logger,
			userService,
			resourceService,
			reader,
			sharingService,
			resolver,
		).Handler(conf),
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("Starting a server", "address", conf.ListenAddress)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpServer.ListenAndServe: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Shutting down a server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("httpServer.Shutdown: %w", err)
		}
		return nil
	})
	return group.Wait()
}
