package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"liquiledger/internal/amqp"
	"liquiledger/internal/cli"
	"liquiledger/internal/engine"
	apphttp "liquiledger/internal/http"
	"liquiledger/internal/store"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	gateway, result := cli.InitGateway(logger, cfg)
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Store cleanup error", "error", err)
		}
	}()

	// AMQP is optional; without it entries are still saved locally, the
	// export worker just never hears about changes.
	var publisher engine.ChangePublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Change events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Change events disabled - no AMQP_URL provided")
	}

	eng := engine.New(gateway, publisher)

	// A corrupt data file must not keep the application from starting:
	// surface the error and begin with an empty ledger.
	snap, err := eng.Restore(context.Background())
	if err != nil {
		if errors.Is(err, store.ErrCorruptData) {
			logger.Warn("Stored ledger data is corrupt, starting empty", "error", err)
		} else {
			logger.Error("Failed to restore ledger", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Info("Ledger restored", "entries", snap.EntryCount(), "months", len(snap.Buckets))
	}

	srv := apphttp.NewServer(":"+cfg.Port, eng)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting liquiledger server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
