package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"edupay/internal/amqp"
	"edupay/internal/cli"
	apphttp "edupay/internal/http"
	"edupay/internal/insights"
	applog "edupay/internal/log"
	"edupay/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger()

	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()

	store := cli.OpenStore(ctx, logger, cfg)

	// AMQP publishing is optional: without a broker the server still
	// serves reads and writes, it just cannot trigger sheet exports.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to connect to AMQP, export notifications disabled", "error", err)
			amqpClient = nil
		} else {
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	ledger, err := services.NewLedgerService(ctx, store, amqpClient)
	if err != nil {
		logger.Error("Failed to load ledger document", "error", err, "backend", cfg.StorageBackend)
		os.Exit(1)
	}

	// Gemini insights are optional too; without an API key the insight
	// endpoints answer 503.
	var ai *insights.Client
	if cfg.GeminiAPIKey != "" {
		ai = insights.NewClient(insights.Config{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
		logger.Info("Gemini client initialized", "model", cfg.GeminiModel)
	} else {
		logger.Info("Gemini insights disabled - no GEMINI_API_KEY provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, ledger, ai, applog.New(applog.DefaultConfig()))

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := ledger.Close(); err != nil {
			logger.Error("Ledger close error", "error", err)
		}
	})

	logger.Info("Starting edupay server",
		"port", cfg.Port, "backend", cfg.StorageBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
