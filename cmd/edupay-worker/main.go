package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"edupay/internal/amqp"
	"edupay/internal/cli"
	"edupay/internal/export"
	gsheet "edupay/internal/export/google"
	mem "edupay/internal/export/memory"
	"edupay/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger()

	logger.Info("Starting edupay-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := cli.OpenStore(ctx, logger, cfg)
	defer store.Close()

	// Write to the configured spreadsheet, or keep exports in memory when
	// no spreadsheet is set so the worker can run against a local broker.
	var writer export.SummaryWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.SummarySheetBase)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		writer = mem.New()
		logger.Info("Google Sheets disabled - exports kept in memory")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(store, writer)

	// On startup, export the current month so a fresh worker catches up
	// with anything published while it was down.
	if err := exportWorker.ExportCurrentMonth(ctx); err != nil {
		logger.Error("Startup export failed", "error", err)
		// Don't exit - continue with normal operation
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeReportSync(gctx, func(msg *amqp.ReportSyncMessage) error {
			return exportWorker.HandleSyncMessage(gctx, msg)
		})
	})

	g.Go(func() error {
		return exportWorker.RunPeriodicExport(gctx, cfg.ExportInterval)
	})

	logger.Info("Worker running",
		"queue", cfg.AMQPQueue, "export_interval", cfg.ExportInterval.String())

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
