package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"edupay/internal/amqp"
	"edupay/internal/core"
	"edupay/internal/export"
	"edupay/internal/reports"
	"edupay/internal/storage"
)

// ExportWorker refreshes the external summary tabs. It reacts to report
// sync messages from the API and also runs a periodic backstop export in
// case messages are lost.
type ExportWorker struct {
	store  storage.Store
	writer export.SummaryWriter
}

func NewExportWorker(store storage.Store, writer export.SummaryWriter) *ExportWorker {
	return &ExportWorker{
		store:  store,
		writer: writer,
	}
}

// HandleSyncMessage processes a single report sync message from AMQP
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ReportSyncMessage) error {
	slog.InfoContext(ctx, "Processing report sync message",
		"month", msg.Month,
		"reason", msg.Reason)

	if !core.ValidMonth(msg.Month) {
		// A malformed month can never become exportable; drop it instead
		// of requeueing forever.
		slog.WarnContext(ctx, "Dropping sync message with invalid month", "month", msg.Month)
		return nil
	}

	return w.ExportMonth(ctx, msg.Month)
}

// ExportMonth loads the ledger and rewrites the month's summary tab. The
// ledger is always re-read so a stale message cannot publish stale numbers.
func (w *ExportWorker) ExportMonth(ctx context.Context, month string) error {
	data, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	summary := reports.Summarize(data.Students, data.Payments, month)
	matrix := reports.BuildSheetMatrix(data.Students, data.Payments, month)

	if err := w.writer.WriteMonthlySummary(ctx, summary, matrix); err != nil {
		return fmt.Errorf("write monthly summary: %w", err)
	}

	slog.InfoContext(ctx, "Exported monthly summary",
		"month", month,
		"gross_count", summary.GrossCount(),
		"gross_amount", int64(summary.GrossAmount()))

	return nil
}

// ExportCurrentMonth is the periodic backstop: it exports the wall-clock
// month so the tab converges even if every sync message was lost.
func (w *ExportWorker) ExportCurrentMonth(ctx context.Context) error {
	return w.ExportMonth(ctx, time.Now().Format("2006-01"))
}

// RunPeriodicExport exports the current month on the given interval until
// the context is cancelled.
func (w *ExportWorker) RunPeriodicExport(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Starting periodic export", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic export", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.ExportCurrentMonth(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export failed", "error", err)
			}
		}
	}
}
