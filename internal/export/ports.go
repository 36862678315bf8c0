package export

import (
	"context"

	"edupay/internal/reports"
)

// Ports for outbound adapters.
type (
	// SummaryWriter publishes one month's summary and sheet matrix to an
	// external report surface.
	SummaryWriter interface {
		WriteMonthlySummary(ctx context.Context, summary reports.MonthlySummary, matrix reports.SheetMatrix) error
	}
)
