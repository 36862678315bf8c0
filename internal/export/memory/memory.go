package memory

import (
	"context"
	"sync"

	ports "edupay/internal/export"
	"edupay/internal/reports"
)

// Writer keeps exported summaries in memory, keyed by month. Used in tests
// and when the app runs without a spreadsheet configured.
type Writer struct {
	mu      sync.Mutex
	byMonth map[string]export
}

type export struct {
	summary reports.MonthlySummary
	matrix  reports.SheetMatrix
}

var _ ports.SummaryWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{byMonth: make(map[string]export)}
}

// WriteMonthlySummary stores the export, replacing any previous one for the month.
func (w *Writer) WriteMonthlySummary(_ context.Context, summary reports.MonthlySummary, matrix reports.SheetMatrix) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.byMonth[summary.Month] = export{summary: summary, matrix: matrix}
	return nil
}

// Get returns the last export written for the month.
func (w *Writer) Get(month string) (reports.MonthlySummary, reports.SheetMatrix, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.byMonth[month]
	return e.summary, e.matrix, ok
}

// Months returns the number of months written so far.
func (w *Writer) Months() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.byMonth)
}
