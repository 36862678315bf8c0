package worker

import (
	"context"
	"testing"

	"edupay/internal/amqp"
	"edupay/internal/core"
	exportmem "edupay/internal/export/memory"
	"edupay/internal/storage"
)

func seededStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore()
	data := core.DefaultData()
	data.Students = []core.Student{
		{ID: "s1", EnglishName: "Aung Aung", BurmeseName: "—", ParentPhone: "09-111",
			JoinDate: "2024-01-10", Category: core.KET1, DayType: core.Weekday, IsActive: true},
	}
	data.Payments = []core.Payment{
		{ID: "p1", StudentID: "s1", Month: "2024-03", Date: "2024-03-05",
			Amount: 70000, Method: core.Cash, SheetNo: 2},
	}
	if err := store.Save(context.Background(), data); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

func TestHandleSyncMessage(t *testing.T) {
	store := seededStore(t)
	writer := exportmem.New()
	w := NewExportWorker(store, writer)

	msg := amqp.NewReportSyncMessage("2024-03", "payment recorded")
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncMessage() error = %v", err)
	}

	summary, matrix, ok := writer.Get("2024-03")
	if !ok {
		t.Fatal("expected export for 2024-03")
	}
	if summary.Cash.Counts[core.BucketKET] != 1 {
		t.Fatalf("cash KET count = %d, want 1", summary.Cash.Counts[core.BucketKET])
	}
	if got := matrix.RowTotal(2); got.Count != 1 || got.Amount != 70000 {
		t.Fatalf("matrix row 2 = %+v, want count 1 amount 70000", got)
	}
}

func TestHandleSyncMessage_InvalidMonthDropped(t *testing.T) {
	store := seededStore(t)
	writer := exportmem.New()
	w := NewExportWorker(store, writer)

	msg := amqp.NewReportSyncMessage("March 2024", "bad producer")
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncMessage() should drop invalid month without error, got %v", err)
	}
	if writer.Months() != 0 {
		t.Fatalf("Months = %d, want 0 for dropped message", writer.Months())
	}
}

func TestExportMonth_EmptyMonth(t *testing.T) {
	store := seededStore(t)
	writer := exportmem.New()
	w := NewExportWorker(store, writer)

	if err := w.ExportMonth(context.Background(), "2024-06"); err != nil {
		t.Fatalf("ExportMonth() error = %v", err)
	}

	summary, _, ok := writer.Get("2024-06")
	if !ok {
		t.Fatal("expected export for empty month")
	}
	if summary.GrossCount() != 0 || summary.GrossAmount() != 0 {
		t.Fatalf("empty month totals = %d/%d, want 0/0", summary.GrossCount(), summary.GrossAmount())
	}
}
