package storage

import (
	"context"
	"reflect"
	"testing"

	"edupay/internal/core"
)

func TestMemoryStoreLoadBeforeSave(t *testing.T) {
	s := NewMemoryStore()
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, core.DefaultData()) {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data := core.DefaultData()
	data.Students = append(data.Students, core.Student{
		ID: "s1", EnglishName: "Aung", ParentPhone: "09",
		Category: core.KET1, DayType: core.Weekday, IsActive: true,
	})
	data.Payments = append(data.Payments, core.Payment{
		ID: "p1", StudentID: "s1", Month: "2024-03", Date: "2024-03-05",
		Amount: 70000, Method: core.Cash, DayType: core.Weekday, SheetNo: 1,
	})
	data.SheetNo = 4

	if err := s.Save(ctx, data); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, data) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, data)
	}

	// The store must not alias the caller's slices.
	data.Students[0].EnglishName = "Changed"
	got2, _ := s.Load(ctx)
	if got2.Students[0].EnglishName != "Aung" {
		t.Fatalf("store aliases caller memory")
	}
}

func TestDecodeDocumentMergesOntoDefaults(t *testing.T) {
	ctx := context.Background()

	// Document written before sheetNo existed.
	got := decodeDocument(ctx, []byte(`{"students":[],"payments":[]}`))
	if got.SheetNo != core.MinSheetNo {
		t.Fatalf("sheetNo default not applied: %d", got.SheetNo)
	}

	// Missing collections come back empty, not nil.
	got = decodeDocument(ctx, []byte(`{"sheetNo":5}`))
	if got.Students == nil || got.Payments == nil || got.SheetNo != 5 {
		t.Fatalf("merge broken: %+v", got)
	}
}

func TestDecodeDocumentCorruptFallsBack(t *testing.T) {
	got := decodeDocument(context.Background(), []byte(`{"students": [`))
	if !reflect.DeepEqual(got, core.DefaultData()) {
		t.Fatalf("corrupt input must yield defaults, got %+v", got)
	}
}
