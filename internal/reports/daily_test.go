package reports

import (
	"testing"

	"edupay/internal/core"
)

func TestDailyCashSheet(t *testing.T) {
	students := []core.Student{
		student("s1", "Aung", core.Starters1, core.Weekend, true),
		student("s2", "Bo", core.Starters2, core.Weekend, true),
		student("s3", "Chit", core.KET1, core.Weekday, true),
	}
	payments := []core.Payment{
		payment("p1", "s1", "2024-03-05", 65000, core.Cash, 3),
		payment("p2", "s2", "2024-03-05", 60000, core.Cash, 3), // discounted: recorded amount wins
		payment("p3", "s3", "2024-03-05", 70000, core.Cash, 4), // other sheet
		payment("p4", "s1", "2024-03-06", 65000, core.Cash, 3), // other day
		payment("p5", "s2", "2024-03-05", 65000, core.KPay, 3), // not cash
	}

	sheet := DailyCashSheet(students, payments, "2024-03-05", 3)
	if sheet.TotalStudents != 2 {
		t.Fatalf("TotalStudents = %d, want 2", sheet.TotalStudents)
	}
	if sheet.TotalCash != 125000 {
		t.Fatalf("TotalCash = %d, want 125000", sheet.TotalCash)
	}
	if cell := sheet.ByLevel[core.Starters2]; cell.Count != 1 || cell.Cash != 60000 {
		t.Fatalf("Starters 2 cell = %+v", cell)
	}

	combined := sheet.Combined("Starters")
	if combined.Count != 2 || combined.Cash != 125000 {
		t.Fatalf("combined Starters = %+v", combined)
	}
}

func TestDailyCashSheetSkipsDanglingFromBuckets(t *testing.T) {
	payments := []core.Payment{
		payment("p1", "ghost", "2024-03-05", 65000, core.Cash, 1),
	}
	sheet := DailyCashSheet(nil, payments, "2024-03-05", 1)
	// Day totals still include the payment; no bucket does.
	if sheet.TotalStudents != 1 || sheet.TotalCash != 65000 {
		t.Fatalf("totals = %d / %d", sheet.TotalStudents, sheet.TotalCash)
	}
	for l, cell := range sheet.ByLevel {
		if cell.Count != 0 || cell.Cash != 0 {
			t.Fatalf("bucket %q unexpectedly tallied: %+v", l, cell)
		}
	}
}

func TestCombinedFamiliesExcludePrefixCousins(t *testing.T) {
	students := []core.Student{
		student("s1", "A", core.Flyers1, core.Weekday, true),
		student("s2", "B", core.PreFlyers, core.Weekday, true),
	}
	payments := []core.Payment{
		payment("p1", "s1", "2024-03-05", 65000, core.Cash, 1),
		payment("p2", "s2", "2024-03-05", 65000, core.Cash, 1),
	}
	sheet := DailyCashSheet(students, payments, "2024-03-05", 1)

	// "Flyers" family must not swallow "Pre-flyers".
	fly := sheet.Combined("Flyers")
	if fly.Count != 1 || fly.Cash != 65000 {
		t.Fatalf("Flyers family = %+v", fly)
	}
	pre := sheet.Combined("Pre-flyers")
	if pre.Count != 1 {
		t.Fatalf("Pre-flyers family = %+v", pre)
	}
}

func TestDailyKPayList(t *testing.T) {
	students := []core.Student{
		student("s1", "Aung", core.KET2, core.Weekday, true),
	}
	weekendPay := payment("p2", "s1", "2024-03-05", 70000, core.KPay, 1)
	weekendPay.DayType = core.Weekend // snapshot differs from the student's current day type
	payments := []core.Payment{
		payment("p1", "s1", "2024-03-05", 70000, core.KPay, 7),
		weekendPay,
		payment("p3", "s1", "2024-03-05", 70000, core.Cash, 1), // cash excluded
	}

	list := DailyKPayList(students, payments, "2024-03-05")
	if list.Count != 2 || list.TotalAmount != 140000 {
		t.Fatalf("count=%d total=%d", list.Count, list.TotalAmount)
	}
	if list.Rows[0].Schedule != "WD" || list.Rows[1].Schedule != "WE" {
		t.Fatalf("schedule codes must come from the payment snapshot: %+v", list.Rows)
	}
	if list.Rows[0].Name != "Aung" || list.Rows[0].Class != "KET-2" {
		t.Fatalf("row join: %+v", list.Rows[0])
	}
}

func TestDailyKPayListDanglingReference(t *testing.T) {
	payments := []core.Payment{
		payment("p1", "deleted-student", "2024-03-05", 70000, core.KPay, 1),
	}
	list := DailyKPayList(nil, payments, "2024-03-05")
	if list.Count != 1 {
		t.Fatalf("count = %d", list.Count)
	}
	row := list.Rows[0]
	if row.Name != "Unknown" || row.Class != "N/A" {
		t.Fatalf("placeholders not applied: %+v", row)
	}
}

func TestDailyHistorySortedByName(t *testing.T) {
	students := []core.Student{
		student("s1", "Zaw", core.PET, core.Weekday, true),
		student("s2", "aung", core.KET1, core.Weekday, true),
	}
	payments := []core.Payment{
		payment("p1", "s1", "2024-03-05", 70000, core.Cash, 1),
		payment("p2", "s2", "2024-03-05", 70000, core.KPay, 1),
		payment("p3", "s1", "2024-03-06", 70000, core.Cash, 1),
	}
	rows := DailyHistory(students, payments, "2024-03-05")
	if len(rows) != 2 {
		t.Fatalf("len = %d", len(rows))
	}
	if rows[0].StudentName != "aung" || rows[1].StudentName != "Zaw" {
		t.Fatalf("sort is not case-insensitive: %+v", rows)
	}
	if rows[1].Payment.Method != core.Cash || rows[1].Payment.SheetNo != 1 {
		t.Fatalf("projection lost payment fields: %+v", rows[1].Payment)
	}
}
