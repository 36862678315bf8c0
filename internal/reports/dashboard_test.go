package reports

import (
	"testing"

	"edupay/internal/core"
)

func TestBuildDashboard(t *testing.T) {
	students := []core.Student{
		student("s1", "A", core.KET1, core.Weekday, true),
		student("s2", "B", core.Movers, core.Weekday, true),
		student("s3", "C", core.Math1, core.Weekend, true),
		student("s4", "D", core.FCE, core.Weekend, false), // inactive, excluded
	}
	payments := []core.Payment{
		payment("p1", "s1", "2024-03-01", 70000, core.Cash, 1),
		payment("p2", "s1", "2024-03-15", 70000, core.KPay, 1), // same student twice: one paid head
		payment("p3", "s3", "2024-03-02", 55000, core.KPay, 1),
	}

	d := BuildDashboard(students, payments, "2024-03")
	if d.ActiveStudents != 3 || d.WeekdayStudents != 2 || d.WeekendStudents != 1 {
		t.Fatalf("headcounts: %+v", d)
	}
	if d.PaidStudents != 2 || d.UnpaidStudents != 1 {
		t.Fatalf("paid/unpaid: %+v", d)
	}
	if d.WeekdayPaid != 1 || d.WeekendPaid != 1 || d.WeekdayUnpaid != 1 || d.WeekendUnpaid != 0 {
		t.Fatalf("day splits: %+v", d)
	}
	if d.PaidRate != 67 || d.UnpaidRate != 33 {
		t.Fatalf("rates: paid=%d unpaid=%d", d.PaidRate, d.UnpaidRate)
	}
	if d.WeekendPaidRate != 100 || d.WeekdayPaidRate != 50 {
		t.Fatalf("day rates: %+v", d)
	}
	if d.CashCount != 1 || d.KPayCount != 2 || d.TotalCollected != 195000 {
		t.Fatalf("method split: %+v", d)
	}
}

func TestBuildDashboardEmpty(t *testing.T) {
	d := BuildDashboard(nil, nil, "2024-03")
	if d.PaidRate != 0 || d.UnpaidRate != 0 || d.TotalCollected != 0 {
		t.Fatalf("empty dashboard not zero: %+v", d)
	}
}
