package reports

import (
	"testing"

	"edupay/internal/core"
)

func student(id, name string, level core.Level, day core.DayType, active bool) core.Student {
	return core.Student{
		ID:          id,
		EnglishName: name,
		ParentPhone: "09-000",
		Category:    level,
		DayType:     day,
		IsActive:    active,
	}
}

func payment(id, studentID, date string, amount core.Amount, method core.PaymentMethod, sheetNo int) core.Payment {
	return core.Payment{
		ID:        id,
		StudentID: studentID,
		Month:     core.MonthOf(date),
		Date:      date,
		Amount:    amount,
		Method:    method,
		DayType:   core.Weekday,
		SheetNo:   sheetNo,
	}
}

func TestUnpaidReturnsExactlyTheUnpaidStudent(t *testing.T) {
	students := []core.Student{
		student("s1", "Aung", core.KET1, core.Weekday, true),
		student("s2", "Bo", core.PET, core.Weekday, true),
	}
	payments := []core.Payment{
		payment("p1", "s1", "2024-03-05", 70000, core.Cash, 1),
	}

	got := Unpaid(students, payments, UnpaidFilter{Month: "2024-03"})
	if len(got) != 1 || got[0].ID != "s2" {
		t.Fatalf("got %+v, want only s2", got)
	}

	// Same result regardless of record order.
	rev := []core.Student{students[1], students[0]}
	got = Unpaid(rev, payments, UnpaidFilter{Month: "2024-03"})
	if len(got) != 1 || got[0].ID != "s2" {
		t.Fatalf("order-dependent result: %+v", got)
	}
}

func TestUnpaidPaidComplement(t *testing.T) {
	students := []core.Student{
		student("s1", "Aye", core.Starters1, core.Weekend, true),
		student("s2", "Bo", core.Movers1, core.Weekend, true),
		student("s3", "Chit", core.Math1, core.Weekend, true),
		student("s4", "Dwe", core.FCE, core.Weekend, false), // inactive: in neither set
	}
	payments := []core.Payment{
		payment("p1", "s2", "2024-03-01", 65000, core.KPay, 1),
		payment("p2", "s2", "2024-03-15", 65000, core.Cash, 2), // second payment, still one paid student
	}

	month := "2024-03"
	unpaid := Unpaid(students, payments, UnpaidFilter{Month: month})
	paid := PaidStudentIDs(payments, month)

	seen := make(map[string]bool)
	for _, s := range unpaid {
		if _, ok := paid[s.ID]; ok {
			t.Fatalf("student %s in both unpaid and paid", s.ID)
		}
		seen[s.ID] = true
	}
	for _, s := range students {
		if !s.IsActive {
			continue
		}
		_, inPaid := paid[s.ID]
		if inPaid == seen[s.ID] && !inPaid {
			t.Fatalf("active student %s in neither set", s.ID)
		}
	}
	if len(unpaid)+len(paid) != 3 {
		t.Fatalf("union does not cover active students: %d unpaid + %d paid", len(unpaid), len(paid))
	}
}

func TestUnpaidFilters(t *testing.T) {
	students := []core.Student{
		student("s1", "Zaw Zaw", core.KET1, core.Weekday, true),
		student("s2", "Aung Myint", core.PET, core.Weekday, true),
		{ID: "s3", EnglishName: "Thiri", BurmeseName: "သီရိ", ParentPhone: "09", Category: core.KET1, DayType: core.Weekday, IsActive: true},
	}

	got := Unpaid(students, nil, UnpaidFilter{Month: "2024-03", Level: core.KET1})
	if len(got) != 2 {
		t.Fatalf("level filter: got %d students", len(got))
	}
	// Alphabetical by English name.
	if got[0].ID != "s3" || got[1].ID != "s1" {
		t.Fatalf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}

	got = Unpaid(students, nil, UnpaidFilter{Month: "2024-03", Search: "zaw"})
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("search filter: %+v", got)
	}

	// Burmese name matches too.
	got = Unpaid(students, nil, UnpaidFilter{Month: "2024-03", Search: "သီရိ"})
	if len(got) != 1 || got[0].ID != "s3" {
		t.Fatalf("burmese search: %+v", got)
	}
}
