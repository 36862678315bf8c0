package reports

import (
	"math"

	"edupay/internal/core"
)

// Dashboard is the landing-view snapshot for one month: headcounts,
// collection progress and the method split. Rates are whole
// percentages, rounded half-up, zero when the cohort is empty.
type Dashboard struct {
	Month string `json:"month"`

	ActiveStudents  int `json:"activeStudents"`
	WeekdayStudents int `json:"weekdayStudents"`
	WeekendStudents int `json:"weekendStudents"`

	PaidStudents   int `json:"paidStudents"`
	UnpaidStudents int `json:"unpaidStudents"`
	WeekdayPaid    int `json:"weekdayPaid"`
	WeekendPaid    int `json:"weekendPaid"`
	WeekdayUnpaid  int `json:"weekdayUnpaid"`
	WeekendUnpaid  int `json:"weekendUnpaid"`

	PaidRate          int `json:"paidRate"`
	UnpaidRate        int `json:"unpaidRate"`
	WeekdayPaidRate   int `json:"weekdayPaidRate"`
	WeekendPaidRate   int `json:"weekendPaidRate"`
	WeekdayUnpaidRate int `json:"weekdayUnpaidRate"`
	WeekendUnpaidRate int `json:"weekendUnpaidRate"`

	CashCount      int         `json:"cashCount"`
	KPayCount      int         `json:"kpayCount"`
	TotalCollected core.Amount `json:"totalCollected"`
}

// BuildDashboard computes the month snapshot over active students
// only; inactive students are retained for history but excluded here.
func BuildDashboard(students []core.Student, payments []core.Payment, month string) Dashboard {
	d := Dashboard{Month: month}

	paid := PaidStudentIDs(payments, month)
	for _, s := range students {
		if !s.IsActive {
			continue
		}
		d.ActiveStudents++
		_, hasPaid := paid[s.ID]
		if hasPaid {
			d.PaidStudents++
		}
		if s.DayType == core.Weekend {
			d.WeekendStudents++
			if hasPaid {
				d.WeekendPaid++
			}
		} else {
			d.WeekdayStudents++
			if hasPaid {
				d.WeekdayPaid++
			}
		}
	}
	d.UnpaidStudents = d.ActiveStudents - d.PaidStudents
	d.WeekdayUnpaid = d.WeekdayStudents - d.WeekdayPaid
	d.WeekendUnpaid = d.WeekendStudents - d.WeekendPaid

	d.PaidRate = percent(d.PaidStudents, d.ActiveStudents)
	d.UnpaidRate = percent(d.UnpaidStudents, d.ActiveStudents)
	d.WeekdayPaidRate = percent(d.WeekdayPaid, d.WeekdayStudents)
	d.WeekendPaidRate = percent(d.WeekendPaid, d.WeekendStudents)
	d.WeekdayUnpaidRate = percent(d.WeekdayUnpaid, d.WeekdayStudents)
	d.WeekendUnpaidRate = percent(d.WeekendUnpaid, d.WeekendStudents)

	for _, p := range payments {
		if p.Month != month {
			continue
		}
		if p.Method == core.Cash {
			d.CashCount++
		} else {
			d.KPayCount++
		}
		d.TotalCollected += p.Amount
	}
	return d
}

func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
