package reports

import "edupay/internal/core"

// Tally is one settlement method's monthly totals, keyed by summary
// bucket. Counts always carries the ten canonical buckets; Other is
// present only when something actually fell outside them.
type Tally struct {
	Counts      map[core.SummaryBucket]int `json:"counts"`
	TotalCount  int                        `json:"totalCount"`
	TotalAmount core.Amount                `json:"totalAmount"`
}

func newTally() Tally {
	t := Tally{Counts: make(map[core.SummaryBucket]int, len(core.SummaryBuckets))}
	for _, b := range core.SummaryBuckets {
		t.Counts[b] = 0
	}
	return t
}

func (t *Tally) add(b core.SummaryBucket, amount core.Amount) {
	t.Counts[b]++
	t.TotalCount++
	t.TotalAmount += amount
}

// MonthlySummary splits one month's payments into independent cash and
// K-pay tallies.
type MonthlySummary struct {
	Month string `json:"month"`
	Cash  Tally  `json:"cash"`
	KPay  Tally  `json:"kpay"`
}

// GrossCount is the combined headcount across both methods.
func (s MonthlySummary) GrossCount() int {
	return s.Cash.TotalCount + s.KPay.TotalCount
}

// GrossAmount is the combined revenue across both methods.
func (s MonthlySummary) GrossAmount() core.Amount {
	return s.Cash.TotalAmount + s.KPay.TotalAmount
}

// Summarize builds the monthly summary. Each payment resolves to its
// student's summary bucket; a dangling student reference lands in the
// Other bucket so totals still account for every payment in the month.
func Summarize(students []core.Student, payments []core.Payment, month string) MonthlySummary {
	byID := indexStudents(students)

	out := MonthlySummary{
		Month: month,
		Cash:  newTally(),
		KPay:  newTally(),
	}
	for _, p := range payments {
		if p.Month != month {
			continue
		}
		bucket := core.BucketOther
		if s, ok := byID[p.StudentID]; ok {
			bucket = core.BucketFor(s.Category)
		}
		if p.Method == core.Cash {
			out.Cash.add(bucket, p.Amount)
		} else {
			out.KPay.add(bucket, p.Amount)
		}
	}
	return out
}
