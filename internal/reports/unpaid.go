// Package reports is the aggregation engine: pure functions that
// derive every view (unpaid lists, daily sheets, monthly summaries)
// from the two flat record collections. Nothing here caches or
// mutates; each call recomputes from scratch.
package reports

import (
	"sort"
	"strings"

	"edupay/internal/core"
)

// UnpaidFilter scopes the monthly unpaid-students query. Level and
// Search are optional; Search matches either name field,
// case-insensitive.
type UnpaidFilter struct {
	Month  string     `json:"month"`
	Level  core.Level `json:"level,omitempty"`
	Search string     `json:"search,omitempty"`
}

// PaidStudentIDs returns the set of student ids with at least one
// payment whose stored month equals month.
func PaidStudentIDs(payments []core.Payment, month string) map[string]struct{} {
	paid := make(map[string]struct{})
	for _, p := range payments {
		if p.Month == month {
			paid[p.StudentID] = struct{}{}
		}
	}
	return paid
}

// Unpaid returns every active student without a payment in the filter
// month, narrowed by the optional level and name filters, sorted
// alphabetically by English name. A student with zero payments counts
// as fully unpaid even if enrolled mid-month; there is no pro-ration.
func Unpaid(students []core.Student, payments []core.Payment, f UnpaidFilter) []core.Student {
	paid := PaidStudentIDs(payments, f.Month)
	needle := strings.ToLower(strings.TrimSpace(f.Search))

	out := []core.Student{}
	for _, s := range students {
		if !s.IsActive {
			continue
		}
		if _, ok := paid[s.ID]; ok {
			continue
		}
		if f.Level != "" && s.Category != f.Level {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(s.EnglishName), needle) &&
			!strings.Contains(strings.ToLower(s.BurmeseName), needle) {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].EnglishName) < strings.ToLower(out[j].EnglishName)
	})
	return out
}
