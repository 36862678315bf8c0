package reports

import (
	"sort"
	"strings"

	"edupay/internal/core"
)

// Placeholder display values for payments whose student reference has
// gone dangling. Aggregation substitutes these instead of failing.
const (
	UnknownName  = "Unknown"
	UnknownClass = "N/A"
)

// CashCell is one per-level tally on a daily cash sheet.
type CashCell struct {
	Count int         `json:"count"`
	Cash  core.Amount `json:"cash"`
}

// CashSheet is the daily cash collection report for one sheet number.
// ByLevel accumulates the recorded payment amounts, not the canonical
// per-level fee: the actual amount is authoritative.
type CashSheet struct {
	Date    string                   `json:"date"`
	SheetNo int                      `json:"sheetNo"`
	ByLevel map[core.Level]CashCell  `json:"byLevel"`
	// TotalStudents and TotalCash cover every matching payment,
	// including ones whose student reference is dangling.
	TotalStudents int         `json:"totalStudents"`
	TotalCash     core.Amount `json:"totalCash"`
}

// DailyCashSheet tallies cash payments for one date and sheet number,
// grouped by the paying student's level. Payments without a resolvable
// student are excluded from the per-level buckets but still counted in
// the day totals.
func DailyCashSheet(students []core.Student, payments []core.Payment, date string, sheetNo int) CashSheet {
	byID := indexStudents(students)

	sheet := CashSheet{
		Date:    date,
		SheetNo: sheetNo,
		ByLevel: make(map[core.Level]CashCell),
	}
	for _, l := range core.LevelsFor(core.Weekday) {
		sheet.ByLevel[l] = CashCell{}
	}
	for _, l := range core.LevelsFor(core.Weekend) {
		sheet.ByLevel[l] = CashCell{}
	}

	for _, p := range payments {
		if p.Date != date || p.Method != core.Cash || p.SheetNo != sheetNo {
			continue
		}
		sheet.TotalStudents++
		sheet.TotalCash += p.Amount

		s, ok := byID[p.StudentID]
		if !ok {
			continue
		}
		cell := sheet.ByLevel[s.Category]
		cell.Count++
		cell.Cash += p.Amount
		sheet.ByLevel[s.Category] = cell
	}
	return sheet
}

// Combined merges sibling levels that share a display family prefix
// ("Starters" covers Starters, Starters 1, Starters 2). It is a
// display transform over ByLevel, not a second source of truth.
func (cs CashSheet) Combined(family string) CashCell {
	var out CashCell
	for l, cell := range cs.ByLevel {
		if strings.HasPrefix(string(l), family) {
			out.Count += cell.Count
			out.Cash += cell.Cash
		}
	}
	return out
}

// KPayRow is one entry on the daily K-pay transaction list. Schedule
// is the two-letter code derived from the payment's snapshotted day
// type, not the student's current one.
type KPayRow struct {
	Name     string      `json:"name"`
	Class    string      `json:"class"`
	Schedule string      `json:"schedule"` // WD or WE
	Date     string      `json:"date"`
	Amount   core.Amount `json:"amount"`
}

// KPayList is the daily K-pay report. Sheet numbers are ignored for
// K-pay payments.
type KPayList struct {
	Date        string      `json:"date"`
	Rows        []KPayRow   `json:"rows"`
	Count       int         `json:"count"`
	TotalAmount core.Amount `json:"totalAmount"`
}

// DailyKPayList lists K-pay payments for a date in insertion order.
// Dangling student references render with placeholder name and class.
func DailyKPayList(students []core.Student, payments []core.Payment, date string) KPayList {
	byID := indexStudents(students)

	list := KPayList{Date: date, Rows: []KPayRow{}}
	for _, p := range payments {
		if p.Date != date || p.Method != core.KPay {
			continue
		}
		row := KPayRow{
			Name:     UnknownName,
			Class:    UnknownClass,
			Schedule: scheduleCode(p.DayType),
			Date:     date,
			Amount:   p.Amount,
		}
		if s, ok := byID[p.StudentID]; ok {
			row.Name = s.EnglishName
			row.Class = string(s.Category)
		}
		list.Rows = append(list.Rows, row)
		list.Count++
		list.TotalAmount += p.Amount
	}
	return list
}

// HistoryRow is one payment joined with student display fields for the
// flat daily history table.
type HistoryRow struct {
	Payment      core.Payment `json:"payment"`
	StudentName  string       `json:"studentName"`
	StudentClass string       `json:"studentClass"`
}

// DailyHistory projects every payment on a date, any method, joined
// with the paying student's display fields and sorted by resolved
// student name.
func DailyHistory(students []core.Student, payments []core.Payment, date string) []HistoryRow {
	byID := indexStudents(students)

	out := []HistoryRow{}
	for _, p := range payments {
		if p.Date != date {
			continue
		}
		row := HistoryRow{Payment: p, StudentName: UnknownName, StudentClass: UnknownClass}
		if s, ok := byID[p.StudentID]; ok {
			row.StudentName = s.EnglishName
			row.StudentClass = string(s.Category)
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].StudentName) < strings.ToLower(out[j].StudentName)
	})
	return out
}

func scheduleCode(day core.DayType) string {
	if day == core.Weekend {
		return "WE"
	}
	return "WD"
}

func indexStudents(students []core.Student) map[string]core.Student {
	byID := make(map[string]core.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}
	return byID
}
