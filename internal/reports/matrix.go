package reports

import "edupay/internal/core"

// MatrixCell holds one sheet × bucket accumulation.
type MatrixCell struct {
	Count  int         `json:"count"`
	Amount core.Amount `json:"amount"`
}

func (c *MatrixCell) add(o MatrixCell) {
	c.Count += o.Count
	c.Amount += o.Amount
}

// SheetMatrix is the monthly sheet-by-level audit table for cash
// payments. K-pay carries a sheet number but has no sheet semantics,
// so it is excluded. Row, column and grand totals are always derived
// by summing the cells; nothing is stored twice, so they cannot drift.
type SheetMatrix struct {
	Month string                                 `json:"month"`
	Cells map[int]map[core.SummaryBucket]MatrixCell `json:"cells"`
}

// BuildSheetMatrix accumulates the month's cash payments into a
// sheetNo × summary-bucket matrix. Every sheet row 1..20 is present
// even when empty. A dangling student reference lands in the Other
// bucket; a sheet number outside 1..20 (stale data) is dropped.
func BuildSheetMatrix(students []core.Student, payments []core.Payment, month string) SheetMatrix {
	byID := indexStudents(students)

	m := SheetMatrix{
		Month: month,
		Cells: make(map[int]map[core.SummaryBucket]MatrixCell, core.MaxSheetNo),
	}
	for sheet := core.MinSheetNo; sheet <= core.MaxSheetNo; sheet++ {
		row := make(map[core.SummaryBucket]MatrixCell, len(core.SummaryBuckets))
		for _, b := range core.SummaryBuckets {
			row[b] = MatrixCell{}
		}
		m.Cells[sheet] = row
	}

	for _, p := range payments {
		if p.Month != month || p.Method != core.Cash {
			continue
		}
		row, ok := m.Cells[p.SheetNo]
		if !ok {
			continue
		}
		bucket := core.BucketOther
		if s, ok := byID[p.StudentID]; ok {
			bucket = core.BucketFor(s.Category)
		}
		cell := row[bucket]
		cell.Count++
		cell.Amount += p.Amount
		row[bucket] = cell
	}
	return m
}

// RowTotal sums one sheet row across every bucket.
func (m SheetMatrix) RowTotal(sheetNo int) MatrixCell {
	var total MatrixCell
	for _, cell := range m.Cells[sheetNo] {
		total.add(cell)
	}
	return total
}

// ColumnTotal sums one bucket column across every sheet.
func (m SheetMatrix) ColumnTotal(b core.SummaryBucket) MatrixCell {
	var total MatrixCell
	for _, row := range m.Cells {
		total.add(row[b])
	}
	return total
}

// GrandTotal sums every cell in the matrix.
func (m SheetMatrix) GrandTotal() MatrixCell {
	var total MatrixCell
	for sheet := range m.Cells {
		total.add(m.RowTotal(sheet))
	}
	return total
}
