// Package state is the mutation API: reducer-style pure functions that
// take the current document plus an intent and return a complete
// replacement. There is no ambient singleton; callers own the value
// and decide when to persist it.
package state

import "edupay/internal/core"

// AddStudent appends a student. ID uniqueness is the caller's
// responsibility.
func AddStudent(d core.AppData, s core.Student) core.AppData {
	out := d.Clone()
	out.Students = append(out.Students, s)
	return out
}

// UpdateStudent replaces the student with a matching id. No-op when
// the id is not found.
func UpdateStudent(d core.AppData, s core.Student) core.AppData {
	out := d.Clone()
	for i := range out.Students {
		if out.Students[i].ID == s.ID {
			out.Students[i] = s
			break
		}
	}
	return out
}

// DeleteStudent removes the student and cascades to every payment
// referencing it. Unlike the dangling-reference tolerance in the
// aggregation layer, an explicit delete purges history.
func DeleteStudent(d core.AppData, studentID string) core.AppData {
	out := core.AppData{
		Students: make([]core.Student, 0, len(d.Students)),
		Payments: make([]core.Payment, 0, len(d.Payments)),
		SheetNo:  d.SheetNo,
	}
	for _, s := range d.Students {
		if s.ID != studentID {
			out.Students = append(out.Students, s)
		}
	}
	for _, p := range d.Payments {
		if p.StudentID != studentID {
			out.Payments = append(out.Payments, p)
		}
	}
	return out
}

// RecordPayment appends a payment. The caller must have derived Month
// from Date already.
func RecordPayment(d core.AppData, p core.Payment) core.AppData {
	out := d.Clone()
	out.Payments = append(out.Payments, p)
	return out
}

// DeletePayment removes the payment with a matching id. Nothing
// references payments, so there is no cascade and no effect on the
// sheet counter.
func DeletePayment(d core.AppData, paymentID string) core.AppData {
	out := d.Clone()
	out.Payments = out.Payments[:0]
	for _, p := range d.Payments {
		if p.ID != paymentID {
			out.Payments = append(out.Payments, p)
		}
	}
	return out
}

// SetSheetNo replaces the global sheet counter. No range clamp here;
// the entry layer is expected to cycle within 1..20.
func SetSheetNo(d core.AppData, n int) core.AppData {
	out := d.Clone()
	out.SheetNo = n
	return out
}

// NextSheetNo advances a sheet number cyclically through 1..20.
func NextSheetNo(n int) int {
	if n >= core.MaxSheetNo {
		return core.MinSheetNo
	}
	return n + 1
}

// ClearPayments empties the payment history and resets the sheet
// counter. Students are untouched. There is no undo; asking for
// confirmation is the presentation layer's concern.
func ClearPayments(d core.AppData) core.AppData {
	out := d.Clone()
	out.Payments = []core.Payment{}
	out.SheetNo = core.MinSheetNo
	return out
}
