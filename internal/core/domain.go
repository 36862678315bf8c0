package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// DayType tells whether a student attends weekday or weekend classes.
	DayType string

	// PaymentMethod is how a tuition payment was settled.
	PaymentMethod string
)

const (
	Weekday DayType = "Weekday"
	Weekend DayType = "Weekend"
)

const (
	Cash PaymentMethod = "Cash"
	KPay PaymentMethod = "K-pay"
)

// Amount is a tuition amount in whole Kyat. There are no minor units.
type Amount int64

const (
	// MinSheetNo and MaxSheetNo bound the cyclic cash sheet counter.
	MinSheetNo = 1
	MaxSheetNo = 20
)

// Student is one enrollment record. JSON tags match the persisted
// document schema.
type Student struct {
	ID          string  `json:"id"`
	EnglishName string  `json:"englishName"`
	BurmeseName string  `json:"burmeseName"`
	ParentPhone string  `json:"parentPhone"`
	JoinDate    string  `json:"joinDate"` // YYYY-MM-DD
	Category    Level   `json:"category"`
	DayType     DayType `json:"dayType"`
	IsActive    bool    `json:"isActive"`
}

// Payment is one recorded tuition transaction. Month is derived from
// Date at creation time and is the canonical grouping key afterwards;
// it is never recomputed from Date when aggregating.
type Payment struct {
	ID        string        `json:"id"`
	StudentID string        `json:"studentId"`
	Month     string        `json:"month"` // YYYY-MM
	Date      string        `json:"date"`  // YYYY-MM-DD
	Amount    Amount        `json:"amount"`
	Method    PaymentMethod `json:"method"`
	DayType   DayType       `json:"dayType"` // snapshot of the student's day type
	SheetNo   int           `json:"sheetNo"`
	Notes     string        `json:"notes,omitempty"`
}

// AppData is the whole persisted document. Mutations replace it as a
// value; slices keep insertion order.
type AppData struct {
	Students []Student `json:"students"`
	Payments []Payment `json:"payments"`
	SheetNo  int       `json:"sheetNo"`
}

var (
	ErrEmptyID          = errors.New("empty id")
	ErrEmptyEnglishName = errors.New("empty english name")
	ErrEmptyParentPhone = errors.New("empty parent phone")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrMonthMismatch    = errors.New("month does not match date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidMethod    = errors.New("invalid payment method")
	ErrInvalidDayType   = errors.New("invalid day type")
	ErrInvalidSheetNo   = errors.New("sheet number out of range")
)

// DefaultData is the zero-value document used when nothing has been
// persisted yet.
func DefaultData() AppData {
	return AppData{
		Students: []Student{},
		Payments: []Payment{},
		SheetNo:  MinSheetNo,
	}
}

// Clone returns a deep copy so callers can hand out AppData values
// without sharing backing arrays.
func (d AppData) Clone() AppData {
	out := AppData{
		Students: make([]Student, len(d.Students)),
		Payments: make([]Payment, len(d.Payments)),
		SheetNo:  d.SheetNo,
	}
	copy(out.Students, d.Students)
	copy(out.Payments, d.Payments)
	return out
}

// ValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidMonth reports whether s is a month key in YYYY-MM form.
func ValidMonth(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}

// MonthOf derives the month key from a YYYY-MM-DD date string. It is
// only for deriving Payment.Month at creation time; aggregation trusts
// the stored month.
func MonthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

func (s Student) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(s.EnglishName) == "" {
		return ErrEmptyEnglishName
	}
	if strings.TrimSpace(s.ParentPhone) == "" {
		return ErrEmptyParentPhone
	}
	if s.JoinDate != "" && !ValidDate(s.JoinDate) {
		return ErrInvalidDate
	}
	switch s.DayType {
	case Weekday, Weekend:
	default:
		return ErrInvalidDayType
	}
	return nil
}

func (p Payment) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(p.StudentID) == "" {
		return errors.New("empty student id")
	}
	if !ValidDate(p.Date) {
		return ErrInvalidDate
	}
	if !ValidMonth(p.Month) {
		return ErrInvalidMonth
	}
	if p.Month != MonthOf(p.Date) {
		return ErrMonthMismatch
	}
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	switch p.Method {
	case Cash, KPay:
	default:
		return ErrInvalidMethod
	}
	switch p.DayType {
	case Weekday, Weekend:
	default:
		return ErrInvalidDayType
	}
	if p.SheetNo < MinSheetNo || p.SheetNo > MaxSheetNo {
		return ErrInvalidSheetNo
	}
	return nil
}
