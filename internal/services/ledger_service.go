package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"edupay/internal/amqp"
	"edupay/internal/core"
	"edupay/internal/state"
	"edupay/internal/storage"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrPaymentNotFound = errors.New("payment not found")
)

// LedgerService owns the in-memory document and orchestrates mutations:
// apply the reducer, resynchronize the store, and nudge the export worker
// over AMQP. The store and the broker are both best-effort on the write
// path; the in-memory document is the source of truth for reads.
type LedgerService struct {
	mu         sync.RWMutex
	data       core.AppData
	store      storage.Store
	amqpClient *amqp.Client
}

// NewLedgerService loads the persisted document and returns a ready
// service. The AMQP client may be nil when running without a worker.
func NewLedgerService(ctx context.Context, store storage.Store, amqpClient *amqp.Client) (*LedgerService, error) {
	data, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	slog.InfoContext(ctx, "Ledger loaded",
		"students", len(data.Students),
		"payments", len(data.Payments),
		"sheet_no", data.SheetNo)

	return &LedgerService{
		data:       data,
		store:      store,
		amqpClient: amqpClient,
	}, nil
}

// Data returns a deep copy of the current document.
func (s *LedgerService) Data() core.AppData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// SheetNo returns the current cash sheet counter.
func (s *LedgerService) SheetNo() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.SheetNo
}

// AddStudent enrolls a student. A blank ID gets a generated one.
func (s *LedgerService) AddStudent(ctx context.Context, st core.Student) (core.Student, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if err := st.Validate(); err != nil {
		return core.Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.data.Students {
		if existing.ID == st.ID {
			return core.Student{}, fmt.Errorf("student %s already exists", st.ID)
		}
	}

	s.data = state.AddStudent(s.data, st)
	s.persist(ctx)
	return st, nil
}

// UpdateStudent replaces an enrollment record.
func (s *LedgerService) UpdateStudent(ctx context.Context, st core.Student) (core.Student, error) {
	if err := st.Validate(); err != nil {
		return core.Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findStudent(st.ID); !ok {
		return core.Student{}, ErrStudentNotFound
	}

	s.data = state.UpdateStudent(s.data, st)
	s.persist(ctx)
	// A level or day-type change moves this student's payments between
	// summary buckets, so every month they paid in needs a re-export.
	s.publishSync(ctx, "student updated", s.paymentMonths(st.ID)...)
	return st, nil
}

// DeleteStudent removes a student and every payment referencing them.
func (s *LedgerService) DeleteStudent(ctx context.Context, studentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findStudent(studentID); !ok {
		return ErrStudentNotFound
	}

	months := s.paymentMonths(studentID)
	s.data = state.DeleteStudent(s.data, studentID)
	s.persist(ctx)
	s.publishSync(ctx, "student deleted", months...)
	return nil
}

// RecordPayment records a tuition payment. The service stamps the ID,
// derives Month from Date, snapshots the student's day type, and fills
// the sheet number from the counter when the caller left it zero.
func (s *LedgerService) RecordPayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.findStudent(p.StudentID)
	if !ok {
		return core.Payment{}, ErrStudentNotFound
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Month = core.MonthOf(p.Date)
	p.DayType = student.DayType
	if p.SheetNo == 0 {
		p.SheetNo = s.data.SheetNo
	}
	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}

	s.data = state.RecordPayment(s.data, p)
	s.persist(ctx)
	s.publishSync(ctx, "payment recorded", p.Month)
	return p, nil
}

// DeletePayment removes one payment. The sheet counter is untouched.
func (s *LedgerService) DeletePayment(ctx context.Context, paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var month string
	found := false
	for _, p := range s.data.Payments {
		if p.ID == paymentID {
			month = p.Month
			found = true
			break
		}
	}
	if !found {
		return ErrPaymentNotFound
	}

	s.data = state.DeletePayment(s.data, paymentID)
	s.persist(ctx)
	s.publishSync(ctx, "payment deleted", month)
	return nil
}

// ClearPayments wipes the payment history and resets the sheet counter.
func (s *LedgerService) ClearPayments(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	months := make([]string, 0, 4)
	seen := make(map[string]bool)
	for _, p := range s.data.Payments {
		if !seen[p.Month] {
			seen[p.Month] = true
			months = append(months, p.Month)
		}
	}

	s.data = state.ClearPayments(s.data)
	s.persist(ctx)
	s.publishSync(ctx, "payments cleared", months...)
	return nil
}

// SetSheetNo pins the cash sheet counter.
func (s *LedgerService) SetSheetNo(ctx context.Context, n int) error {
	if n < core.MinSheetNo || n > core.MaxSheetNo {
		return core.ErrInvalidSheetNo
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = state.SetSheetNo(s.data, n)
	s.persist(ctx)
	return nil
}

// AdvanceSheetNo moves the counter to the next sheet, wrapping 20 to 1,
// and returns the new value.
func (s *LedgerService) AdvanceSheetNo(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = state.SetSheetNo(s.data, state.NextSheetNo(s.data.SheetNo))
	s.persist(ctx)
	return s.data.SheetNo, nil
}

// findStudent must be called with the mutex held.
func (s *LedgerService) findStudent(id string) (core.Student, bool) {
	for _, st := range s.data.Students {
		if st.ID == id {
			return st, true
		}
	}
	return core.Student{}, false
}

// paymentMonths returns the distinct months the student has payments in.
// Must be called with the mutex held.
func (s *LedgerService) paymentMonths(studentID string) []string {
	seen := make(map[string]bool)
	var months []string
	for _, p := range s.data.Payments {
		if p.StudentID == studentID && !seen[p.Month] {
			seen[p.Month] = true
			months = append(months, p.Month)
		}
	}
	return months
}

// persist resynchronizes the whole document. A failed save is logged and
// the mutation stands; the next successful save writes the full state
// anyway. Must be called with the mutex held.
func (s *LedgerService) persist(ctx context.Context) {
	if err := s.store.Save(ctx, s.data); err != nil {
		slog.ErrorContext(ctx, "Failed to persist ledger", "error", err)
	}
}

// publishSync notifies the export worker. Missing broker or a publish
// failure never fails the mutation.
func (s *LedgerService) publishSync(ctx context.Context, reason string, months ...string) {
	if s.amqpClient == nil {
		return
	}
	for _, month := range months {
		if err := s.amqpClient.PublishReportSync(ctx, month, reason); err != nil {
			slog.ErrorContext(ctx, "Failed to publish report sync message",
				"month", month, "error", err)
		}
	}
}

// Close releases the store and broker connections.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
