package http

import (
	"errors"
	"net/http"

	"edupay/internal/core"
	applog "edupay/internal/log"
	"edupay/internal/services"
)

type paymentRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Method    string `json:"method" validate:"required,oneof=Cash K-pay"`
	SheetNo   int    `json:"sheetNo" validate:"omitempty,min=1,max=20"`
	Notes     string `json:"notes"`
}

type sheetNoRequest struct {
	SheetNo int `json:"sheetNo" validate:"required,min=1,max=20"`
}

type sheetNoResponse struct {
	SheetNo int `json:"sheetNo"`
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	payments := s.ledger.Data().Payments

	// Optional ?month= narrows to one month.
	if m := r.URL.Query().Get("month"); m != "" {
		if !core.ValidMonth(m) {
			respondError(w, http.StatusBadRequest, "invalid month, want YYYY-MM")
			return
		}
		filtered := make([]core.Payment, 0, len(payments))
		for _, p := range payments {
			if p.Month == m {
				filtered = append(filtered, p)
			}
		}
		payments = filtered
	}

	respondJSON(w, http.StatusOK, payments)
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeValid(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := s.ledger.RecordPayment(r.Context(), core.Payment{
		StudentID: req.StudentID,
		Date:      req.Date,
		Amount:    core.Amount(req.Amount),
		Method:    core.PaymentMethod(req.Method),
		SheetNo:   req.SheetNo,
		Notes:     req.Notes,
	})
	if errors.Is(err, services.ErrStudentNotFound) {
		respondError(w, http.StatusNotFound, "student not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.invalidateInsightsMonth(payment.Month)
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Payment recorded",
		applog.FieldPaymentID, payment.ID,
		applog.FieldStudentID, payment.StudentID,
		applog.FieldMonth, payment.Month,
		applog.FieldAmount, int64(payment.Amount),
		applog.FieldPayMethod, string(payment.Method))
	respondJSON(w, http.StatusCreated, payment)
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := s.ledger.DeletePayment(r.Context(), id)
	if errors.Is(err, services.ErrPaymentNotFound) {
		respondError(w, http.StatusNotFound, "payment not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.invalidateInsights()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearPayments(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.ClearPayments(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.invalidateInsights()
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Payment history cleared",
		applog.FieldOperation, applog.OpDelete)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSheetNo(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, sheetNoResponse{SheetNo: s.ledger.SheetNo()})
}

func (s *Server) handleSetSheetNo(w http.ResponseWriter, r *http.Request) {
	var req sheetNoRequest
	if err := decodeValid(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.ledger.SetSheetNo(r.Context(), req.SheetNo); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sheetNoResponse{SheetNo: req.SheetNo})
}

func (s *Server) handleAdvanceSheetNo(w http.ResponseWriter, r *http.Request) {
	n, err := s.ledger.AdvanceSheetNo(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sheetNoResponse{SheetNo: n})
}
