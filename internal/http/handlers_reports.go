package http

import (
	"net/http"
	"strconv"

	"edupay/internal/core"
	"edupay/internal/reports"
)

func (s *Server) handleUnpaid(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	data := s.ledger.Data()
	unpaid := reports.Unpaid(data.Students, data.Payments, reports.UnpaidFilter{
		Month:  month,
		Level:  core.Level(r.URL.Query().Get("level")),
		Search: r.URL.Query().Get("search"),
	})
	respondJSON(w, http.StatusOK, unpaid)
}

func (s *Server) handleDailyCash(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sheetNo := s.ledger.SheetNo()
	if v := r.URL.Query().Get("sheetNo"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < core.MinSheetNo || n > core.MaxSheetNo {
			respondError(w, http.StatusBadRequest, "invalid sheetNo, want 1..20")
			return
		}
		sheetNo = n
	}

	data := s.ledger.Data()
	respondJSON(w, http.StatusOK, reports.DailyCashSheet(data.Students, data.Payments, date, sheetNo))
}

func (s *Server) handleDailyKPay(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	data := s.ledger.Data()
	respondJSON(w, http.StatusOK, reports.DailyKPayList(data.Students, data.Payments, date))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	data := s.ledger.Data()
	respondJSON(w, http.StatusOK, reports.DailyHistory(data.Students, data.Payments, date))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	data := s.ledger.Data()
	respondJSON(w, http.StatusOK, reports.Summarize(data.Students, data.Payments, month))
}

func (s *Server) handleSheetMatrix(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	data := s.ledger.Data()
	respondJSON(w, http.StatusOK, reports.BuildSheetMatrix(data.Students, data.Payments, month))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	data := s.ledger.Data()
	respondJSON(w, http.StatusOK, reports.BuildDashboard(data.Students, data.Payments, month))
}
