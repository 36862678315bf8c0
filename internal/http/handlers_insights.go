package http

import (
	"errors"
	"net/http"

	"edupay/internal/core"
	"edupay/internal/insights"
	applog "edupay/internal/log"
)

type insightsResponse struct {
	Month    string `json:"month"`
	Insights string `json:"insights"`
	Cached   bool   `json:"cached"`
}

type extractRequest struct {
	Text string `json:"text" validate:"required"`
	// Commit enrolls the extracted drafts immediately; the caller then
	// supplies the class placement shared by the whole batch.
	Commit   bool   `json:"commit"`
	Category string `json:"category" validate:"required_if=Commit true"`
	DayType  string `json:"dayType" validate:"required_if=Commit true,omitempty,oneof=Weekday Weekend"`
}

type extractResponse struct {
	Drafts    []insights.StudentDraft `json:"drafts"`
	Committed []core.Student          `json:"committed,omitempty"`
}

// handleInsights returns the model's payment analysis for a month. The
// response is cached; any ledger mutation touching the month drops it.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if s.ai == nil {
		respondError(w, http.StatusServiceUnavailable, "insights are not configured")
		return
	}

	month, err := monthParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := "insights:" + month
	if text, ok := s.insightCache.Get(key); ok {
		respondJSON(w, http.StatusOK, insightsResponse{Month: month, Insights: text, Cached: true})
		return
	}

	data := s.ledger.Data()
	text, err := s.ai.MonthlyInsights(r.Context(), month, data.Students, data.Payments)
	if errors.Is(err, insights.ErrNoAPIKey) {
		respondError(w, http.StatusServiceUnavailable, "insights are not configured")
		return
	}
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Insight generation failed",
			applog.FieldMonth, month, applog.FieldError, err)
		respondError(w, http.StatusBadGateway, "unable to generate insights at this time")
		return
	}

	s.insightCache.Set(key, text)
	respondJSON(w, http.StatusOK, insightsResponse{Month: month, Insights: text})
}

// handleExtractStudents turns pasted free text into student drafts and,
// when asked, enrolls them in one shot. A commit is all-or-nothing: any
// draft failing enrollment validation aborts before the first write.
func (s *Server) handleExtractStudents(w http.ResponseWriter, r *http.Request) {
	if s.ai == nil {
		respondError(w, http.StatusServiceUnavailable, "insights are not configured")
		return
	}

	var req extractRequest
	if err := decodeValid(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	drafts, err := s.ai.ExtractStudents(r.Context(), req.Text)
	if errors.Is(err, insights.ErrNoAPIKey) {
		respondError(w, http.StatusServiceUnavailable, "insights are not configured")
		return
	}
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Student extraction failed",
			applog.FieldError, err)
		respondError(w, http.StatusBadGateway, "unable to parse student list")
		return
	}

	resp := extractResponse{Drafts: drafts}
	if !req.Commit {
		respondJSON(w, http.StatusOK, resp)
		return
	}

	level := core.Level(req.Category)
	day := core.DayType(req.DayType)
	if core.KnownLevel(level) && !core.ValidFor(level, day) {
		respondError(w, http.StatusUnprocessableEntity,
			"level "+string(level)+" has no "+string(day)+" classes")
		return
	}

	candidates := make([]core.Student, 0, len(drafts))
	for _, d := range drafts {
		st := core.Student{
			EnglishName: d.EnglishName,
			BurmeseName: d.BurmeseName,
			ParentPhone: d.ParentPhone,
			Category:    level,
			DayType:     day,
			IsActive:    true,
		}
		// IDs are assigned at enrollment; validate with a stand-in so
		// a bad draft is caught before the first write.
		probe := st
		probe.ID = "draft"
		if err := probe.Validate(); err != nil {
			respondError(w, http.StatusUnprocessableEntity, "draft rejected: "+err.Error())
			return
		}
		candidates = append(candidates, st)
	}

	for _, st := range candidates {
		created, err := s.ledger.AddStudent(r.Context(), st)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		resp.Committed = append(resp.Committed, created)
	}

	if len(resp.Committed) > 0 {
		s.invalidateInsights()
	}
	respondJSON(w, http.StatusCreated, resp)
}

// invalidateInsights drops every cached insight. Used for mutations whose
// month scope is broad or unknown.
func (s *Server) invalidateInsights() {
	s.insightCache.DeletePrefix("insights:")
}

// invalidateInsightsMonth drops the cached insight for one month.
func (s *Server) invalidateInsightsMonth(month string) {
	s.insightCache.Delete("insights:" + month)
}
