package http

import (
	"errors"
	"fmt"
	"net/http"

	"edupay/internal/core"
	applog "edupay/internal/log"
	"edupay/internal/services"
)

type studentRequest struct {
	EnglishName string `json:"englishName" validate:"required"`
	BurmeseName string `json:"burmeseName"`
	ParentPhone string `json:"parentPhone" validate:"required"`
	JoinDate    string `json:"joinDate" validate:"omitempty,datetime=2006-01-02"`
	Category    string `json:"category" validate:"required"`
	DayType     string `json:"dayType" validate:"required,oneof=Weekday Weekend"`
	IsActive    bool   `json:"isActive"`
}

func (req studentRequest) toStudent(id string) (core.Student, error) {
	level := core.Level(req.Category)
	day := core.DayType(req.DayType)
	// Known levels must be scheduled on the student's day type; legacy
	// names pass through and resolve via the fee fallback.
	if core.KnownLevel(level) && !core.ValidFor(level, day) {
		return core.Student{}, fmt.Errorf("level %s has no %s classes", level, day)
	}

	return core.Student{
		ID:          id,
		EnglishName: req.EnglishName,
		BurmeseName: req.BurmeseName,
		ParentPhone: req.ParentPhone,
		JoinDate:    req.JoinDate,
		Category:    level,
		DayType:     day,
		IsActive:    req.IsActive,
	}, nil
}

func (s *Server) handleListStudents(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.ledger.Data().Students)
}

func (s *Server) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := decodeValid(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	student, err := req.toStudent("")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.ledger.AddStudent(r.Context(), student)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.invalidateInsights()
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Student enrolled",
		applog.FieldStudentID, created.ID,
		applog.FieldOperation, applog.OpCreate)
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req studentRequest
	if err := decodeValid(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	student, err := req.toStudent(id)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.ledger.UpdateStudent(r.Context(), student)
	if errors.Is(err, services.ErrStudentNotFound) {
		respondError(w, http.StatusNotFound, "student not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.invalidateInsights()
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := s.ledger.DeleteStudent(r.Context(), id)
	if errors.Is(err, services.ErrStudentNotFound) {
		respondError(w, http.StatusNotFound, "student not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.invalidateInsights()
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Student deleted",
		applog.FieldStudentID, id,
		applog.FieldOperation, applog.OpDelete)
	w.WriteHeader(http.StatusNoContent)
}
