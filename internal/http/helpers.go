package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"edupay/internal/core"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// decodeValid decodes a JSON request body into dst and runs struct
// validation. Unknown fields are rejected so typos surface as 400s
// instead of silently dropped data.
func decodeValid(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("field %s failed validation (%s)", f.Field(), f.Tag())
		}
		return err
	}
	return nil
}

// monthParam reads ?month= in YYYY-MM form, defaulting to the current month.
func monthParam(r *http.Request) (string, error) {
	m := strings.TrimSpace(r.URL.Query().Get("month"))
	if m == "" {
		return time.Now().Format("2006-01"), nil
	}
	if !core.ValidMonth(m) {
		return "", fmt.Errorf("invalid month %q, want YYYY-MM", m)
	}
	return m, nil
}

// dateParam reads ?date= in YYYY-MM-DD form, defaulting to today.
func dateParam(r *http.Request) (string, error) {
	d := strings.TrimSpace(r.URL.Query().Get("date"))
	if d == "" {
		return time.Now().Format("2006-01-02"), nil
	}
	if !core.ValidDate(d) {
		return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", d)
	}
	return d, nil
}
