// Package insights implements the Gemini API client used for monthly
// payment analysis and free-text student extraction.
package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"edupay/internal/core"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 60 * time.Second
)

var (
	ErrNoAPIKey      = errors.New("insights: API key not configured")
	ErrEmptyResponse = errors.New("insights: model returned no candidates")
)

// Config contains configuration for the Gemini client
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client talks to the Gemini generateContent endpoint
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a Gemini client. The API key is required for requests
// but not for construction, so a server can start without one and report
// the error only when an insight is actually requested.
func NewClient(config Config) *Client {
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// StudentDraft is a student candidate extracted from free text. Missing
// fields carry the same placeholders the enrollment form would use.
type StudentDraft struct {
	EnglishName string `json:"englishName"`
	BurmeseName string `json:"burmeseName"`
	ParentPhone string `json:"parentPhone"`
}

// MonthlyInsights asks the model for a payment analysis of the given month:
// paid/unpaid split, defaulter list with contact numbers, and follow-up
// recommendations. The ledger is condensed to a summary before sending.
func (c *Client) MonthlyInsights(ctx context.Context, month string, students []core.Student, payments []core.Payment) (string, error) {
	paidThisMonth := make(map[string]bool, len(payments))
	monthPayments := 0
	for _, p := range payments {
		if p.Month == month {
			paidThisMonth[p.StudentID] = true
			monthPayments++
		}
	}

	type studentSummary struct {
		Name          string `json:"name"`
		ID            string `json:"id"`
		Phone         string `json:"phone"`
		Category      string `json:"category"`
		DayType       string `json:"dayType"`
		PaidThisMonth bool   `json:"paidThisMonth"`
	}

	active := 0
	list := make([]studentSummary, 0, len(students))
	for _, s := range students {
		if s.IsActive {
			active++
		}
		list = append(list, studentSummary{
			Name:          s.EnglishName,
			ID:            s.ID,
			Phone:         s.ParentPhone,
			Category:      string(s.Category),
			DayType:       string(s.DayType),
			PaidThisMonth: paidThisMonth[s.ID],
		})
	}

	summary := map[string]any{
		"totalStudents":     len(students),
		"activeStudents":    active,
		"totalPayments":     len(payments),
		"paymentsThisMonth": monthPayments,
		"studentsList":      list,
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("marshal data summary: %w", err)
	}

	prompt := fmt.Sprintf(`Analyze this student payment data for %s. Currency is Myanmar Kyat (MMK).
Identify students who haven't paid. Group them by their Level and Day Type.
Summarize total revenue (Ks).
Data: %s

Provide a professional summary:
1. Financial Status (Paid vs Unpaid count)
2. Defaulter List (List English names, Levels, Day Type, and phone numbers)
3. Specific recommendations for contacting parents.`, month, data)

	text, err := c.generateContent(ctx, prompt, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ExtractStudents asks the model to pull student records out of free text,
// such as a pasted phone note or chat export. Blank fields are replaced
// with enrollment placeholders so drafts are always committable.
func (c *Client) ExtractStudents(ctx context.Context, text string) ([]StudentDraft, error) {
	prompt := fmt.Sprintf(`Extract student details from this text. Look for English Name, any Burmese Name, and Phone Number.
Return a clean JSON array of objects.
Format: [{"englishName": "...", "burmeseName": "...", "parentPhone": "..."}]
Text: %s`, text)

	genConfig := &generationConfig{
		ResponseMimeType: "application/json",
		ResponseSchema: &schema{
			Type: "ARRAY",
			Items: &schema{
				Type: "OBJECT",
				Properties: map[string]*schema{
					"englishName": {Type: "STRING"},
					"burmeseName": {Type: "STRING"},
					"parentPhone": {Type: "STRING"},
				},
				Required: []string{"englishName", "burmeseName", "parentPhone"},
			},
		},
	}

	raw, err := c.generateContent(ctx, prompt, genConfig)
	if err != nil {
		return nil, err
	}

	var drafts []StudentDraft
	if err := json.Unmarshal([]byte(raw), &drafts); err != nil {
		return nil, fmt.Errorf("parse extracted students: %w", err)
	}

	for i := range drafts {
		if strings.TrimSpace(drafts[i].EnglishName) == "" {
			drafts[i].EnglishName = "Unnamed"
		}
		if strings.TrimSpace(drafts[i].BurmeseName) == "" {
			drafts[i].BurmeseName = "—"
		}
		if strings.TrimSpace(drafts[i].ParentPhone) == "" {
			drafts[i].ParentPhone = "N/A"
		}
	}

	return drafts, nil
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *schema `json:"responseSchema,omitempty"`
}

type schema struct {
	Type       string             `json:"type"`
	Items      *schema            `json:"items,omitempty"`
	Properties map[string]*schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("gemini api error %d (%s): %s", e.Code, e.Status, e.Message)
}

func (c *Client) generateContent(ctx context.Context, prompt string, genConfig *generationConfig) (string, error) {
	if c.config.APIKey == "" {
		return "", ErrNoAPIKey
	}

	reqBody := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: genConfig,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	fullURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.config.BaseURL, url.PathEscape(c.config.Model), url.QueryEscape(c.config.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= 400 {
		if parsed.Error != nil {
			return "", parsed.Error
		}
		return "", fmt.Errorf("gemini api error: status %d", resp.StatusCode)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
