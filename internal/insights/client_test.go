package insights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupay/internal/core"
)

func textResponse(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestMonthlyInsights(t *testing.T) {
	var gotPath string
	var gotBody generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(textResponse("1. Financial Status: 1 paid, 1 unpaid.")))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", Model: "gemini-2.5-flash", BaseURL: srv.URL})

	students := []core.Student{
		{ID: "s1", EnglishName: "Aung Aung", ParentPhone: "09-111", Category: core.KET1, DayType: core.Weekday, IsActive: true},
		{ID: "s2", EnglishName: "Su Su", ParentPhone: "09-222", Category: core.Flyers, DayType: core.Weekend, IsActive: true},
	}
	payments := []core.Payment{
		{ID: "p1", StudentID: "s1", Month: "2024-03", Date: "2024-03-05", Amount: 70000, Method: core.Cash, SheetNo: 1},
	}

	text, err := client.MonthlyInsights(context.Background(), "2024-03", students, payments)
	require.NoError(t, err)
	assert.Contains(t, text, "Financial Status")

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
	require.Len(t, gotBody.Contents, 1)
	prompt := gotBody.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, "2024-03")
	assert.Contains(t, prompt, "Aung Aung")
	assert.Contains(t, prompt, `"paidThisMonth":true`)
	assert.Nil(t, gotBody.GenerationConfig)
}

func TestExtractStudents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.GenerationConfig)
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)
		assert.Equal(t, "ARRAY", req.GenerationConfig.ResponseSchema.Type)

		payload := `[{"englishName":"Mya Mya","burmeseName":"မြမြ","parentPhone":"09-333"},{"englishName":"","burmeseName":"","parentPhone":""}]`
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(textResponse(payload)))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})

	drafts, err := client.ExtractStudents(context.Background(), "Mya Mya မြမြ 09-333 and one more kid")
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, "Mya Mya", drafts[0].EnglishName)
	assert.Equal(t, "09-333", drafts[0].ParentPhone)

	// Blank fields get enrollment placeholders.
	assert.Equal(t, "Unnamed", drafts[1].EnglishName)
	assert.Equal(t, "—", drafts[1].BurmeseName)
	assert.Equal(t, "N/A", drafts[1].ParentPhone)
}

func TestExtractStudents_BadModelJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse("sorry, I cannot do that")))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})

	_, err := client.ExtractStudents(context.Background(), "whatever")
	assert.Error(t, err)
}

func TestGenerateContent_NoAPIKey(t *testing.T) {
	client := NewClient(Config{})

	_, err := client.MonthlyInsights(context.Background(), "2024-03", nil, nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGenerateContent_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})

	_, err := client.MonthlyInsights(context.Background(), "2024-03", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESOURCE_EXHAUSTED")
}

func TestGenerateContent_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})

	_, err := client.MonthlyInsights(context.Background(), "2024-03", nil, nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
