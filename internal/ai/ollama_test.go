package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lingofeed/internal/config"
	"github.com/example/lingofeed/internal/feedback"
)

func newTestClient(url string) *Ollama {
	return NewOllama(config.Ollama{BaseURL: url, Model: "gemma", Timeout: 2 * time.Second})
}

func request() feedback.Request {
	return feedback.Request{
		Accuracy:     80,
		Band:         feedback.BandPositive,
		BestCategory: "인사",
		Family:       feedback.FamilyAccuracy,
	}
}

func TestGenerateFeedback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gemma", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "json", req.Format)
		assert.Contains(t, req.Prompt, "80%")
		assert.Contains(t, req.Prompt, "인사")

		json.NewEncoder(w).Encode(generateResponse{
			Response: `{"summary":"오늘 80% 성공했어요","praise":"잘했어요 🌟","motivation":"내일도 화이팅!"}`,
		})
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).GenerateFeedback(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, "오늘 80% 성공했어요", text.Summary)
	assert.Equal(t, "잘했어요 🌟", text.Praise)
	assert.Equal(t, "내일도 화이팅!", text.Motivation)
}

func TestGenerateFeedbackServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Error: "model not found"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GenerateFeedback(context.Background(), request())
	assert.ErrorContains(t, err, "model not found")
}

func TestGenerateFeedbackBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GenerateFeedback(context.Background(), request())
	assert.Error(t, err)
}

func TestGenerateFeedbackMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Response: "not json at all"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GenerateFeedback(context.Background(), request())
	assert.Error(t, err)
}

func TestPromptHandlesMissingCategory(t *testing.T) {
	req := request()
	req.BestCategory = ""
	assert.Contains(t, buildPrompt(req), "없음")
}
