// Package ai implements the feedback text generator on a local Ollama
// instance. Generation is best effort: callers fall back to canned
// phrasing whenever this client errors.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/example/lingofeed/internal/config"
	"github.com/example/lingofeed/internal/feedback"
)

// Ollama is a client for the Ollama /api/generate endpoint.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllama creates a client from the configuration.
func NewOllama(cfg config.Ollama) *Ollama {
	return &Ollama{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// GenerateFeedback asks the model for the three daily phrases as a JSON
// object. The returned text is not length-validated here; the composer
// enforces the contract.
func (o *Ollama) GenerateFeedback(ctx context.Context, req feedback.Request) (feedback.Text, error) {
	request := generateRequest{
		Model:  o.model,
		Prompt: buildPrompt(req),
		Stream: false,
		Format: "json",
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return feedback.Text{}, fmt.Errorf("failed to marshal request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewBuffer(requestData))
	if err != nil {
		return feedback.Text{}, fmt.Errorf("failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return feedback.Text{}, fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return feedback.Text{}, fmt.Errorf("unexpected status %d from generation service", resp.StatusCode)
	}

	var response generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return feedback.Text{}, fmt.Errorf("failed to decode response: %v", err)
	}
	if response.Error != "" {
		return feedback.Text{}, fmt.Errorf("generation service error: %s", response.Error)
	}

	var text feedback.Text
	if err := json.Unmarshal([]byte(response.Response), &text); err != nil {
		return feedback.Text{}, fmt.Errorf("failed to parse generated text: %v", err)
	}
	return text, nil
}

// buildPrompt renders the Korean generation prompt from the derived
// snapshot values.
func buildPrompt(req feedback.Request) string {
	category := req.BestCategory
	if category == "" {
		category = "없음"
	}

	tone := map[feedback.Band]string{
		feedback.BandStrong:      "아주 칭찬하는",
		feedback.BandPositive:    "긍정적인",
		feedback.BandEncouraging: "격려하는",
	}[req.Band]

	return fmt.Sprintf(
		"당신은 한국어 듣기 학습 앱의 피드백 작성자입니다.\n"+
			"오늘의 학습 결과:\n"+
			"- 정답률: %d%%\n"+
			"- 가장 잘한 카테고리: %s\n"+
			"- 성장 단계: %s\n\n"+
			"%s 말투로 JSON 객체를 만들어 주세요. 키는 summary, praise, motivation 세 개이며 "+
			"각 값은 이모지를 포함해 25자 이하의 한국어 한 문장이어야 합니다. "+
			"JSON 외의 다른 텍스트는 출력하지 마세요.",
		req.Accuracy, category, req.Phase.Label(), tone,
	)
}
