package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/docsync-labs/docsync/internal/core/ports/driven"
)

// Ensure SummaryService implements the interface.
var _ driven.SummaryService = (*SummaryService)(nil)

// DefaultSummaryModel is the chat model used for title and summary
// generation.
const DefaultSummaryModel = "gpt-4o-mini"

const summaryPrompt = `You are given a chunk of a document. Respond with a JSON object
with exactly two string fields: "title", a short descriptive title for the
chunk, and "summary", a one or two sentence summary of its content.
Respond with JSON only.`

// SummaryService generates chunk titles and summaries via the OpenAI chat
// completions API.
type SummaryService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type titleSummary struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// NewSummaryService creates a new OpenAI summary service.
func NewSummaryService(cfg Config) (*SummaryService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultSummaryModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &SummaryService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// TitleAndSummary returns a generated title and summary for the content.
// contextHint names the document and page so the model can disambiguate
// fragments.
func (s *SummaryService) TitleAndSummary(ctx context.Context, content, contextHint string) (string, string, error) {
	user := content
	if contextHint != "" {
		user = fmt.Sprintf("From %s:\n\n%s", contextHint, content)
	}

	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: summaryPrompt},
			{Role: "user", Content: user},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := postJSON(ctx, s.client, s.baseURL+"/chat/completions", s.apiKey, reqBody)
	if err != nil {
		return "", "", err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", "", fmt.Errorf("decode response: %w", err)
	}
	if chatResp.Error != nil {
		return "", "", fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", "", fmt.Errorf("openai: no completion returned")
	}

	var result titleSummary
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &result); err != nil {
		return "", "", fmt.Errorf("decode title/summary payload: %w", err)
	}

	return result.Title, result.Summary, nil
}

// Close releases resources.
func (s *SummaryService) Close() error {
	return nil
}
