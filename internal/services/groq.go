package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"converso-backend/internal/models"
)

const groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"

const (
	defaultMaxOutputTokens = 512
	defaultTemperature     = 0.2
)

// GatewayError is returned when Groq answers with a non-success status.
// Body carries the raw upstream response for diagnostics.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("Groq API returned status %d", e.StatusCode)
}

type GroqService struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewGroqService creates the relay client. A zero timeout leaves upstream
// calls unbounded, which is the default behavior.
func NewGroqService(apiKey, model string, timeout time.Duration) *GroqService {
	return &GroqService{
		apiKey:   apiKey,
		model:    model,
		endpoint: groqEndpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// completionRequest is the outbound Groq payload. Model is always the
// configured one; caller-supplied model values never reach this struct.
type completionRequest struct {
	Model           string               `json:"model"`
	Messages        []models.ChatMessage `json:"messages"`
	MaxOutputTokens int                  `json:"max_output_tokens"`
	Temperature     float64              `json:"temperature"`
}

// completionReply covers the known upstream shapes. Choices is the
// OpenAI-style form; Output shows up on some models and can be a bare string
// or a mixed array. Anything else falls through to the raw body.
type completionReply struct {
	Choices []struct {
		Message *models.ChatMessage `json:"message"`
		Text    string              `json:"text"`
	} `json:"choices"`
	Output json.RawMessage `json:"output"`
}

// Chat sends one completion request to Groq and returns the extracted reply
// text. It makes exactly one outbound call, no retries.
func (s *GroqService) Chat(ctx context.Context, messages []models.ChatMessage, maxOutputTokens *int, temperature *float64) (string, error) {
	payload := completionRequest{
		Model:           s.model,
		Messages:        messages,
		MaxOutputTokens: defaultMaxOutputTokens,
		Temperature:     defaultTemperature,
	}
	if maxOutputTokens != nil {
		payload.MaxOutputTokens = *maxOutputTokens
	}
	if temperature != nil {
		payload.Temperature = *temperature
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode Groq request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build Groq request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("Groq API call failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read Groq response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &GatewayError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return extractReply(raw), nil
}

// extractReply resolves the upstream body to reply text through an ordered
// fallback chain. The last resort is the raw body itself so that unexpected
// shapes stay visible to operators instead of turning into empty replies.
func extractReply(raw []byte) string {
	var reply completionReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return string(raw)
	}

	if len(reply.Choices) > 0 {
		first := reply.Choices[0]
		if first.Message != nil && first.Message.Content != "" {
			return first.Message.Content
		}
		if first.Text != "" {
			return first.Text
		}
	}

	if len(reply.Output) > 0 {
		if text := extractOutput(reply.Output); strings.TrimSpace(text) != "" {
			return text
		}
	}

	return string(raw)
}

// extractOutput handles the "output" field, which is either a bare string or
// an array mixing strings and {"text": ...} objects.
func extractOutput(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return ""
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		var str string
		if err := json.Unmarshal(item, &str); err == nil {
			parts = append(parts, str)
			continue
		}
		var obj struct {
			Text string `json:"text"`
		}
		json.Unmarshal(item, &obj)
		parts = append(parts, obj.Text)
	}
	return strings.Join(parts, "\n")
}
