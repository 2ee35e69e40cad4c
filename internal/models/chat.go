package models

// ChatMessage represents a single turn in a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "system" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Messages        []ChatMessage `json:"messages"`
	MaxOutputTokens *int          `json:"max_output_tokens,omitempty"`
	Temperature     *float64      `json:"temperature,omitempty"`
}

// ChatResponse is the reply returned to the caller on success.
type ChatResponse struct {
	Success bool   `json:"success"`
	Reply   string `json:"reply"`
}

// ErrorResponse is the envelope for any failed chat call.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Detail  string `json:"detail,omitempty"`
}
