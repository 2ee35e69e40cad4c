package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"converso-backend/internal/models"
	"converso-backend/internal/services"
)

// fakeChatService records calls and returns canned results.
type fakeChatService struct {
	calls int
	reply string
	err   error

	gotMessages  []models.ChatMessage
	gotMaxTokens *int
	gotTemp      *float64
}

func (f *fakeChatService) Chat(ctx context.Context, messages []models.ChatMessage, maxOutputTokens *int, temperature *float64) (string, error) {
	f.calls++
	f.gotMessages = messages
	f.gotMaxTokens = maxOutputTokens
	f.gotTemp = temperature
	return f.reply, f.err
}

func postChat(t *testing.T, h *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.SendMessage(rr, req)
	return rr
}

func TestSendMessage_Success(t *testing.T) {
	fake := &fakeChatService{reply: "olá!"}
	h := NewChatHandler(fake)

	rr := postChat(t, h, `{"messages":[{"role":"user","content":"oi"}]}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var resp models.ChatResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("Expected success true")
	}
	if resp.Reply != "olá!" {
		t.Errorf("Expected reply 'olá!', got %q", resp.Reply)
	}
	if fake.calls != 1 {
		t.Errorf("Expected exactly one relay call, got %d", fake.calls)
	}
	if len(fake.gotMessages) != 1 || fake.gotMessages[0].Content != "oi" {
		t.Errorf("Expected messages forwarded verbatim, got %+v", fake.gotMessages)
	}
}

func TestSendMessage_OptionalFieldsForwarded(t *testing.T) {
	fake := &fakeChatService{reply: "ok"}
	h := NewChatHandler(fake)

	postChat(t, h, `{"messages":[{"role":"user","content":"oi"}],"max_output_tokens":256,"temperature":0.9}`)

	if fake.gotMaxTokens == nil || *fake.gotMaxTokens != 256 {
		t.Errorf("Expected max_output_tokens 256, got %v", fake.gotMaxTokens)
	}
	if fake.gotTemp == nil || *fake.gotTemp != 0.9 {
		t.Errorf("Expected temperature 0.9, got %v", fake.gotTemp)
	}
}

func TestSendMessage_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing messages", `{}`},
		{"empty messages", `{"messages":[]}`},
		{"messages not an array", `{"messages":"oi"}`},
		{"undecodable body", `{not json`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeChatService{}
			h := NewChatHandler(fake)

			rr := postChat(t, h, tc.body)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rr.Code)
			}
			if fake.calls != 0 {
				t.Errorf("Expected zero relay calls, got %d", fake.calls)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Success {
				t.Error("Expected success false")
			}
			if resp.Error != "messages (array) é obrigatório" {
				t.Errorf("Unexpected error message %q", resp.Error)
			}
		})
	}
}

func TestSendMessage_GatewayError(t *testing.T) {
	fake := &fakeChatService{err: &services.GatewayError{
		StatusCode: http.StatusServiceUnavailable,
		Body:       `{"error":"model overloaded"}`,
	}}
	h := NewChatHandler(fake)

	rr := postChat(t, h, `{"messages":[{"role":"user","content":"oi"}]}`)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Error != "Erro na Groq API" {
		t.Errorf("Unexpected error message %q", resp.Error)
	}
	if resp.Detail != `{"error":"model overloaded"}` {
		t.Errorf("Expected raw upstream detail, got %q", resp.Detail)
	}
}

func TestSendMessage_InternalError(t *testing.T) {
	fake := &fakeChatService{err: errors.New("dial tcp: connection refused")}
	h := NewChatHandler(fake)

	rr := postChat(t, h, `{"messages":[{"role":"user","content":"oi"}]}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Error != "Erro interno do servidor" {
		t.Errorf("Unexpected error message %q", resp.Error)
	}
	if resp.Detail != "" {
		t.Errorf("Internal detail must not leak to callers, got %q", resp.Detail)
	}
}

func TestHealthz(t *testing.T) {
	h := NewHealthHandler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.Healthz(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var resp struct {
		Status string `json:"status"`
		Time   int64  `json:"time"`
	}
	if err := json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("Expected status 'ok', got %q", resp.Status)
	}
	if resp.Time == 0 {
		t.Error("Expected epoch-ms timestamp")
	}
}
