package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"converso-backend/internal/models"
	"converso-backend/internal/services"
)

// chatService is what the handler needs from the Groq relay.
type chatService interface {
	Chat(ctx context.Context, messages []models.ChatMessage, maxOutputTokens *int, temperature *float64) (string, error)
}

type ChatHandler struct {
	groq chatService
}

func NewChatHandler(groq chatService) *ChatHandler {
	return &ChatHandler{groq: groq}
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error: "messages (array) é obrigatório",
		})
		return
	}

	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error: "messages (array) é obrigatório",
		})
		return
	}

	reply, err := h.groq.Chat(r.Context(), req.Messages, req.MaxOutputTokens, req.Temperature)
	if err != nil {
		var gw *services.GatewayError
		if errors.As(err, &gw) {
			log.Printf("Groq API error (status %d): %s", gw.StatusCode, gw.Body)
			writeJSON(w, http.StatusBadGateway, models.ErrorResponse{
				Error:  "Erro na Groq API",
				Detail: gw.Body,
			})
			return
		}

		log.Printf("chat relay failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error: "Erro interno do servidor",
		})
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Success: true, Reply: reply})
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
