// ABOUTME: HTTP handler exposing the conversational agent at POST /api/chat.
// ABOUTME: Authenticated callers send a message and get the assistant's reply.

package chat

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/verdantlabs/todo-gateway/internal/auth"
)

// ChatRequest is the JSON request body for POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the JSON response for POST /api/chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Handler serves the chat endpoint.
type Handler struct {
	agent  *Agent
	logger *slog.Logger
}

// NewHandler creates the chat HTTP handler.
func NewHandler(agent *Agent, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{agent: agent, logger: logger}
}

// Routes registers the chat route on the mux. The auth middleware must wrap
// the mux so the user is available in context.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", h.handleChat)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserFromContext(r.Context())
	if userID == "" {
		h.sendJSONError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.sendJSONError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.agent.Respond(r.Context(), userID, req.Message)
	if err != nil {
		h.logger.Error("chat turn failed", "user_id", userID, "error", err)
		h.sendJSONError(w, http.StatusBadGateway, "assistant unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ChatResponse{Reply: reply})
}

// sendJSONError writes a JSON error response.
func (h *Handler) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
