package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/careercompass/backend/internal/logger"
	"github.com/careercompass/backend/internal/service/agent"
	"github.com/careercompass/backend/internal/service/session"
	"github.com/careercompass/backend/pkg/utils"
)

// SessionCookie carries the caller's session id.
const SessionCookie = "session_id"

const (
	msgMissingMessage = "Missing 'message' in request body"
	msgNotJSON        = "Request must be JSON"
	msgUnavailable    = "Chatbot service is not available."
	msgInternal       = "An internal server error occurred processing your message."
)

// Processor answers one message given the session's history.
type Processor interface {
	ProcessMessage(ctx context.Context, userInput string, history []string) (string, []string, error)
}

// CookieOptions control the session cookie.
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

// Handler serves the chat endpoint. A nil Processor means the chatbot is not
// configured and every message is answered with 503.
type Handler struct {
	processor Processor
	sessions  session.Store
	cookie    CookieOptions
	logger    *zap.Logger
}

func New(processor Processor, sessions session.Store, cookie CookieOptions, log *zap.Logger) *Handler {
	return &Handler{
		processor: processor,
		sessions:  sessions,
		cookie:    cookie,
		logger:    logger.OrNop(log).Named("chat_handler"),
	}
}

// RegisterRoutes mounts the chat routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Delete("/chat", h.handleReset)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if h.processor == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, msgUnavailable)
		return
	}

	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, msgNotJSON)
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, msgMissingMessage)
		return
	}

	ctx := r.Context()
	sessionID := h.sessionID(w, r)

	history, err := h.sessions.Load(ctx, sessionID)
	if err != nil {
		h.logger.Error("failed to load session history", zap.String("session", sessionID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	reply, updated, err := h.processor.ProcessMessage(ctx, payload.Message, history)
	if err != nil {
		if errors.Is(err, agent.ErrUpstream) {
			h.logger.Warn("chatbot upstream unavailable", zap.String("session", sessionID), zap.Error(err))
			utils.RespondError(w, http.StatusServiceUnavailable, msgUnavailable)
			return
		}
		h.logger.Error("failed to process message", zap.String("session", sessionID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	// The reply is still returned when the history cannot be saved.
	if err := h.sessions.Save(ctx, sessionID, updated); err != nil {
		h.logger.Error("failed to save session history", zap.String("session", sessionID), zap.Error(err))
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{Response: reply})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil && session.ValidID(cookie.Value) {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Error("failed to delete session", zap.String("session", cookie.Value), zap.Error(err))
			utils.RespondError(w, http.StatusInternalServerError, "failed to clear chat history")
			return
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// sessionID returns the caller's session id, issuing a new one when the
// cookie is absent or malformed. The cookie is rewritten on every call to
// extend its lifetime.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	id := session.NewID()
	if cookie, err := r.Cookie(SessionCookie); err == nil && session.ValidID(cookie.Value) {
		id = cookie.Value
	}

	sameSite := http.SameSiteLaxMode
	if h.cookie.Secure {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: sameSite,
	})
	return id
}
