package ws

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/careercompass/backend/internal/handler/chat"
	"github.com/careercompass/backend/internal/logger"
	"github.com/careercompass/backend/internal/service/agent"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// Handler serves a websocket chat. History lives only as long as the
// connection.
type Handler struct {
	processor chat.Processor
	upgrader  websocket.Upgrader
	logger    *zap.Logger
}

func New(processor chat.Processor, log *zap.Logger) *Handler {
	return &Handler{
		processor: processor,
		logger:    logger.OrNop(log).Named("ws"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket route on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Message string `json:"message"`
}

type outboundMessage struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.processor == nil {
		http.Error(w, "Chatbot service is not available.", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go pingLoop(ctx, conn)

	h.logger.Debug("connection opened", zap.String("remote", r.RemoteAddr))

	var history []string
	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("read failed", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		out, updated := h.answer(ctx, msg, history)
		history = updated

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(out); err != nil {
			h.logger.Warn("write failed", zap.Error(err))
			return
		}
	}
}

func (h *Handler) answer(ctx context.Context, msg inboundMessage, history []string) (outboundMessage, []string) {
	if strings.TrimSpace(msg.Message) == "" {
		return outboundMessage{Error: "Missing 'message' in request body"}, history
	}

	reply, updated, err := h.processor.ProcessMessage(ctx, msg.Message, history)
	if err != nil {
		if errors.Is(err, agent.ErrUpstream) {
			h.logger.Warn("chatbot upstream unavailable", zap.Error(err))
			return outboundMessage{Error: "Chatbot service is not available."}, history
		}
		h.logger.Error("failed to process message", zap.Error(err))
		return outboundMessage{Error: "An internal server error occurred processing your message."}, history
	}
	return outboundMessage{Response: reply}, updated
}

// pingLoop keeps the connection alive. WriteControl may run concurrently
// with the reader's writes.
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
