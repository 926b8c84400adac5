package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/opiniondesk/opiniondesk-backend/internal/chat"
	"github.com/opiniondesk/opiniondesk-backend/internal/middleware"
	"github.com/opiniondesk/opiniondesk-backend/internal/repository"
	"github.com/opiniondesk/opiniondesk-backend/internal/ws"
)

// WSHandler handles the chat WebSocket endpoint
type WSHandler struct {
	hub            *ws.Hub
	verifier       chat.TokenVerifier
	chatRepo       repository.ChatRepository
	responder      chat.Responder
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *ws.Hub, verifier chat.TokenVerifier, chatRepo repository.ChatRepository, responder chat.Responder, allowedOrigins string) *WSHandler {
	h := &WSHandler{
		hub:            hub,
		verifier:       verifier,
		chatRepo:       chatRepo,
		responder:      responder,
		allowedOrigins: parseOrigins(allowedOrigins),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// parseOrigins parses comma-separated origins string
func parseOrigins(origins string) []string {
	if origins == "" {
		return nil
	}
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// checkOrigin validates the request origin against allowed origins
func (h *WSHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // Same-origin requests don't have Origin header
	}

	// If no allowed origins configured, allow all (development mode)
	if len(h.allowedOrigins) == 0 {
		return true
	}

	for _, allowed := range h.allowedOrigins {
		if origin == allowed {
			return true
		}
	}

	return false
}

// Connect handles GET /ws/chat — WebSocket upgrade. The connection
// starts unauthenticated; the client proves itself with an
// authenticate frame (or a token on its first chat message).
func (h *WSHandler) Connect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	// Once the connection has an identity, outbound frames route
	// through the hub so every connection of that user — on any
	// instance, via redis pub/sub — sees the conversation. Before
	// authentication frames can only go to this socket.
	var client *ws.Client
	session := chat.NewSession(h.verifier, h.chatRepo, h.responder,
		func(data []byte) {
			if userID := client.UserID(); userID != "" {
				h.hub.SendToUser(userID, data)
				return
			}
			client.Send(data)
		},
		func(userID string) { client.SetUserID(userID) },
	)
	client = ws.NewClient(h.hub, conn, session.HandleFrame)

	middleware.WSConnectionOpened()
	go client.WritePump()
	go func() {
		defer middleware.WSConnectionClosed()
		client.ReadPump()
	}()
}
