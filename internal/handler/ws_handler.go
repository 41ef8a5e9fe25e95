package handler

import (
	"net/http"

	"ticket-scanner-server/internal/service"
	"ticket-scanner-server/internal/websocket"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WebSocketHandler struct {
	manager     *websocket.Manager
	authService *service.AuthService
	upgrader    ws.Upgrader
	logger      *zap.Logger
}

func NewWebSocketHandler(manager *websocket.Manager, authService *service.AuthService, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		manager:     manager,
		authService: authService,
		logger:      logger,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleConnection subscribes a device to its user's scan feed. Browsers
// cannot set headers on websocket requests, so the token may also come in
// the "token" query parameter.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.authService.Authenticate(r.Context(), r)
	if !ok {
		if token := r.URL.Query().Get("token"); token != "" {
			principal, ok = h.authService.AuthenticateToken(r.Context(), token)
		}
	}
	if !ok {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade feed connection", zap.Error(err))
		return
	}

	client := websocket.NewClient(uuid.New().String(), principal.User.ID, principal.Device.ID, conn, h.manager)

	h.manager.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
