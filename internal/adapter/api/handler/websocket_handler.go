package handler

import (
	"context"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"tukarlapak/internal/adapter/api/middleware"
	"tukarlapak/internal/infrastructure/realtime"
	"tukarlapak/internal/usecase"
	"tukarlapak/pkg/errors"
	"tukarlapak/pkg/logger"
)

type WebSocketHandler struct {
	hub            *realtime.Hub
	chatUseCase    *usecase.ChatUseCase
	authMiddleware *middleware.AuthMiddleware
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // mobile clients connect from app schemes, not origins
	},
}

func NewWebSocketHandler(hub *realtime.Hub, chatUseCase *usecase.ChatUseCase, authMiddleware *middleware.AuthMiddleware) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		chatUseCase:    chatUseCase,
		authMiddleware: authMiddleware,
	}
}

// HandleWebSocket authenticates the upgrade via ?token= and attaches the
// connection to the hub. One live connection per user; a reconnect replaces
// the previous one.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return errors.Unauthorized("Authentication token required", nil)
	}

	userID, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
	if err != nil {
		return errors.Unauthorized("Invalid or expired token", err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := realtime.NewClient(userID, conn)
	client.OnTyping = func(signal realtime.TypingSignal) {
		h.chatUseCase.RelayTyping(context.Background(), signal)
	}

	h.hub.Register <- client

	logger.Debug("websocket connected: %s", userID)

	go client.ReadPump(h.hub)
	go client.WritePump()

	return nil
}
