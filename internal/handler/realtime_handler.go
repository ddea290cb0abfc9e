package handler

import (
	"bizchat-be/internal/pkg/logger"
	"bizchat-be/internal/pkg/serverutils"
	"bizchat-be/internal/service"
	internalWS "bizchat-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type RealtimeHandler struct {
	service service.IChatService
	tokens  *serverutils.SessionTokens
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewRealtimeHandler(service service.IChatService, tokens *serverutils.SessionTokens, hub *internalWS.Hub, log logger.ILogger) *RealtimeHandler {
	return &RealtimeHandler{
		service: service,
		tokens:  tokens,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs streams chat events of one session to a browser tab.
func (h *RealtimeHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on a handshake, so ?token= is accepted too
	tokenStr := serverutils.BearerToken(c)
	if tokenStr == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing token (Query 'token' or Header 'Authorization')")
	}

	sessionID, err := h.tokens.Parse(tokenStr)
	if err != nil {
		h.logger.Warn("RealtimeHandler", "Invalid Token in WS Handshake", map[string]interface{}{"error": err.Error()})
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	if _, err := h.service.GetState(c.UserContext(), sessionID); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("RealtimeHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, sessionID)
			h.logger.Info("RealtimeHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *RealtimeHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
