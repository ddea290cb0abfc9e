package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// BearerToken reads "Authorization: Bearer <token>", falling back to the
// token query parameter browsers use for websocket handshakes.
func BearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ctx.Query("token")
}

func SessionMiddleware(tokens *SessionTokens) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := BearerToken(ctx)
		if tokenStr == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing token")
		}

		sessionID, err := tokens.Parse(tokenStr)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		ctx.Locals(LocalsSessionID, sessionID)
		return ctx.Next()
	}
}

// SessionID returns the id stored by SessionMiddleware.
func SessionID(ctx *fiber.Ctx) uuid.UUID {
	if id, ok := ctx.Locals(LocalsSessionID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
