package serverutils

import (
	"errors"

	"bizchat-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware renders any error returned down the chain as the
// standard JSON envelope. Unknown errors become 500s and are logged.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			log.Error("HTTP", "Unhandled error", map[string]interface{}{
				"error":  err.Error(),
				"path":   ctx.Path(),
				"method": ctx.Method(),
			})
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
