package serverutils

import (
	"errors"

	"audio-eval-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler is installed as fiber.Config.ErrorHandler. *fiber.Error
// keeps its code; anything else becomes a logged 500.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			log.Error("HTTP", "Unhandled error", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
