package serverutils

import "github.com/gofiber/fiber/v2"

func SuccessResponse(message string, data interface{}) fiber.Map {
	return fiber.Map{
		"status":  "success",
		"message": message,
		"data":    data,
	}
}

func ErrorResponse(code int, message string) fiber.Map {
	return fiber.Map{
		"code":  code,
		"error": message,
	}
}

// StatusResponse is the {status, message} shape the evaluation page expects
// from its POST endpoints.
func StatusResponse(status, message string) fiber.Map {
	return fiber.Map{
		"status":  status,
		"message": message,
	}
}
