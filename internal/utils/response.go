package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope every JSON endpoint answers with. Binary
// endpoints (the QR badge) bypass it.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// SendSuccess sends a successful JSON response with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return sendSuccess(c, fiber.StatusOK, message, data)
}

// SendCreated sends a success payload for a newly created resource.
func SendCreated(c *fiber.Ctx, message string, data interface{}) error {
	return sendSuccess(c, fiber.StatusCreated, message, data)
}

func sendSuccess(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}

	return c.Status(status).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
	})
}
