package handler

import "github.com/gofiber/fiber/v2"

const (
	// APIPath is the prefix of the json api.
	APIPath = "/api"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)

// ErrorResponse is the body of every failed api call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error replies with status and msg.
func Error(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Error: msg})
}
