package response

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorBody is the body of every service failure
type ErrorBody struct {
	Error            bool   `json:"error"`
	Status           int    `json:"status"`
	ErrorCode        string `json:"errorCode"`
	Message          string `json:"message"`
	Path             string `json:"path"`
	Timestamp        string `json:"timestamp"`
	RemainingSeconds *int64 `json:"remainingSeconds,omitempty"`
}

// AuthErrorBody is the body of a 401 raised before a handler runs
type AuthErrorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Path      string `json:"path"`
	Timestamp string `json:"timestamp"`
	Details   string `json:"details"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail sends an ErrorBody with the given status and code
func Fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(newErrorBody(c, status, code, message))
}

// Locked sends a 423 response carrying the remaining lock time
func Locked(c *fiber.Ctx, code, message string, remainingSeconds int64) error {
	body := newErrorBody(c, fiber.StatusLocked, code, message)
	body.RemainingSeconds = &remainingSeconds
	return c.Status(fiber.StatusLocked).JSON(body)
}

// AuthFailure sends a 401 with the authentication entry point body
func AuthFailure(c *fiber.Ctx, message, details string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(AuthErrorBody{
		Error:     "Unauthorized",
		Message:   message,
		Status:    fiber.StatusUnauthorized,
		Path:      c.Path(),
		Timestamp: timestamp(),
		Details:   details,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusBadRequest, "VALIDATION_ERROR", message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusForbidden, "ACCESS_DENIED", message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusNotFound, "RESOURCE_NOT_FOUND", message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
}

func newErrorBody(c *fiber.Ctx, status int, code, message string) ErrorBody {
	return ErrorBody{
		Error:     true,
		Status:    status,
		ErrorCode: code,
		Message:   message,
		Path:      c.Path(),
		Timestamp: timestamp(),
	}
}

func timestamp() string {
	return time.Now().Format(time.RFC3339)
}
