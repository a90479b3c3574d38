package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"arcapi/internal/apperr"
	"arcapi/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeAppError maps a service-layer error onto the HTTP surface.
// Storage detail never reaches the client.
func writeAppError(c *fiber.Ctx, err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		res := errorPayload{
			RequestID: requestIDFromCtx(c),
			Error: errorEnvelope{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
				Field:   apperr.FieldOf(err),
			},
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(res)
	case apperr.KindAuthorization:
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	case apperr.KindNotFound:
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// parseID reads a positive int64 route parameter.
func parseID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// invalidID writes the standard bad-id response.
func invalidID(c *fiber.Ctx, name string) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid "+name+" parameter")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "authentication required")
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", "insufficient privileges")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
