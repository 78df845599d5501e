package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cmsapi/internal/http/middleware"
)

// errorPayload is the body of every error response.
// Message carries diagnostic detail for unexpected failures and is omitted elsewhere.
type errorPayload struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
}

// apiError is a client-facing failure with a fixed status; handlers return it and the boundary renders it.
type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string { return e.message }

func badRequest(code, message string) error {
	return &apiError{status: fiber.StatusBadRequest, code: code, message: message}
}

func notFound(message string) error {
	return &apiError{status: fiber.StatusNotFound, code: "NOT_FOUND", message: message}
}

// writeError writes a standardized JSON error response.
func writeError(c *fiber.Ctx, status int, code, message, detail string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Code:      code,
		Error:     message,
		Message:   detail,
	})
}

// handle wraps fn with the request boundary; unexpected errors expose their text in "message".
func handle(op string, fn fiber.Handler) fiber.Handler {
	return boundary(op, true, fn)
}

// handleOpaque is handle without the diagnostic detail on 500 responses.
func handleOpaque(op string, fn fiber.Handler) fiber.Handler {
	return boundary(op, false, fn)
}

func boundary(op string, exposeDetail bool, fn fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := fn(c)
		if err == nil {
			return nil
		}

		var apiErr *apiError
		if errors.As(err, &apiErr) {
			return writeError(c, apiErr.status, apiErr.code, apiErr.message, "")
		}
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
			return writeError(c, fiberErr.Code, codeForStatus(fiberErr.Code), fiberErr.Message, "")
		}

		span := trace.SpanFromContext(c.UserContext())
		span.RecordError(err)
		span.SetStatus(codes.Error, op)

		middleware.LoggerFromCtx(c).Error().
			Err(err).
			Str("operation", op).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")

		detail := ""
		if exposeDetail {
			detail = err.Error()
		}
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", detail)
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	default:
		if status >= fiber.StatusInternalServerError {
			return "INTERNAL_ERROR"
		}
		return "REQUEST_ERROR"
	}
}

// ErrorHandler returns the Fiber global error handler for errors that never reach a handler boundary
// (unknown routes, disallowed methods, rejected credentials, panics recovered upstream).
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "Bad request", "")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "Unauthorized", "")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "Resource not found", "")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "Method not allowed", "")
		default:
			if status < fiber.StatusInternalServerError {
				return writeError(c, status, codeForStatus(status), fiberErr.Message, "")
			}
			middleware.LoggerFromCtx(c).Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", "")
		}
	}
}
