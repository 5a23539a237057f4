package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Error is a business-rule failure that already knows its HTTP status.
// Services return these; handlers translate with StatusOf.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(msg string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Status: fiber.StatusNotFound, Message: msg}
}

func InsufficientStock(msg string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Status: fiber.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Status: fiber.StatusForbidden, Message: msg}
}

// StatusOf maps any error to the HTTP status to respond with.
// Unknown errors surface as 500 with their message intact.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return fiber.StatusInternalServerError
}
