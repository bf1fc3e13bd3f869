package utils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorCode is the stable machine-readable code returned to clients.
type ErrorCode string

const (
	CodeValidation            ErrorCode = "validation_error"
	CodeDuplicateIdentity     ErrorCode = "duplicate_identity"
	CodeInvalidCredentials    ErrorCode = "invalid_credentials"
	CodeUnauthorized          ErrorCode = "unauthorized"
	CodeRoleViolation         ErrorCode = "role_violation"
	CodeNotOwner              ErrorCode = "not_owner"
	CodeNotFound              ErrorCode = "not_found"
	CodeSlotUnavailable       ErrorCode = "slot_unavailable"
	CodeInvalidTransition     ErrorCode = "invalid_transition"
	CodeDependencyUnavailable ErrorCode = "dependency_unavailable"
	CodeInternal              ErrorCode = "internal_error"
)

var statusByCode = map[ErrorCode]int{
	CodeValidation:            fiber.StatusBadRequest,
	CodeDuplicateIdentity:     fiber.StatusConflict,
	CodeInvalidCredentials:    fiber.StatusUnauthorized,
	CodeUnauthorized:          fiber.StatusUnauthorized,
	CodeRoleViolation:         fiber.StatusForbidden,
	CodeNotOwner:              fiber.StatusForbidden,
	CodeNotFound:              fiber.StatusNotFound,
	CodeSlotUnavailable:       fiber.StatusConflict,
	CodeInvalidTransition:     fiber.StatusConflict,
	CodeDependencyUnavailable: fiber.StatusBadGateway,
	CodeInternal:              fiber.StatusInternalServerError,
}

// APIError carries a domain error code across handler boundaries. Every
// failing operation returns one; bare strings never reach the client.
type APIError struct {
	Code    ErrorCode
	Message string
	cause   error
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.cause }

func (e *APIError) HTTPStatus() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

func NewError(code ErrorCode, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

func WrapError(code ErrorCode, message string, cause error) *APIError {
	return &APIError{Code: code, Message: message, cause: cause}
}

// FetchError maps a gorm lookup failure: a missing row becomes not_found
// with message, anything else is a real database failure.
func FetchError(err error, message string) *APIError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewError(CodeNotFound, message)
	}
	return WrapError(CodeInternal, "Database lookup failed", err)
}

// ErrorBody is the wire shape for failures
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSONError writes err as a JSON error response. Untyped errors are logged
// and surfaced as internal_error without leaking storage details.
func JSONError(c *fiber.Ctx, err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), err)
		apiErr = NewError(CodeInternal, "Something went wrong")
	} else if apiErr.Code == CodeInternal && apiErr.cause != nil {
		log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), apiErr.cause)
	}

	return c.Status(apiErr.HTTPStatus()).JSON(fiber.Map{
		"error": ErrorBody{Code: string(apiErr.Code), Message: apiErr.Message},
	})
}
