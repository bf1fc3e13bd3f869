package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		code   ErrorCode
		status int
	}{
		{CodeValidation, fiber.StatusBadRequest},
		{CodeDuplicateIdentity, fiber.StatusConflict},
		{CodeInvalidCredentials, fiber.StatusUnauthorized},
		{CodeUnauthorized, fiber.StatusUnauthorized},
		{CodeRoleViolation, fiber.StatusForbidden},
		{CodeNotOwner, fiber.StatusForbidden},
		{CodeNotFound, fiber.StatusNotFound},
		{CodeSlotUnavailable, fiber.StatusConflict},
		{CodeInvalidTransition, fiber.StatusConflict},
		{CodeDependencyUnavailable, fiber.StatusBadGateway},
		{CodeInternal, fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.status, NewError(tt.code, "x").HTTPStatus())
		})
	}
}

func TestAPIErrorUnknownCodeFallsBackTo500(t *testing.T) {
	assert.Equal(t, fiber.StatusInternalServerError, NewError(ErrorCode("bogus"), "x").HTTPStatus())
}

func TestWrapErrorPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := WrapError(CodeInternal, "failed to save appointment", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to save appointment")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestJSONErrorWireShape(t *testing.T) {
	app := fiber.New()
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return JSONError(c, NewError(CodeSlotUnavailable, "Time slot is not available"))
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return JSONError(c, fmt.Errorf("pq: connection reset"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/conflict", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var body struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "slot_unavailable", body.Error.Code)
	assert.Equal(t, "Time slot is not available", body.Error.Message)

	// untyped errors must not leak storage details to the client
	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "internal_error", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "pq:")
}

func TestErrorsAsFindsAPIError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewError(CodeSlotUnavailable, "Time slot is not available"))

	var apiErr *APIError
	assert.True(t, errors.As(wrapped, &apiErr))
	assert.Equal(t, CodeSlotUnavailable, apiErr.Code)
}

func TestFetchErrorDistinguishesMissingRowFromFailure(t *testing.T) {
	missing := FetchError(gorm.ErrRecordNotFound, "Appointment not found")
	assert.Equal(t, CodeNotFound, missing.Code)
	assert.Equal(t, "Appointment not found", missing.Message)

	wrapped := FetchError(fmt.Errorf("query: %w", gorm.ErrRecordNotFound), "Appointment not found")
	assert.Equal(t, CodeNotFound, wrapped.Code)

	down := errors.New("connection refused")
	failure := FetchError(down, "Appointment not found")
	assert.Equal(t, CodeInternal, failure.Code)
	assert.ErrorIs(t, failure, down)
}
