package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerBody struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required"`
}

func TestValidateStruct(t *testing.T) {
	valid := registerBody{Name: "Sam", Email: "sam@example.com", Password: "hunter22", Phone: "5551234567"}
	assert.NoError(t, ValidateStruct(valid))

	missing := registerBody{Email: "sam@example.com", Password: "hunter22", Phone: "5551234567"}
	err := ValidateStruct(missing)
	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, CodeValidation, apiErr.Code)
	assert.Contains(t, apiErr.Message, "Name")

	badEmail := registerBody{Name: "Sam", Email: "not-an-email", Password: "hunter22", Phone: "5551234567"}
	err = ValidateStruct(badEmail)
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, CodeValidation, apiErr.Code)

	shortPassword := registerBody{Name: "Sam", Email: "sam@example.com", Password: "abc", Phone: "5551234567"}
	err = ValidateStruct(shortPassword)
	assert.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Message, "Password")
}

func TestGenerateVerificationCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := GenerateVerificationCode()
		assert.Len(t, code, 6)
		for _, ch := range code {
			assert.True(t, ch >= '0' && ch <= '9')
		}
		seen[code] = true
	}
	// 50 draws from a million values should not all collide
	assert.Greater(t, len(seen), 1)
}

func TestGenerateTicket(t *testing.T) {
	a := GenerateTicket()
	b := GenerateTicket()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
