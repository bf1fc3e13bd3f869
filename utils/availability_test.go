package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email_role"}

	assert.True(t, IsUniqueViolation(unique))
	// gorm wraps driver errors before surfacing them
	assert.True(t, IsUniqueViolation(fmt.Errorf("create: %w", unique)))

	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"})) // fk violation
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, IsUniqueViolation(nil))
}
