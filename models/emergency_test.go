package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveIsIdempotent(t *testing.T) {
	resolvedAt := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	alert := &EmergencyAlert{
		Status:     AlertResolved,
		ResolvedAt: &resolvedAt,
	}

	// already resolved: no-op, no DB write, timestamp untouched
	assert.NoError(t, alert.Resolve(nil, time.Now()))
	assert.Equal(t, AlertResolved, alert.Status)
	assert.Equal(t, resolvedAt, *alert.ResolvedAt)
}
