package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gowash/carwash-api/models"
)

func TestApplyServicePatch(t *testing.T) {
	base := models.Service{
		Name:            "Exterior Wash",
		Description:     "Hand wash and dry",
		DurationMinutes: 45,
		Price:           29.99,
		IsAvailable:     true,
	}

	t.Run("absent fields keep stored values", func(t *testing.T) {
		service := base
		applyServicePatch(&service, &serviceInput{})
		assert.Equal(t, base, service)
	})

	t.Run("price can be set to zero", func(t *testing.T) {
		service := base
		price := 0.0
		applyServicePatch(&service, &serviceInput{Price: &price})
		assert.Equal(t, 0.0, service.Price)
		assert.Equal(t, base.Name, service.Name)
	})

	t.Run("present fields overwrite", func(t *testing.T) {
		service := base
		price := 35.50
		unavailable := false
		applyServicePatch(&service, &serviceInput{
			Name:        "Full Detail",
			Duration:    90,
			Price:       &price,
			IsAvailable: &unavailable,
		})
		assert.Equal(t, "Full Detail", service.Name)
		assert.Equal(t, 90, service.DurationMinutes)
		assert.Equal(t, 35.50, service.Price)
		assert.False(t, service.IsAvailable)
		assert.Equal(t, base.Description, service.Description)
	})
}
