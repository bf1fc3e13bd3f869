package models

import (
	"fmt"

	"gorm.io/gorm"
)

type Service struct {
	gorm.Model
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration"` // minutes
	Price           float64 `json:"price"`
	ProviderID      uint    `json:"provider_id"`
	Provider        User    `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	IsAvailable     bool    `json:"is_available" gorm:"default:true"`
}

// Validate checks the fields a provider controls on create/update.
func (s *Service) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.DurationMinutes <= 0 {
		return fmt.Errorf("duration must be greater than zero")
	}
	if s.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}
