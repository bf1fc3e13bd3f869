package models

import (
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	Rating        float64 `json:"rating" gorm:"type:decimal(2,1);not null"`
	Comment       string  `json:"comment"`
	ProviderID    uint    `json:"provider_id"`
	Provider      User    `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	CustomerID    uint    `json:"customer_id"`
	Customer      User    `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	AppointmentID uint    `json:"appointment_id"`
}

// BeforeCreate clamps the rating into the 1.0-5.0 range
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.Rating < 1.0 {
		r.Rating = 1.0
	} else if r.Rating > 5.0 {
		r.Rating = 5.0
	}
	return nil
}

// HasExistingReview checks whether the customer already reviewed this appointment
func (r *Review) HasExistingReview(tx *gorm.DB) (bool, error) {
	var count int64
	err := tx.Model(&Review{}).
		Where("customer_id = ? AND appointment_id = ? AND deleted_at IS NULL",
			r.CustomerID, r.AppointmentID).
		Count(&count).Error

	return count > 0, err
}
