package models

import (
	"time"

	"gorm.io/gorm"
)

type AlertStatus string

const (
	AlertActive   AlertStatus = "active"
	AlertResolved AlertStatus = "resolved"
)

// EmergencyAlert is append-only: raised by a provider, optionally resolved,
// never deleted.
type EmergencyAlert struct {
	gorm.Model
	ProviderID uint        `json:"provider_id"`
	Provider   User        `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	Location   string      `json:"location"` // opaque coordinate string from the client
	Status     AlertStatus `json:"status"`
	ResolvedAt *time.Time  `json:"resolved_at,omitempty"`
}

func (a *EmergencyAlert) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = AlertActive
	}
	return nil
}

// Resolve marks the alert resolved. Resolving an already-resolved alert is
// a no-op, not an error.
func (a *EmergencyAlert) Resolve(tx *gorm.DB, now time.Time) error {
	if a.Status == AlertResolved {
		return nil
	}
	a.Status = AlertResolved
	a.ResolvedAt = &now
	return tx.Save(a).Error
}
