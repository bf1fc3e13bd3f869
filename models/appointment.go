package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrInvalidTransition marks every rejected status change.
var ErrInvalidTransition = errors.New("invalid status transition")

type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in-progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

// transitions is the full appointment lifecycle. completed and cancelled
// are terminal.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

// IsValidStatus reports whether s is one of the known status values.
func IsValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether from -> to is an allowed status change.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func IsTerminal(s AppointmentStatus) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment references its customer, provider and service by id; the
// provider id is denormalized from the service at booking time so provider
// day views never need a join through services.
type Appointment struct {
	gorm.Model
	CustomerID  uint    `json:"customer_id"`
	Customer    User    `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ProviderID  uint    `json:"provider_id"`
	Provider    User    `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	ServiceID   uint    `json:"service_id"`
	Service     Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	ServiceDate time.Time `json:"service_date"` // day of the wash, UTC midnight
	StartTime   string    `json:"start_time"`   // "HH:MM", 24h
	EndTime     string    `json:"end_time"`     // "HH:MM", 24h

	Status AppointmentStatus `json:"status"`

	// TotalPrice is the service price at booking time. Later price edits on
	// the service must not change it.
	TotalPrice float64 `json:"total_price"`

	Notes     string     `json:"notes"`
	StartedAt *time.Time `json:"started_at,omitempty"` // stamped when service delivery begins
	ReceiptID string     `json:"receipt_id,omitempty"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

// UpdateStatus validates the transition against the lifecycle and persists
// the new status. Callers must have already checked ownership.
func (a *Appointment) UpdateStatus(tx *gorm.DB, newStatus AppointmentStatus) error {
	if !IsValidStatus(newStatus) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, newStatus)
	}
	if IsTerminal(a.Status) {
		return fmt.Errorf("%w: no transitions allowed from %s", ErrInvalidTransition, a.Status)
	}
	if !CanTransition(a.Status, newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, newStatus)
	}

	a.Status = newStatus
	return tx.Save(a).Error
}

// Deliver moves the appointment to in-progress and stamps the moment work
// actually began. Valid only from pending or confirmed.
func (a *Appointment) Deliver(tx *gorm.DB, now time.Time) error {
	if a.Status != StatusPending && a.Status != StatusConfirmed {
		return fmt.Errorf("%w: cannot start service from %s", ErrInvalidTransition, a.Status)
	}

	a.Status = StatusInProgress
	a.StartedAt = &now
	return tx.Save(a).Error
}

// CanCancel reports whether the owning customer may still cancel.
func (a *Appointment) CanCancel() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}
