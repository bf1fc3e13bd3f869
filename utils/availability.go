package utils

import (
	"errors"
	"time"

	"github.com/gowash/carwash-api/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// CheckSlotAvailable reports whether the exact slot (service, date, start,
// end) has no live appointment. Must be called inside a transaction: any
// conflicting row is locked FOR UPDATE so two concurrent bookings of the
// same slot serialize on it.
func CheckSlotAvailable(tx *gorm.DB, serviceID uint, serviceDate time.Time, startTime, endTime string) (bool, error) {
	var existing models.Appointment
	err := tx.Raw(`
		SELECT *
		FROM appointments
		WHERE service_id = ?
		  AND service_date = ?
		  AND start_time = ?
		  AND end_time = ?
		  AND status <> 'cancelled'
		  AND deleted_at IS NULL
		LIMIT 1
		FOR UPDATE
	`, serviceID, serviceDate, startTime, endTime).Scan(&existing).Error

	if err != nil {
		return false, err
	}
	return existing.ID == 0, nil
}

// IsUniqueViolation reports whether err is the slot uniqueness index
// rejecting an insert. That path only triggers when two transactions raced
// past the availability check, so it maps to slot_unavailable upstream.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
