package db

import (
	"fmt"
	"log"

	"github.com/gowash/carwash-api/models"
)

// Migrate runs the schema migrations. Call after Init.
func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Appointment{},
		&models.Review{},
		&models.EmergencyAlert{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	// Storage-level guard against double booking: at most one live (not
	// cancelled, not soft-deleted) appointment per slot. The availability
	// check in the booking transaction handles the common case; this index
	// closes the race between two concurrent bookings of the same slot.
	err = DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_slot
		ON appointments (service_id, service_date, start_time, end_time)
		WHERE status <> 'cancelled' AND deleted_at IS NULL
	`).Error
	if err != nil {
		log.Fatal("Failed to create slot uniqueness index: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
