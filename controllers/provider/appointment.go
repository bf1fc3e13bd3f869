package provider

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gowash/carwash-api/db"
	"github.com/gowash/carwash-api/models"
	"github.com/gowash/carwash-api/utils"
)

// GetAppointmentsForDate returns the provider's schedule for one day,
// ordered by start time so two reads of the same data always render the
// same way.
func GetAppointmentsForDate(c *fiber.Ctx) error {
	providerID := c.Locals("userID").(uint)

	date, err := utils.ParseDate(c.Params("date"))
	if err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, err.Error()))
	}
	startOfDay, endOfDay := utils.DayWindow(date)

	var appointments []models.Appointment
	err = db.DB.Preload("Customer").Preload("Service").
		Where("provider_id = ?", providerID).
		Where("service_date >= ? AND service_date <= ?", startOfDay, endOfDay).
		Order("start_time asc").
		Find(&appointments).Error
	if err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to fetch appointments", err))
	}

	for i := range appointments {
		appointments[i].Customer.Password = ""
	}
	return c.JSON(appointments)
}

type statusInput struct {
	Status string `json:"status" validate:"required"`
}

// UpdateAppointmentStatus moves an appointment through its lifecycle. Only
// the appointment's own provider may call it; the transition rules live on
// the model.
func UpdateAppointmentStatus(c *fiber.Ctx) error {
	providerID := c.Locals("userID").(uint)

	input := new(statusInput)
	if err := c.BodyParser(input); err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "Cannot parse JSON"))
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.JSONError(c, err)
	}

	newStatus := models.AppointmentStatus(input.Status)
	if !models.IsValidStatus(newStatus) {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation,
			"Status must be one of: pending, confirmed, in-progress, completed, cancelled"))
	}

	appointment, err := loadOwnedAppointment(c.Params("id"), providerID)
	if err != nil {
		return utils.JSONError(c, err)
	}

	if err := appointment.UpdateStatus(db.DB, newStatus); err != nil {
		if errors.Is(err, models.ErrInvalidTransition) {
			return utils.JSONError(c, utils.NewError(utils.CodeInvalidTransition, err.Error()))
		}
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to update appointment", err))
	}

	return c.JSON(appointment)
}

// DeliverService marks the wash as started: status in-progress plus the
// started_at stamp. Valid only from pending or confirmed.
func DeliverService(c *fiber.Ctx) error {
	providerID := c.Locals("userID").(uint)

	appointment, err := loadOwnedAppointment(c.Params("id"), providerID)
	if err != nil {
		return utils.JSONError(c, err)
	}

	if err := appointment.Deliver(db.DB, time.Now().UTC()); err != nil {
		if errors.Is(err, models.ErrInvalidTransition) {
			return utils.JSONError(c, utils.NewError(utils.CodeInvalidTransition, err.Error()))
		}
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to start service", err))
	}

	return c.JSON(appointment)
}

func loadOwnedAppointment(id string, providerID uint) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := db.DB.First(&appointment, id).Error; err != nil {
		return nil, utils.FetchError(err, "Appointment not found")
	}
	if appointment.ProviderID != providerID {
		return nil, utils.NewError(utils.CodeNotOwner, "You can only manage your own appointments")
	}
	return &appointment, nil
}
