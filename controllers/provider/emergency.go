package provider

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gowash/carwash-api/db"
	"github.com/gowash/carwash-api/models"
	"github.com/gowash/carwash-api/utils"
)

type emergencyInput struct {
	Location string `json:"location" validate:"required"`
}

// RaiseEmergency records an active alert for the provider. Alerts are
// append-only and never deduplicated; a provider in trouble can fire as
// many as they need.
func RaiseEmergency(c *fiber.Ctx) error {
	providerID := c.Locals("userID").(uint)

	input := new(emergencyInput)
	if err := c.BodyParser(input); err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "Cannot parse JSON"))
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.JSONError(c, err)
	}

	alert := models.EmergencyAlert{
		ProviderID: providerID,
		Location:   input.Location,
		Status:     models.AlertActive,
	}

	if err := db.DB.Create(&alert).Error; err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to raise alert", err))
	}

	// A real deployment would page dispatch here
	return c.Status(fiber.StatusCreated).JSON(alert)
}

// GetEmergencyAlerts lists the provider's own alerts, newest first
func GetEmergencyAlerts(c *fiber.Ctx) error {
	providerID := c.Locals("userID").(uint)

	var alerts []models.EmergencyAlert
	err := db.DB.Where("provider_id = ?", providerID).
		Order("created_at desc").
		Find(&alerts).Error
	if err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to fetch alerts", err))
	}

	return c.JSON(alerts)
}

// ResolveEmergency closes an alert. Resolving twice is a no-op.
func ResolveEmergency(c *fiber.Ctx) error {
	providerID := c.Locals("userID").(uint)

	var alert models.EmergencyAlert
	if err := db.DB.First(&alert, c.Params("id")).Error; err != nil {
		return utils.JSONError(c, utils.FetchError(err, "Alert not found"))
	}
	if alert.ProviderID != providerID {
		return utils.JSONError(c, utils.NewError(utils.CodeNotOwner, "You can only resolve your own alerts"))
	}

	if err := alert.Resolve(db.DB, time.Now().UTC()); err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to resolve alert", err))
	}

	return c.JSON(alert)
}
