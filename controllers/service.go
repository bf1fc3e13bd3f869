package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gowash/carwash-api/db"
	"github.com/gowash/carwash-api/models"
	"github.com/gowash/carwash-api/utils"
)

// GetAllServices returns every listed service. Public, no auth.
func GetAllServices(c *fiber.Ctx) error {
	var services []models.Service
	if err := db.DB.Preload("Provider").Find(&services).Error; err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to fetch services", err))
	}

	for i := range services {
		services[i].Provider.Password = ""
	}
	return c.JSON(services)
}

// GetService returns one service by id. Public, no auth.
func GetService(c *fiber.Ctx) error {
	id := c.Params("id")

	var service models.Service
	if err := db.DB.Preload("Provider").First(&service, id).Error; err != nil {
		return utils.JSONError(c, utils.FetchError(err, "Service not found"))
	}

	service.Provider.Password = ""
	return c.JSON(service)
}

type serviceInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Duration    int      `json:"duration"` // minutes
	Price       *float64 `json:"price"`    // pointer so a free listing (0) is expressible
	IsAvailable *bool    `json:"is_available"`
}

// applyServicePatch copies the fields present in input onto service.
// Absent fields keep their stored value.
func applyServicePatch(service *models.Service, input *serviceInput) {
	if input.Name != "" {
		service.Name = input.Name
	}
	if input.Description != "" {
		service.Description = input.Description
	}
	if input.Duration != 0 {
		service.DurationMinutes = input.Duration
	}
	if input.Price != nil {
		service.Price = *input.Price
	}
	if input.IsAvailable != nil {
		service.IsAvailable = *input.IsAvailable
	}
}

// CreateService lists a new service owned by the logged-in provider
func CreateService(c *fiber.Ctx) error {
	providerID := c.Locals("userID").(uint)

	input := new(serviceInput)
	if err := c.BodyParser(input); err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "Cannot parse JSON"))
	}

	service := models.Service{
		Name:            input.Name,
		Description:     input.Description,
		DurationMinutes: input.Duration,
		ProviderID:      providerID,
		IsAvailable:     true,
	}
	if input.Price != nil {
		service.Price = *input.Price
	}
	if input.IsAvailable != nil {
		service.IsAvailable = *input.IsAvailable
	}

	if err := service.Validate(); err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, err.Error()))
	}

	if err := db.DB.Create(&service).Error; err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to create service", err))
	}

	return c.Status(fiber.StatusCreated).JSON(service)
}

// loadOwnedService fetches a service and checks it belongs to providerID
func loadOwnedService(id string, providerID uint) (*models.Service, error) {
	var service models.Service
	if err := db.DB.First(&service, id).Error; err != nil {
		return nil, utils.FetchError(err, "Service not found")
	}
	if service.ProviderID != providerID {
		return nil, utils.NewError(utils.CodeNotOwner, "You can only manage your own services")
	}
	return &service, nil
}

// UpdateService edits a provider-owned service listing
func UpdateService(c *fiber.Ctx) error {
	providerID := c.Locals("userID").(uint)

	service, err := loadOwnedService(c.Params("id"), providerID)
	if err != nil {
		return utils.JSONError(c, err)
	}

	input := new(serviceInput)
	if err := c.BodyParser(input); err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "Cannot parse JSON"))
	}

	applyServicePatch(service, input)

	if err := service.Validate(); err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, err.Error()))
	}

	if err := db.DB.Save(service).Error; err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to update service", err))
	}

	return c.JSON(service)
}

// DeleteService removes a provider-owned service listing. Existing
// appointments keep their snapshotted price and provider reference.
func DeleteService(c *fiber.Ctx) error {
	providerID := c.Locals("userID").(uint)

	service, err := loadOwnedService(c.Params("id"), providerID)
	if err != nil {
		return utils.JSONError(c, err)
	}

	if err := db.DB.Delete(service).Error; err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to delete service", err))
	}

	return c.SendStatus(fiber.StatusNoContent)
}
