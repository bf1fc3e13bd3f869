package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gowash/carwash-api/db"
	"github.com/gowash/carwash-api/models"
	"github.com/gowash/carwash-api/payment"
	"github.com/gowash/carwash-api/utils"
)

// GetAppointments lists the caller's appointments: customers see the washes
// they booked, providers the washes booked with them.
func GetAppointments(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	userType := c.Locals("userType").(models.UserRole)

	query := db.DB.Preload("Service")
	if userType == models.RoleCustomer {
		query = query.Preload("Provider").Where("customer_id = ?", userID)
	} else {
		query = query.Preload("Customer").Where("provider_id = ?", userID)
	}

	var appointments []models.Appointment
	if err := query.Order("service_date asc, start_time asc").Find(&appointments).Error; err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to fetch appointments", err))
	}

	scrubAppointments(appointments)
	return c.JSON(appointments)
}

// GetAppointment returns one appointment, visible only to its customer or
// its provider.
func GetAppointment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	userType := c.Locals("userType").(models.UserRole)

	var appointment models.Appointment
	err := db.DB.Preload("Service").Preload("Provider").Preload("Customer").
		First(&appointment, c.Params("id")).Error
	if err != nil {
		return utils.JSONError(c, utils.FetchError(err, "Appointment not found"))
	}

	if userType == models.RoleCustomer && appointment.CustomerID != userID {
		return utils.JSONError(c, utils.NewError(utils.CodeUnauthorized, "Not authorized"))
	}
	if userType == models.RoleProvider && appointment.ProviderID != userID {
		return utils.JSONError(c, utils.NewError(utils.CodeUnauthorized, "Not authorized"))
	}

	appointment.Customer.Password = ""
	appointment.Provider.Password = ""
	return c.JSON(appointment)
}

type createAppointmentInput struct {
	ServiceID uint   `json:"service_id" validate:"required"`
	Date      string `json:"date" validate:"required"`       // YYYY-MM-DD
	StartTime string `json:"start_time" validate:"required"` // HH:MM
	EndTime   string `json:"end_time" validate:"required"`   // HH:MM
	Notes     string `json:"notes"`
}

// CreateAppointment books a slot. The availability check and the insert run
// in one transaction; the partial unique index on the slot catches the rare
// race two transactions can still produce.
func CreateAppointment(c *fiber.Ctx) error {
	customerID := c.Locals("userID").(uint)

	input := new(createAppointmentInput)
	if err := c.BodyParser(input); err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "Cannot parse JSON"))
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.JSONError(c, err)
	}

	serviceDate, err := utils.ParseDate(input.Date)
	if err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, err.Error()))
	}
	startMinutes, err := utils.ParseClock(input.StartTime)
	if err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, err.Error()))
	}
	endMinutes, err := utils.ParseClock(input.EndTime)
	if err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, err.Error()))
	}
	if endMinutes <= startMinutes {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "End time must be after start time"))
	}
	// Canonical zero-padded form, so "9:30" and "09:30" map to one slot and
	// string ordering matches chronological ordering.
	startTime := utils.FormatClock(startMinutes)
	endTime := utils.FormatClock(endMinutes)

	var service models.Service
	if err := db.DB.First(&service, input.ServiceID).Error; err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeNotFound, "Service not found"))
	}
	if !service.IsAvailable {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "Service is not currently offered"))
	}

	appointment := models.Appointment{
		CustomerID:  customerID,
		ProviderID:  service.ProviderID, // denormalized for provider day views
		ServiceID:   service.ID,
		ServiceDate: serviceDate,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      models.StatusPending,
		TotalPrice:  service.Price, // snapshot, immune to later price edits
		Notes:       input.Notes,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		available, err := utils.CheckSlotAvailable(tx, service.ID, serviceDate, startTime, endTime)
		if err != nil {
			return err
		}
		if !available {
			return utils.NewError(utils.CodeSlotUnavailable, "Time slot is not available")
		}
		return tx.Create(&appointment).Error
	})
	if err != nil {
		var apiErr *utils.APIError
		if errors.As(err, &apiErr) {
			return utils.JSONError(c, apiErr)
		}
		if utils.IsUniqueViolation(err) {
			return utils.JSONError(c, utils.NewError(utils.CodeSlotUnavailable, "Time slot is not available"))
		}
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to create appointment", err))
	}

	go sendBookingConfirmation(appointment.ID)

	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// sendBookingConfirmation emails the customer; best effort only
func sendBookingConfirmation(appointmentID uint) {
	var appointment models.Appointment
	err := db.DB.Preload("Customer").Preload("Provider").Preload("Service").
		First(&appointment, appointmentID).Error
	if err != nil {
		log.Printf("Failed to load appointment %d for confirmation email: %v", appointmentID, err)
		return
	}

	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your car wash booking is in.</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Provider:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s - %s</li>
			<li><strong>Price:</strong> $%.2f</li>
		</ul>
		<p>The provider will confirm shortly.</p>
	`, appointment.Customer.Name, appointment.Service.Name, appointment.Provider.Name,
		appointment.ServiceDate.Format("2006-01-02"),
		appointment.StartTime, appointment.EndTime, appointment.TotalPrice)

	if err := utils.SendEmail(appointment.Customer.Email, "Booking received", body); err != nil {
		log.Printf("Failed to send confirmation for appointment %d: %v", appointmentID, err)
	}
}

type updateAppointmentInput struct {
	Notes string `json:"notes"`
}

// UpdateAppointment lets the owning customer edit the free-text notes.
// Times and status are off limits here: times only change through a fresh
// booking, status only through the provider endpoints.
func UpdateAppointment(c *fiber.Ctx) error {
	customerID := c.Locals("userID").(uint)

	input := new(updateAppointmentInput)
	if err := c.BodyParser(input); err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "Cannot parse JSON"))
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, c.Params("id")).Error; err != nil {
		return utils.JSONError(c, utils.FetchError(err, "Appointment not found"))
	}
	if appointment.CustomerID != customerID {
		return utils.JSONError(c, utils.NewError(utils.CodeUnauthorized, "Not authorized"))
	}
	if models.IsTerminal(appointment.Status) {
		return utils.JSONError(c, utils.NewError(utils.CodeInvalidTransition, "Appointment can no longer be edited"))
	}

	appointment.Notes = input.Notes
	if err := db.DB.Save(&appointment).Error; err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to update appointment", err))
	}

	return c.JSON(appointment)
}

// CancelAppointment soft-cancels via status so the slot history survives
// for the double-booking check. Only the owning customer, only while the
// wash has not started.
func CancelAppointment(c *fiber.Ctx) error {
	customerID := c.Locals("userID").(uint)

	var appointment models.Appointment
	if err := db.DB.First(&appointment, c.Params("id")).Error; err != nil {
		return utils.JSONError(c, utils.FetchError(err, "Appointment not found"))
	}
	if appointment.CustomerID != customerID {
		return utils.JSONError(c, utils.NewError(utils.CodeUnauthorized, "Not authorized"))
	}
	if !appointment.CanCancel() {
		return utils.JSONError(c, utils.NewError(utils.CodeInvalidTransition,
			fmt.Sprintf("Appointments in %s state cannot be cancelled", appointment.Status)))
	}

	if err := appointment.UpdateStatus(db.DB, models.StatusCancelled); err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to cancel appointment", err))
	}

	return c.JSON(fiber.Map{"message": "Appointment cancelled"})
}

// PayAppointment confirms payment for a completed wash through the gateway
// and records the receipt on the appointment.
func PayAppointment(c *fiber.Ctx) error {
	customerID := c.Locals("userID").(uint)

	var appointment models.Appointment
	if err := db.DB.First(&appointment, c.Params("id")).Error; err != nil {
		return utils.JSONError(c, utils.FetchError(err, "Appointment not found"))
	}
	if appointment.CustomerID != customerID {
		return utils.JSONError(c, utils.NewError(utils.CodeUnauthorized, "Not authorized"))
	}
	if appointment.Status != models.StatusCompleted {
		return utils.JSONError(c, utils.NewError(utils.CodeInvalidTransition, "Only completed appointments can be paid"))
	}
	if appointment.ReceiptID != "" {
		return c.JSON(fiber.Map{"receipt_id": appointment.ReceiptID, "message": "Already paid"})
	}

	if payment.DefaultClient == nil {
		return utils.JSONError(c, utils.NewError(utils.CodeDependencyUnavailable, "Payments are not available"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	receipt, err := payment.DefaultClient.Confirm(ctx, payment.Cents(appointment.TotalPrice), fmt.Sprintf("appointment-%d", appointment.ID))
	if err != nil {
		log.Printf("Payment failed for appointment %d: %v", appointment.ID, err)
		return utils.JSONError(c, utils.NewError(utils.CodeDependencyUnavailable, "Payment could not be processed"))
	}

	appointment.ReceiptID = receipt.ID
	if err := db.DB.Save(&appointment).Error; err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to record receipt", err))
	}

	return c.JSON(fiber.Map{"receipt_id": receipt.ID, "status": receipt.Status})
}

type reviewInput struct {
	Rating  float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string  `json:"comment"`
}

// ReviewAppointment records a rating for a completed wash and folds it into
// the provider's running average.
func ReviewAppointment(c *fiber.Ctx) error {
	customerID := c.Locals("userID").(uint)

	input := new(reviewInput)
	if err := c.BodyParser(input); err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "Cannot parse JSON"))
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.JSONError(c, err)
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, c.Params("id")).Error; err != nil {
		return utils.JSONError(c, utils.FetchError(err, "Appointment not found"))
	}
	if appointment.CustomerID != customerID {
		return utils.JSONError(c, utils.NewError(utils.CodeUnauthorized, "Not authorized"))
	}
	if appointment.Status != models.StatusCompleted {
		return utils.JSONError(c, utils.NewError(utils.CodeInvalidTransition, "Only completed appointments can be reviewed"))
	}

	review := models.Review{
		Rating:        input.Rating,
		Comment:       input.Comment,
		ProviderID:    appointment.ProviderID,
		CustomerID:    customerID,
		AppointmentID: appointment.ID,
	}

	exists, err := review.HasExistingReview(db.DB)
	if err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to check for existing review", err))
	}
	if exists {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "You already reviewed this appointment"))
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		var provider models.User
		if err := tx.First(&provider, appointment.ProviderID).Error; err != nil {
			return err
		}
		provider.AddRating(review.Rating)
		return tx.Save(&provider).Error
	})
	if err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to save review", err))
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

func scrubAppointments(appointments []models.Appointment) {
	for i := range appointments {
		appointments[i].Customer.Password = ""
		appointments[i].Provider.Password = ""
	}
}
