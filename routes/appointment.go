package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gowash/carwash-api/controllers"
	"github.com/gowash/carwash-api/middleware"
	"github.com/gowash/carwash-api/models"
)

// SetupAppointmentRoutes configures the customer-facing appointment routes
func SetupAppointmentRoutes(app *fiber.App) {
	appointment := app.Group("/api/appointments", middleware.Protected())
	appointment.Get("/", controllers.GetAppointments)
	appointment.Get("/:id", controllers.GetAppointment)
	appointment.Post("/", middleware.RequireRole(models.RoleCustomer), controllers.CreateAppointment)
	appointment.Put("/:id", middleware.RequireRole(models.RoleCustomer), controllers.UpdateAppointment)
	appointment.Delete("/:id", middleware.RequireRole(models.RoleCustomer), controllers.CancelAppointment)
	appointment.Post("/:id/pay", middleware.RequireRole(models.RoleCustomer), controllers.PayAppointment)
	appointment.Post("/:id/review", middleware.RequireRole(models.RoleCustomer), controllers.ReviewAppointment)
}
