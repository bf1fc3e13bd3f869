package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gowash/carwash-api/controllers/provider"
	"github.com/gowash/carwash-api/middleware"
	"github.com/gowash/carwash-api/models"
)

// SetupProviderRoutes configures provider-only tooling: day schedules,
// status updates, service delivery and emergency alerts.
func SetupProviderRoutes(app *fiber.App) {
	group := app.Group("/api/provider", middleware.Protected(), middleware.RequireRole(models.RoleProvider))

	group.Get("/appointments/:date", provider.GetAppointmentsForDate)
	group.Put("/appointments/:id/status", provider.UpdateAppointmentStatus)
	group.Post("/appointments/:id/deliver", provider.DeliverService)

	group.Post("/emergency", provider.RaiseEmergency)
	group.Get("/emergency", provider.GetEmergencyAlerts)
	group.Put("/emergency/:id/resolve", provider.ResolveEmergency)
}
