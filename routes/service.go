package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gowash/carwash-api/controllers"
	"github.com/gowash/carwash-api/middleware"
	"github.com/gowash/carwash-api/models"
)

func SetupServiceRoutes(app *fiber.App) {
	service := app.Group("/api/services")
	service.Get("/", controllers.GetAllServices)
	service.Get("/:id", controllers.GetService)
	service.Post("/", middleware.Protected(), middleware.RequireRole(models.RoleProvider), controllers.CreateService)
	service.Put("/:id", middleware.Protected(), middleware.RequireRole(models.RoleProvider), controllers.UpdateService)
	service.Delete("/:id", middleware.Protected(), middleware.RequireRole(models.RoleProvider), controllers.DeleteService)
}
