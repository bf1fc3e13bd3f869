package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gowash/carwash-api/controllers"
	"github.com/gowash/carwash-api/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/api/auth")

	// Public routes
	auth.Post("/register", controllers.Register)
	auth.Post("/register/provider", controllers.RegisterProvider)
	auth.Post("/login", controllers.Login)

	// Protected routes
	auth.Get("/", middleware.Protected(), controllers.GetCurrentUser)
	auth.Post("/logout", middleware.Protected(), controllers.Logout)
	auth.Post("/phone/code", middleware.Protected(), controllers.SendPhoneCode)
	auth.Post("/phone/verify", middleware.Protected(), controllers.VerifyPhone)
	auth.Put("/profile", middleware.Protected(), controllers.UpdateProfile)
	auth.Post("/profile/picture", middleware.Protected(), controllers.UploadProfilePicture)
}
