package profile

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API профиля
func (s *ProfileService) SetupRoutes(app *fiber.App, auth fiber.Handler) {
	api := app.Group("/api/profile")
	api.Use(auth)

	api.Get("/", s.GetProfile)
	api.Put("/", s.UpdateProfile)
}
