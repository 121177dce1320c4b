package cloudinary

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для параметров загрузки
func (s *CloudinaryService) SetupRoutes(app *fiber.App, auth fiber.Handler) {
	api := app.Group("/api")

	// Маршрут для получения параметров загрузки
	api.Get("/upload/params", s.GenerateUploadParams, auth)
}
