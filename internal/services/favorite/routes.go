package favorite

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API сохраненных навыков
func (s *FavoriteService) SetupRoutes(app *fiber.App, auth fiber.Handler) {
	api := app.Group("/api/favorites")
	api.Use(auth)

	api.Get("/", s.GetFavorites)
	api.Post("/", s.AddToFavorites)
	api.Delete("/:skillId", s.RemoveFromFavorites)
}
