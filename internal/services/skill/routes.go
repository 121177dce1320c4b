package skill

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API навыков
func (s *SkillService) SetupRoutes(app *fiber.App, auth fiber.Handler) {
	// Группа для API навыков
	api := app.Group("/api/skills")

	// Защищенные маршруты (требуют авторизации)
	api.Post("/create", s.CreateSkill, auth)
	api.Get("/my", s.GetMySkills, auth)
	api.Put("/:id", s.UpdateSkill, auth)
	api.Delete("/:id", s.DeleteSkill, auth)

	// Публичные маршруты каталога
	api.Get("/", s.GetSkills)
	api.Get("/:id", s.GetSkill)
}
