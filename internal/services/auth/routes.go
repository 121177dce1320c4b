package auth

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes регистрирует маршруты авторизации в Fiber
func (s *AuthService) SetupRoutes(app *fiber.App, auth fiber.Handler) {
	app.Post("/api/auth/telegram", s.TelegramAuthHandler)
	app.Post("/api/auth/login", s.LoginHandler)
	app.Post("/api/auth/register", s.RegisterHandler)

	// Защищенные маршруты
	app.Post("/api/auth/logout", s.LogoutHandler, auth)
}
