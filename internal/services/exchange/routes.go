package exchange

import (
	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"

	"github.com/rajivgeraev/skillswap-gateway/internal/middleware"
)

// SetupRoutes настраивает маршруты для API обменов
func (s *ExchangeService) SetupRoutes(app *fiber.App, auth fiber.Handler) {
	// Группа для API обменов
	api := app.Group("/api/exchanges")

	// Все маршруты обменов требуют авторизации
	api.Use(auth)

	// Проверка статуса обмена по навыку
	api.Get("/status", s.CheckExchangeStatus)

	// Список обменов текущего пользователя
	api.Get("/", s.GetMyExchanges)

	// Мутирующие маршруты дополнительно ограничены по частоте
	mutating := middleware.RateLimit(rate.Limit(5), 10)

	// Создание предложения обмена
	api.Post("/", s.CreateExchange, mutating)

	// Принятие или отклонение предложения
	api.Put("/:id/status", s.RespondToExchange, mutating)
}
