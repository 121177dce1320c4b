package middleware

import (
	"sync"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"
)

// RateLimit ограничивает частоту запросов на пользователя (для анонимных —
// на IP). Применяется к мутирующим маршрутам обменов, чтобы один клиент
// не заваливал бэкенд через шлюз.
func RateLimit(limit rate.Limit, burst int) fiber.Handler {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c fiber.Ctx) error {
		key, _ := c.Locals("userID").(string)
		if key == "" {
			key = c.IP()
		}

		mu.Lock()
		limiter, ok := limiters[key]
		if !ok {
			limiter = rate.NewLimiter(limit, burst)
			limiters[key] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests",
			})
		}
		return c.Next()
	}
}
