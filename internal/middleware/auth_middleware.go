package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-gateway/internal/models"
	"github.com/rajivgeraev/skillswap-gateway/internal/utils"
)

// TokenRevoker проверяет, отозвана ли сессия по jti.
// Реализуется черным списком в Redis (internal/cache).
type TokenRevoker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware создаёт middleware для проверки JWT сессии шлюза.
// Проверенные данные кладутся в Locals: userID, session и claims.
func AuthMiddleware(jwtService *utils.JWTService, revoker TokenRevoker) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		// Проверяем Bearer токен
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		tokenString := parts[1]
		claims, err := jwtService.ExtractClaims(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		// Отозванные сессии отклоняем так же, как невалидные
		if revoker != nil && claims.JTI != "" {
			revoked, err := revoker.IsBlacklisted(c.Context(), claims.JTI)
			if err == nil && revoked {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Session revoked",
				})
			}
		}

		// Добавляем данные сессии в контекст
		c.Locals("userID", claims.UserID)
		c.Locals("claims", claims)
		c.Locals("session", models.Session{UserID: claims.UserID, Token: tokenString})

		return c.Next()
	}
}

// SessionFromCtx достает сессию, положенную AuthMiddleware
func SessionFromCtx(c fiber.Ctx) models.Session {
	if sess, ok := c.Locals("session").(models.Session); ok {
		return sess
	}
	return models.Session{}
}
