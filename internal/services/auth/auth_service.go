package auth

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"github.com/rajivgeraev/skillswap-gateway/internal/cache"
	"github.com/rajivgeraev/skillswap-gateway/internal/config"
	"github.com/rajivgeraev/skillswap-gateway/internal/models"
	"github.com/rajivgeraev/skillswap-gateway/internal/upstream"
	"github.com/rajivgeraev/skillswap-gateway/internal/utils"
)

// AuthService — авторизация пользователей шлюза: вход по логину и паролю
// через основной API либо через Telegram Mini App. В обоих случаях шлюз
// выпускает собственный JWT сессии.
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	api        *upstream.Client
	blacklist  *cache.TokenBlacklist
}

// NewAuthService — конструктор AuthService
func NewAuthService(cfg *config.Config, api *upstream.Client, blacklist *cache.TokenBlacklist) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		api:        api,
		blacklist:  blacklist,
	}
}

// GetJWTService возвращает сервис JWT для настройки middleware
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// TelegramAuthHandler проверяет initData, синхронизирует пользователя
// с основным API, создает JWT сессии и возвращает его
func (s *AuthService) TelegramAuthHandler(c fiber.Ctx) error {
	var payload struct {
		InitData string `json:"init_data"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	// Проверяем initData
	expiration := 24 * time.Hour
	if err := initdata.Validate(payload.InitData, s.cfg.TelegramBotToken, expiration); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid Telegram data"})
	}

	// Парсим данные
	data, err := initdata.Parse(payload.InitData)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse initData"})
	}

	// Создаем или обновляем пользователя в основном API
	upstreamPayload, err := s.api.Post(c.Context(), models.Session{}, "/auth/telegram", fiber.Map{
		"telegramId": data.User.ID,
		"username":   data.User.Username,
		"firstName":  data.User.FirstName,
		"lastName":   data.User.LastName,
		"photoUrl":   data.User.PhotoURL,
	})
	if err != nil {
		log.Printf("Ошибка синхронизации Telegram пользователя %d: %v", data.User.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to sync user"})
	}

	user, ok := decodeUser(upstreamPayload.Body)
	if !ok || user.ID == "" {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Unexpected auth response"})
	}

	return s.issueSession(c, user)
}

// LoginHandler проксирует вход по email и паролю в основной API
func (s *AuthService) LoginHandler(c fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	if payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
	}

	upstreamPayload, err := s.api.Post(c.Context(), models.Session{}, "/auth/login", payload)
	if err != nil {
		if upstream.IsStatus(err, fiber.StatusUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		log.Printf("Ошибка входа через основной API: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to sign in"})
	}

	user, ok := decodeUser(upstreamPayload.Body)
	if !ok || user.ID == "" {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Unexpected auth response"})
	}

	return s.issueSession(c, user)
}

// RegisterHandler проксирует регистрацию в основной API
func (s *AuthService) RegisterHandler(c fiber.Ctx) error {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	if payload.Name == "" || payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name, email and password are required"})
	}

	upstreamPayload, err := s.api.Post(c.Context(), models.Session{}, "/auth/register", payload)
	if err != nil {
		if upstream.IsStatus(err, fiber.StatusConflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "User already exists"})
		}
		log.Printf("Ошибка регистрации через основной API: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to sign up"})
	}

	user, ok := decodeUser(upstreamPayload.Body)
	if !ok || user.ID == "" {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Unexpected auth response"})
	}

	return s.issueSession(c, user)
}

// LogoutHandler отзывает текущую сессию
func (s *AuthService) LogoutHandler(c fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*utils.SessionClaims)
	if !ok || claims.JTI == "" {
		return c.JSON(fiber.Map{"success": true})
	}

	if s.blacklist != nil {
		if err := s.blacklist.Add(c.Context(), claims.JTI, claims.ExpiresAt); err != nil {
			log.Printf("Ошибка отзыва сессии %s: %v", claims.JTI, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to revoke session"})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}

// issueSession выпускает JWT сессии шлюза для пользователя
func (s *AuthService) issueSession(c fiber.Ctx, user *models.User) error {
	jwtToken, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("Ошибка генерации JWT для пользователя %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate session"})
	}

	return c.JSON(fiber.Map{
		"token": jwtToken,
		"user":  user,
	})
}

func decodeUser(body []byte) (*models.User, bool) {
	raw, ok := upstream.ExtractObject(body)
	if !ok {
		return nil, false
	}

	// Бэкенд может прислать {user: {...}} внутри data-обертки
	var envelope struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.User != nil && envelope.User.ID != "" {
		return envelope.User, true
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, false
	}
	return &user, true
}
