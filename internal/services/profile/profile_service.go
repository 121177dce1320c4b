package profile

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-gateway/internal/middleware"
	"github.com/rajivgeraev/skillswap-gateway/internal/models"
	"github.com/rajivgeraev/skillswap-gateway/internal/upstream"
)

// ProfileService проксирует операции с профилем текущего пользователя
type ProfileService struct {
	api *upstream.Client
}

// NewProfileService создает новый экземпляр ProfileService
func NewProfileService(api *upstream.Client) *ProfileService {
	return &ProfileService{api: api}
}

// GetProfile возвращает профиль текущего пользователя
func (s *ProfileService) GetProfile(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	sess := middleware.SessionFromCtx(c)

	payload, err := s.api.Get(c.Context(), sess, "/users/"+userID, nil)
	if err != nil {
		if upstream.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		log.Printf("Ошибка загрузки профиля %s: %v", userID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to load profile"})
	}

	user, ok := decodeUser(payload.Body)
	if !ok {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Unexpected profile response"})
	}
	return c.JSON(fiber.Map{"user": user})
}

// UpdateProfile обновляет профиль текущего пользователя
func (s *ProfileService) UpdateProfile(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	sess := middleware.SessionFromCtx(c)

	var requestData struct {
		Name      string `json:"name"`
		Bio       string `json:"bio"`
		Location  string `json:"location"`
		AvatarURL string `json:"avatarUrl"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if requestData.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}

	payload, err := s.api.Put(c.Context(), sess, "/users/"+userID, requestData)
	if err != nil {
		log.Printf("Ошибка обновления профиля %s: %v", userID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	user, ok := decodeUser(payload.Body)
	if !ok {
		return c.JSON(fiber.Map{"success": true})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

func decodeUser(body []byte) (*models.User, bool) {
	raw, ok := upstream.ExtractObject(body)
	if !ok {
		return nil, false
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, false
	}
	return &user, true
}
