package favorite

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-gateway/internal/middleware"
	"github.com/rajivgeraev/skillswap-gateway/internal/models"
	"github.com/rajivgeraev/skillswap-gateway/internal/upstream"
)

// FavoriteService проксирует работу с сохраненными навыками пользователя
type FavoriteService struct {
	api *upstream.Client
}

// NewFavoriteService создает новый экземпляр FavoriteService
func NewFavoriteService(api *upstream.Client) *FavoriteService {
	return &FavoriteService{api: api}
}

// AddToFavorites добавляет навык в сохраненные
func (s *FavoriteService) AddToFavorites(c fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	// Извлекаем ID навыка из запроса
	var requestData struct {
		SkillID string `json:"skillId"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if requestData.SkillID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Skill ID is required"})
	}

	if _, err := s.api.Post(c.Context(), sess, "/favorites", requestData); err != nil {
		if upstream.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill not found"})
		}
		log.Printf("Ошибка добавления навыка %s в сохраненные: %v", requestData.SkillID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to save skill"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

// RemoveFromFavorites убирает навык из сохраненных
func (s *FavoriteService) RemoveFromFavorites(c fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	skillID := c.Params("skillId")
	if skillID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Skill ID is required"})
	}

	if _, err := s.api.Delete(c.Context(), sess, "/favorites/"+skillID); err != nil {
		if upstream.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill is not saved"})
		}
		log.Printf("Ошибка удаления навыка %s из сохраненных: %v", skillID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to remove saved skill"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetFavorites возвращает сохраненные навыки текущего пользователя
func (s *FavoriteService) GetFavorites(c fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	payload, err := s.api.Get(c.Context(), sess, "/favorites", nil)
	if err != nil {
		log.Printf("Ошибка загрузки сохраненных навыков: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to load saved skills"})
	}

	items, _ := upstream.ExtractList(payload.Body, upstream.SkillListFields...)
	skills := make([]models.Skill, 0, len(items))
	for _, raw := range items {
		var skill models.Skill
		if err := json.Unmarshal(raw, &skill); err != nil {
			continue
		}
		skills = append(skills, skill)
	}

	return c.JSON(fiber.Map{
		"skills": skills,
		"count":  len(skills),
	})
}
