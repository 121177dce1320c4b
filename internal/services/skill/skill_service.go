package skill

import (
	"encoding/json"
	"errors"
	"log"
	"net/url"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-gateway/internal/middleware"
	"github.com/rajivgeraev/skillswap-gateway/internal/models"
	"github.com/rajivgeraev/skillswap-gateway/internal/upstream"
)

// SkillService проксирует CRUD операции над навыками в основной API.
// Шлюз валидирует формы и нормализует ответы, данными владеет бэкенд.
type SkillService struct {
	api *upstream.Client
}

// NewSkillService создает новый экземпляр SkillService
func NewSkillService(api *upstream.Client) *SkillService {
	return &SkillService{api: api}
}

// GetSkills возвращает список навыков каталога с поиском и фильтрами
func (s *SkillService) GetSkills(c fiber.Ctx) error {
	params := url.Values{}
	for _, key := range []string{"search", "category", "page", "limit"} {
		if value := c.Query(key); value != "" {
			params.Set(key, value)
		}
	}

	// Каталог публичен: сессия может отсутствовать
	sess := middleware.SessionFromCtx(c)

	payload, err := s.api.Get(c.Context(), sess, "/skills", params)
	if err != nil {
		return proxyError(c, err, "Failed to load skills")
	}

	skills := decodeSkills(payload.Body)
	return c.JSON(fiber.Map{
		"skills": skills,
		"count":  len(skills),
	})
}

// GetMySkills возвращает навыки текущего пользователя
func (s *SkillService) GetMySkills(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	sess := middleware.SessionFromCtx(c)

	params := url.Values{"userId": {userID}}
	payload, err := s.api.Get(c.Context(), sess, "/skills", params)
	if err != nil {
		return proxyError(c, err, "Failed to load skills")
	}

	skills := decodeSkills(payload.Body)
	return c.JSON(fiber.Map{
		"skills": skills,
		"count":  len(skills),
	})
}

// GetSkill возвращает один навык по ID
func (s *SkillService) GetSkill(c fiber.Ctx) error {
	skillID := c.Params("id")
	if skillID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Skill ID is required"})
	}

	sess := middleware.SessionFromCtx(c)
	payload, err := s.api.Get(c.Context(), sess, "/skills/"+skillID, nil)
	if err != nil {
		if upstream.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill not found"})
		}
		return proxyError(c, err, "Failed to load skill")
	}

	skill, ok := decodeSkill(payload.Body)
	if !ok {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Unexpected skill response"})
	}
	return c.JSON(fiber.Map{"skill": skill})
}

// CreateSkill создает новый навык
func (s *SkillService) CreateSkill(c fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	var requestData struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Level       string `json:"level"`
	}
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	// Валидация обязательных полей
	if requestData.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title is required"})
	}

	payload, err := s.api.Post(c.Context(), sess, "/skills", requestData)
	if err != nil {
		return proxyError(c, err, "Failed to create skill")
	}

	skill, ok := decodeSkill(payload.Body)
	if !ok {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Unexpected skill response"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"skill":   skill,
	})
}

// UpdateSkill обновляет навык
func (s *SkillService) UpdateSkill(c fiber.Ctx) error {
	skillID := c.Params("id")
	if skillID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Skill ID is required"})
	}

	sess := middleware.SessionFromCtx(c)

	var requestData map[string]interface{}
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	payload, err := s.api.Put(c.Context(), sess, "/skills/"+skillID, requestData)
	if err != nil {
		if upstream.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill not found"})
		}
		return proxyError(c, err, "Failed to update skill")
	}

	skill, ok := decodeSkill(payload.Body)
	if !ok {
		return c.JSON(fiber.Map{"success": true})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"skill":   skill,
	})
}

// DeleteSkill удаляет навык
func (s *SkillService) DeleteSkill(c fiber.Ctx) error {
	skillID := c.Params("id")
	if skillID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Skill ID is required"})
	}

	sess := middleware.SessionFromCtx(c)
	if _, err := s.api.Delete(c.Context(), sess, "/skills/"+skillID); err != nil {
		if upstream.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill not found"})
		}
		return proxyError(c, err, "Failed to delete skill")
	}

	return c.JSON(fiber.Map{"success": true})
}

// decodeSkills нормализует список навыков из любой известной формы ответа
func decodeSkills(body []byte) []models.Skill {
	items, _ := upstream.ExtractList(body, upstream.SkillListFields...)
	skills := make([]models.Skill, 0, len(items))
	for _, raw := range items {
		var skill models.Skill
		if err := json.Unmarshal(raw, &skill); err != nil {
			log.Printf("Пропуск нечитаемой записи навыка: %v", err)
			continue
		}
		skills = append(skills, skill)
	}
	return skills
}

func decodeSkill(body []byte) (*models.Skill, bool) {
	raw, ok := upstream.ExtractObject(body)
	if !ok {
		return nil, false
	}
	var skill models.Skill
	if err := json.Unmarshal(raw, &skill); err != nil {
		return nil, false
	}
	return &skill, true
}

// proxyError транслирует ошибку бэкенда: его статус и тело для APIError,
// 502 для сетевых сбоев
func proxyError(c fiber.Ctx, err error, message string) error {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.StatusCode).JSON(fiber.Map{"error": message, "details": apiErr.Body})
	}
	log.Printf("Ошибка обращения к бэкенду: %v", err)
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": message})
}
