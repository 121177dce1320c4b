package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"github.com/rajivgeraev/skillswap-gateway/internal/middleware"
	"github.com/rajivgeraev/skillswap-gateway/internal/models"
	"github.com/rajivgeraev/skillswap-gateway/internal/upstream"
	"github.com/rajivgeraev/skillswap-gateway/internal/utils"
	"github.com/rajivgeraev/skillswap-gateway/internal/websocket"
)

const (
	// Минимальный интервал автоматических перепроверок статуса по одному навыку
	statusCheckInterval = 10 * time.Second
	// TTL кэша последнего результата проверки
	statusCacheTTL = 10 * time.Second

	statusCacheKeyPrefix = "skillswap:status:"
)

// ExchangeService представляет сервис для работы с обменами навыками
type ExchangeService struct {
	registry   *Registry
	reconciler *Reconciler
	ws         *websocket.Manager
	rdb        *redis.Client // может быть nil: кэш выключен

	guardMu       sync.Mutex
	statusEntries map[string]*statusEntry
}

// statusEntry — троттл-окно проверки статуса по паре (пользователь, навык)
// и последний успешный результат на случай недоступности Redis
type statusEntry struct {
	guard *utils.IntervalGuard

	mu   sync.Mutex
	last *StatusResult
}

// NewExchangeService создает новый экземпляр ExchangeService
func NewExchangeService(api *upstream.Client, ws *websocket.Manager, rdb *redis.Client) *ExchangeService {
	return &ExchangeService{
		registry:      NewRegistry(api),
		reconciler:    NewReconciler(api),
		ws:            ws,
		rdb:           rdb,
		statusEntries: make(map[string]*statusEntry),
	}
}

// GetMyExchanges возвращает список обменов текущего пользователя
func (s *ExchangeService) GetMyExchanges(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	sess := middleware.SessionFromCtx(c)

	store := s.registry.ForUser(userID)

	// Ошибка обновления не валит список: отдаем последнее известное состояние
	if err := store.Refresh(c.Context(), sess); err != nil {
		log.Printf("Обновление списка обменов пользователя %s не удалось: %v", userID, err)
	}

	exchanges := store.List()
	response := fiber.Map{
		"exchanges": exchanges,
		"count":     len(exchanges),
	}
	if lastError := store.LastError(); lastError != "" {
		response["error"] = lastError
	}
	return c.JSON(response)
}

// CreateExchange создает новое предложение обмена
func (s *ExchangeService) CreateExchange(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	sess := middleware.SessionFromCtx(c)

	var requestData struct {
		ToUserID         string `json:"toUserId"`
		OfferedSkillID   string `json:"offeredSkillId"`
		RequestedSkillID string `json:"requestedSkillId"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	// Все три идентификатора обязательны, проверяем до любого сетевого вызова
	if requestData.ToUserID == "" || requestData.OfferedSkillID == "" || requestData.RequestedSkillID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrMissingFields.Error()})
	}

	store := s.registry.ForUser(userID)
	created, ok := store.Create(c.Context(), sess, requestData.ToUserID, requestData.OfferedSkillID, requestData.RequestedSkillID)
	if !ok {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": store.LastError()})
	}

	// Уведомляем получателя предложения
	if s.ws != nil {
		s.ws.NotifyExchange(websocket.EventExchangeCreated, created.ID, requestData.ToUserID, created)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"exchange": created,
	})
}

// RespondToExchange принимает или отклоняет предложение обмена
func (s *ExchangeService) RespondToExchange(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	sess := middleware.SessionFromCtx(c)

	exchangeID := c.Params("id")
	if exchangeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Exchange ID is required"})
	}

	var requestData struct {
		Status string `json:"status"` // accepted, rejected
	}
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if requestData.Status != string(models.ExchangeStatusAccepted) && requestData.Status != string(models.ExchangeStatusRejected) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Status must be accepted or rejected"})
	}
	accept := requestData.Status == string(models.ExchangeStatusAccepted)

	store := s.registry.ForUser(userID)

	// Список мог еще не загружаться в этом процессе
	if _, known := store.Get(exchangeID); !known {
		if err := store.Refresh(c.Context(), sess); err != nil {
			log.Printf("Обновление перед ответом на обмен %s не удалось: %v", exchangeID, err)
		}
	}

	updated, err := store.Respond(c.Context(), sess, exchangeID, accept)
	if err != nil {
		return s.respondError(c, err, store)
	}

	// Уведомляем инициатора обмена
	if s.ws != nil {
		eventType := websocket.EventExchangeRejected
		if accept {
			eventType = websocket.EventExchangeAccepted
		}
		s.ws.NotifyExchange(eventType, updated.ID, updated.Counterpart(userID), updated)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"exchange": updated,
	})
}

func (s *ExchangeService) respondError(c fiber.Ctx, err error, store *Store) error {
	switch {
	case errors.Is(err, ErrMutationInFlight):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrExchangeNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		// Отказ бэкенда транслируем с его же статусом
		return c.Status(apiErr.StatusCode).JSON(fiber.Map{"error": store.LastError(), "details": apiErr.Body})
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": store.LastError()})
}

// CheckExchangeStatus проверяет, существует ли обмен между текущим
// пользователем и указанным навыком. Автоматические перепроверки чаще
// раза в 10 секунд обслуживаются из кэша; ?refresh=true сбрасывает окно.
func (s *ExchangeService) CheckExchangeStatus(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	sess := middleware.SessionFromCtx(c)

	skillID := c.Query("skill_id")
	counterpartID := c.Query("user_id")
	if skillID == "" || counterpartID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "skill_id and user_id are required"})
	}

	entry := s.statusEntry(userID, skillID)
	if c.Query("refresh") == "true" {
		entry.guard.Reset()
	}

	cacheKey := statusCacheKeyPrefix + userID + ":" + skillID
	if !entry.guard.ShouldProceed(time.Now()) {
		if cached := s.cachedStatus(c.Context(), cacheKey, entry); cached != nil {
			return c.JSON(cached)
		}
	}

	result := s.reconciler.Check(c.Context(), sess, skillID, counterpartID)
	entry.guard.RecordAttempt(time.Now())
	if result.Error == "" {
		s.storeStatus(c.Context(), cacheKey, entry, result)
	}

	return c.JSON(result)
}

func (s *ExchangeService) statusEntry(userID, skillID string) *statusEntry {
	key := userID + ":" + skillID
	s.guardMu.Lock()
	defer s.guardMu.Unlock()
	entry, ok := s.statusEntries[key]
	if !ok {
		entry = &statusEntry{guard: utils.NewIntervalGuard(statusCheckInterval)}
		s.statusEntries[key] = entry
	}
	return entry
}

// cachedStatus возвращает последний результат проверки: из Redis, а при его
// отсутствии или недоступности — из самой записи троттл-окна
func (s *ExchangeService) cachedStatus(ctx context.Context, key string, entry *statusEntry) *StatusResult {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var result StatusResult
			if json.Unmarshal(raw, &result) == nil {
				return &result
			}
		}
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.last
}

// storeStatus сохраняет результат проверки в записи троттл-окна и в Redis.
// Кэш вспомогательный: ошибка Redis означает лишь лишний поход к бэкенду.
func (s *ExchangeService) storeStatus(ctx context.Context, key string, entry *statusEntry, result StatusResult) {
	entry.mu.Lock()
	entry.last = &result
	entry.mu.Unlock()

	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, statusCacheTTL).Err(); err != nil {
		log.Printf("Не удалось сохранить результат проверки статуса в кэш: %v", err)
	}
}
