package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/rajivgeraev/skillswap-gateway/internal/models"
	"github.com/rajivgeraev/skillswap-gateway/internal/upstream"
	"github.com/rajivgeraev/skillswap-gateway/internal/utils"
)

// Минимальный интервал между обновлениями списка с бэкенда
const refreshInterval = 5 * time.Second

var (
	ErrMissingFields    = errors.New("recipient, offered skill and requested skill are required")
	ErrExchangeNotFound = errors.New("exchange not found")
	// Вторая конкурентная мутация одного обмена отклоняется, пока первая
	// в полете: иначе откат второй затер бы подтвержденный результат первой
	ErrMutationInFlight = errors.New("another update for this exchange is already in progress")
)

// Store владеет списком обменов одного пользователя. Список — временная
// копия состояния бэкенда: обновляется по запросу с троттлингом, мутации
// применяются оптимистично с откатом при неудаче.
type Store struct {
	userID string
	api    *upstream.Client

	mu        sync.RWMutex
	exchanges []models.ExchangeRequest
	lastError string
	inflight  map[string]struct{}

	refreshGuard *utils.IntervalGuard
}

// NewStore создает новый экземпляр Store
func NewStore(userID string, api *upstream.Client) *Store {
	return &Store{
		userID:       userID,
		api:          api,
		inflight:     make(map[string]struct{}),
		refreshGuard: utils.NewIntervalGuard(refreshInterval),
	}
}

// Refresh перезагружает список обменов пользователя. Повторный вызов внутри
// пятисекундного окна от предыдущего завершившегося обновления молча
// отбрасывается — несколько триггеров в UI не должны дублировать запросы.
func (s *Store) Refresh(ctx context.Context, sess models.Session) error {
	if !s.refreshGuard.ShouldProceed(time.Now()) {
		return nil
	}

	payload, err := s.api.Get(ctx, sess, "/exchanges", url.Values{"userId": {s.userID}})
	if err != nil {
		s.setLastError("Failed to load exchanges")
		return err
	}

	// Окно отсчитывается от завершившегося обновления
	s.refreshGuard.RecordAttempt(time.Now())

	items, ok := upstream.ExtractList(payload.Body, upstream.ExchangeListFields...)
	if !ok {
		// Нераспознанная форма ответа: пустой список, а не ошибка
		log.Printf("Нераспознанная форма списка обменов для пользователя %s", s.userID)
	}

	normalized := make([]models.ExchangeRequest, 0, len(items))
	for _, raw := range items {
		var e models.ExchangeRequest
		if err := json.Unmarshal(raw, &e); err != nil {
			log.Printf("Пропуск нечитаемой записи обмена: %v", err)
			continue
		}
		e.Enrich(s.userID)
		normalized = append(normalized, e)
	}

	s.mu.Lock()
	s.exchanges = normalized
	s.lastError = ""
	s.mu.Unlock()
	return nil
}

// List возвращает копию текущего списка обменов
func (s *Store) List() []models.ExchangeRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ExchangeRequest, len(s.exchanges))
	copy(out, s.exchanges)
	return out
}

// Get возвращает обмен по ID
func (s *Store) Get(exchangeID string) (models.ExchangeRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(exchangeID); idx >= 0 {
		return s.exchanges[idx], true
	}
	return models.ExchangeRequest{}, false
}

// LastError возвращает сообщение последней неудачной операции
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// Create отправляет запрос на создание обмена. Все три идентификатора
// обязательны: без любого из них сетевой вызов не выполняется. Ошибки не
// пробрасываются — вызывающий проверяет результат и LastError.
func (s *Store) Create(ctx context.Context, sess models.Session, toUserID, offeredSkillID, requestedSkillID string) (*models.ExchangeRequest, bool) {
	if toUserID == "" || offeredSkillID == "" || requestedSkillID == "" {
		s.setLastError(ErrMissingFields.Error())
		return nil, false
	}

	payload, err := s.api.Post(ctx, sess, "/exchanges", map[string]string{
		"toUserId":         toUserID,
		"offeredSkillId":   offeredSkillID,
		"requestedSkillId": requestedSkillID,
	})
	if err != nil {
		log.Printf("Ошибка создания обмена для пользователя %s: %v", s.userID, err)
		s.setLastError("Failed to create exchange request")
		return nil, false
	}

	raw, ok := upstream.ExtractObject(payload.Body)
	if !ok {
		s.setLastError("Unexpected response while creating exchange request")
		return nil, false
	}

	var created models.ExchangeRequest
	if err := json.Unmarshal(raw, &created); err != nil {
		s.setLastError("Unexpected response while creating exchange request")
		return nil, false
	}
	created.Enrich(s.userID)

	s.setLastError("")

	// Подтягиваем свежий список; внутри троттл-окна обновление просто не произойдет
	if err := s.Refresh(ctx, sess); err != nil {
		log.Printf("Не удалось обновить список обменов после создания: %v", err)
	}

	return &created, true
}

// Respond принимает или отклоняет обмен. Локальный статус меняется до
// завершения сетевого вызова и откатывается к снимку при его неудаче.
func (s *Store) Respond(ctx context.Context, sess models.Session, exchangeID string, accept bool) (*models.ExchangeRequest, error) {
	newStatus := models.ExchangeStatusRejected
	if accept {
		newStatus = models.ExchangeStatusAccepted
	}

	s.mu.Lock()
	if _, busy := s.inflight[exchangeID]; busy {
		s.mu.Unlock()
		return nil, ErrMutationInFlight
	}
	idx := s.indexOf(exchangeID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, ErrExchangeNotFound
	}
	snapshot := s.exchanges[idx].Status
	s.inflight[exchangeID] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, exchangeID)
		s.mu.Unlock()
	}()

	var confirmed *models.ExchangeRequest
	err := utils.ApplyOptimistic(snapshot, newStatus,
		func(status models.ExchangeStatus) { s.setStatus(exchangeID, status) },
		func() error {
			payload, err := s.api.Put(ctx, sess, "/exchanges/"+exchangeID, map[string]string{
				"status": string(newStatus),
			})
			if err != nil {
				return err
			}
			if raw, ok := upstream.ExtractObject(payload.Body); ok {
				var parsed models.ExchangeRequest
				if json.Unmarshal(raw, &parsed) == nil && parsed.ID != "" {
					confirmed = &parsed
				}
			}
			return nil
		})
	if err != nil {
		log.Printf("Ошибка изменения статуса обмена %s, откат: %v", exchangeID, err)
		s.setLastError("Failed to update exchange request")
		return nil, err
	}

	// Сверяем локальную запись с подтвержденной бэкендом
	if confirmed != nil {
		confirmed.Enrich(s.userID)
		s.merge(*confirmed)
	}

	s.setLastError("")
	result, _ := s.Get(exchangeID)
	return &result, nil
}

func (s *Store) indexOf(exchangeID string) int {
	for i := range s.exchanges {
		if s.exchanges[i].ID == exchangeID {
			return i
		}
	}
	return -1
}

func (s *Store) setStatus(exchangeID string, status models.ExchangeStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(exchangeID); idx >= 0 {
		s.exchanges[idx].Status = status
	}
}

func (s *Store) merge(updated models.ExchangeRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(updated.ID); idx >= 0 {
		s.exchanges[idx] = updated
	}
}

func (s *Store) setLastError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = message
}
