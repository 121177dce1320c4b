package exchange

import (
	"context"
	"encoding/json"
	"log"
	"net/url"

	"github.com/rajivgeraev/skillswap-gateway/internal/models"
	"github.com/rajivgeraev/skillswap-gateway/internal/upstream"
)

// NoExchangeMessage возвращается, когда обмена между сторонами нет.
// Это ожидаемый исход, а не ошибка.
const NoExchangeMessage = "No exchange exists between you and this skill's owner"

// StatusResult — результат проверки статуса обмена. Ошибки передаются
// строкой в поле Error, чтобы вызывающий ветвился по полям, а не ловил
// исключения.
type StatusResult struct {
	Exchange *models.ExchangeRequest `json:"exchange"`
	Message  string                  `json:"message,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

// Reconciler отвечает на вопрос "есть ли уже обмен между текущим
// пользователем и навыком X" без полной перезагрузки списка. Собственного
// состояния не имеет: каждый вызов — независимый запрос к бэкенду.
type Reconciler struct {
	api *upstream.Client
}

// NewReconciler создает новый экземпляр Reconciler
func NewReconciler(api *upstream.Client) *Reconciler {
	return &Reconciler{api: api}
}

// Check запрашивает обмены, связанные с пользователем counterpartID, и ищет
// запись, где навык skillID предложен или запрошен. При нескольких
// совпадениях побеждает первое в порядке ответа бэкенда.
func (r *Reconciler) Check(ctx context.Context, sess models.Session, skillID, counterpartID string) StatusResult {
	params := url.Values{
		"userId":  {counterpartID},
		"skillId": {skillID},
	}

	payload, err := r.api.Get(ctx, sess, "/exchanges/status", params)
	if err != nil {
		// 404 от бэкенда означает "обмена нет", а не сбой
		if upstream.IsNotFound(err) {
			return StatusResult{Message: NoExchangeMessage}
		}
		log.Printf("Ошибка проверки статуса обмена (skill=%s, user=%s): %v", skillID, counterpartID, err)
		return StatusResult{Error: "Failed to check exchange status"}
	}

	items, ok := upstream.ExtractStatusCheck(payload.Body)
	if !ok {
		return StatusResult{Message: NoExchangeMessage}
	}

	for _, raw := range items {
		var e models.ExchangeRequest
		if err := json.Unmarshal(raw, &e); err != nil {
			log.Printf("Пропуск нечитаемой записи при проверке статуса: %v", err)
			continue
		}
		if e.InvolvesSkill(skillID) {
			e.Enrich(sess.UserID)
			return StatusResult{Exchange: &e}
		}
	}

	return StatusResult{Message: NoExchangeMessage}
}
