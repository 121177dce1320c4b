package models

import "time"

// ExchangeStatus определяет статус запроса на обмен
type ExchangeStatus string

const (
	ExchangeStatusPending  ExchangeStatus = "pending"
	ExchangeStatusAccepted ExchangeStatus = "accepted"
	ExchangeStatusRejected ExchangeStatus = "rejected"
	// Зарезервирован в модели бэкенда, переходов в него нет
	ExchangeStatusCompleted ExchangeStatus = "completed"
)

// ExchangeRequest представляет запрос на обмен навыками между двумя пользователями.
// Поля повторяют контракт основного API; производные поля заполняются шлюзом.
type ExchangeRequest struct {
	ID               string         `json:"id"`
	FromUserID       string         `json:"fromUserId"`
	ToUserID         string         `json:"toUserId"`
	OfferedSkillID   string         `json:"offeredSkillId"`
	RequestedSkillID string         `json:"requestedSkillId"`
	Status           ExchangeStatus `json:"status"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`

	// Поля мягкого удаления: присутствуют в части ответов бэкенда,
	// шлюз их читает, но не использует
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	IsActive  *bool      `json:"isActive,omitempty"`

	// Вложенные объекты из ответа бэкенда (если он их прислал)
	OfferedSkill   *Skill `json:"offeredSkill,omitempty"`
	RequestedSkill *Skill `json:"requestedSkill,omitempty"`
	FromUser       *User  `json:"fromUser,omitempty"`
	ToUser         *User  `json:"toUser,omitempty"`

	// Производные поля для UI
	FromUserSkill     *SkillView `json:"fromUserSkill,omitempty"`
	ToUserSkill       *SkillView `json:"toUserSkill,omitempty"`
	IsFromCurrentUser bool       `json:"isFromCurrentUser"`
	IsToCurrentUser   bool       `json:"isToCurrentUser"`
}

// SkillView — минимальное представление навыка, всегда пригодное для отрисовки
type SkillView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// UnknownSkillTitle подставляется, когда бэкенд не прислал вложенный навык
const UnknownSkillTitle = "Unknown Skill"

// Enrich заполняет производные поля записи относительно текущего пользователя.
// UI всегда получает отображаемые названия навыков, даже при неполных данных.
func (e *ExchangeRequest) Enrich(currentUserID string) {
	e.FromUserSkill = skillViewOf(e.OfferedSkill, e.OfferedSkillID)
	e.ToUserSkill = skillViewOf(e.RequestedSkill, e.RequestedSkillID)
	e.IsFromCurrentUser = currentUserID != "" && e.FromUserID == currentUserID
	e.IsToCurrentUser = currentUserID != "" && e.ToUserID == currentUserID
}

// Counterpart возвращает ID второго участника обмена
func (e *ExchangeRequest) Counterpart(currentUserID string) string {
	if e.FromUserID == currentUserID {
		return e.ToUserID
	}
	return e.FromUserID
}

// InvolvesSkill сообщает, участвует ли навык в обмене с любой из сторон
func (e *ExchangeRequest) InvolvesSkill(skillID string) bool {
	return e.OfferedSkillID == skillID || e.RequestedSkillID == skillID
}

func skillViewOf(nested *Skill, rawID string) *SkillView {
	if nested != nil {
		title := nested.Title
		if title == "" {
			title = UnknownSkillTitle
		}
		id := nested.ID
		if id == "" {
			id = rawID
		}
		return &SkillView{ID: id, Title: title}
	}
	return &SkillView{ID: rawID, Title: UnknownSkillTitle}
}
