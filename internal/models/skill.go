package models

import "time"

// Skill представляет навык, выставленный пользователем на обмен
type Skill struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Level       string    `json:"level,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`

	// Вложенный владелец навыка, если бэкенд его прислал
	Owner *User `json:"user,omitempty"`
}
