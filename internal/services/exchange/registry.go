package exchange

import (
	"sync"

	"github.com/rajivgeraev/skillswap-gateway/internal/upstream"
)

// Registry выдает Store для каждого авторизованного пользователя.
// Store создается лениво при первом обращении и живет до перезапуска
// процесса: это временное состояние, восстанавливаемое перезагрузкой
// с бэкенда, а не хранилище.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]*Store
	api    *upstream.Client
}

// NewRegistry создает новый экземпляр Registry
func NewRegistry(api *upstream.Client) *Registry {
	return &Registry{
		stores: make(map[string]*Store),
		api:    api,
	}
}

// ForUser возвращает Store пользователя, создавая его при необходимости
func (r *Registry) ForUser(userID string) *Store {
	r.mu.RLock()
	store, ok := r.stores[userID]
	r.mu.RUnlock()
	if ok {
		return store
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.stores[userID]; ok {
		return store
	}
	store = NewStore(userID, r.api)
	r.stores[userID] = store
	return store
}
