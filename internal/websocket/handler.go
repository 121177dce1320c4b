package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rajivgeraev/skillswap-gateway/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS для WebSocket решается на уровне reverse proxy
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SessionRevoker проверяет, отозвана ли сессия по jti.
// Реализуется черным списком в Redis (internal/cache).
type SessionRevoker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Handler апгрейдит HTTP соединение до WebSocket. Авторизация — токеном
// сессии в query-параметре: заголовки из браузерного WebSocket API недоступны.
// Отозванные сессии отклоняются так же, как в HTTP middleware.
// Gorilla не работает поверх fasthttp, поэтому слушатель у событий свой.
func Handler(manager *Manager, jwtService *utils.JWTService, revoker SessionRevoker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		claims, err := jwtService.ExtractClaims(token)
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}
		userID := claims.UserID

		if revoker != nil && claims.JTI != "" {
			revoked, err := revoker.IsBlacklisted(r.Context(), claims.JTI)
			if err == nil && revoked {
				http.Error(w, "session revoked", http.StatusUnauthorized)
				return
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Ошибка апгрейда WebSocket: %v", err)
			return
		}

		client := NewClient(userID, conn, manager)
		client.Start()

		// Подтверждаем подключение
		welcome, _ := json.Marshal(Event{
			Type:      EventConnected,
			UserID:    userID,
			Timestamp: time.Now(),
		})
		client.send <- welcome
	}
}

// ListenAndServe запускает отдельный HTTP сервер для WebSocket соединений
func ListenAndServe(addr string, manager *Manager, jwtService *utils.JWTService, revoker SessionRevoker) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", Handler(manager, jwtService, revoker))
	return http.ListenAndServe(addr, mux)
}
