package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager представляет центральный менеджер для всех WebSocket соединений.
// Через него шлюз доставляет события обменов второй стороне в реальном времени.
type Manager struct {
	clients      map[uuid.UUID]*Client
	clientsMutex sync.RWMutex
	userClients  map[string]map[uuid.UUID]bool // userID -> map[clientID]bool
	userMutex    sync.RWMutex
}

// EventType определяет тип события WebSocket
type EventType string

const (
	EventConnected        EventType = "connected"
	EventExchangeCreated  EventType = "exchange_created"
	EventExchangeAccepted EventType = "exchange_accepted"
	EventExchangeRejected EventType = "exchange_rejected"
)

// Event представляет структуру сообщения для WebSocket
type Event struct {
	Type       EventType       `json:"type"`
	ExchangeID string          `json:"exchange_id,omitempty"`
	UserID     string          `json:"user_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// NewManager создает новый экземпляр Manager
func NewManager() *Manager {
	return &Manager{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[string]map[uuid.UUID]bool),
	}
}

// AddClient регистрирует нового клиента
func (m *Manager) AddClient(client *Client) {
	m.clientsMutex.Lock()
	m.clients[client.ID] = client
	m.clientsMutex.Unlock()

	// Связываем клиент с пользователем
	m.userMutex.Lock()
	if _, exists := m.userClients[client.UserID]; !exists {
		m.userClients[client.UserID] = make(map[uuid.UUID]bool)
	}
	m.userClients[client.UserID][client.ID] = true
	m.userMutex.Unlock()

	log.Printf("WebSocket клиент %s подключен для пользователя %s", client.ID, client.UserID)
}

// RemoveClient удаляет клиента
func (m *Manager) RemoveClient(clientID uuid.UUID) {
	m.clientsMutex.RLock()
	client, exists := m.clients[clientID]
	m.clientsMutex.RUnlock()

	if !exists {
		return
	}

	userID := client.UserID

	m.userMutex.Lock()
	if clients, ok := m.userClients[userID]; ok {
		delete(clients, clientID)
		// Последнее соединение пользователя — убираем и запись о нем
		if len(clients) == 0 {
			delete(m.userClients, userID)
		}
	}
	m.userMutex.Unlock()

	m.clientsMutex.Lock()
	delete(m.clients, clientID)
	m.clientsMutex.Unlock()

	log.Printf("WebSocket клиент %s отключен для пользователя %s", clientID, userID)
}

// HasConnections сообщает, есть ли у пользователя активные соединения
func (m *Manager) HasConnections(userID string) bool {
	m.userMutex.RLock()
	defer m.userMutex.RUnlock()
	return len(m.userClients[userID]) > 0
}

// SendToUser отправляет событие всем соединениям конкретного пользователя.
// Отсутствие соединений — не ошибка: пользователь увидит изменение при
// следующем обновлении списка обменов.
func (m *Manager) SendToUser(userID string, event Event) {
	if userID == "" {
		return
	}

	// Копируем ID под блокировкой: по живой карте итерироваться нельзя,
	// AddClient и RemoveClient пишут в нее из других горутин
	m.userMutex.RLock()
	clientIDs := make([]uuid.UUID, 0, len(m.userClients[userID]))
	for clientID := range m.userClients[userID] {
		clientIDs = append(clientIDs, clientID)
	}
	m.userMutex.RUnlock()

	if len(clientIDs) == 0 {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("Ошибка сериализации события: %v", err)
		return
	}

	for _, clientID := range clientIDs {
		m.clientsMutex.RLock()
		client, exists := m.clients[clientID]
		m.clientsMutex.RUnlock()

		if !exists {
			continue
		}

		select {
		case client.send <- eventJSON:
			// Событие поставлено в очередь отправки
		default:
			// Канал заполнен, клиент слишком медленный — закрываем соединение
			log.Printf("Канал отправки переполнен для клиента %s, закрываем соединение", client.ID)
			client.conn.Close()
			m.RemoveClient(client.ID)
		}
	}
}

// NotifyExchange доставляет событие обмена пользователю userID
func (m *Manager) NotifyExchange(eventType EventType, exchangeID, userID string, payload interface{}) {
	var raw json.RawMessage
	if payload != nil {
		if encoded, err := json.Marshal(payload); err == nil {
			raw = encoded
		}
	}

	m.SendToUser(userID, Event{
		Type:       eventType,
		ExchangeID: exchangeID,
		UserID:     userID,
		Timestamp:  time.Now(),
		Payload:    raw,
	})
}

// Shutdown корректно завершает работу менеджера WebSocket
func (m *Manager) Shutdown() {
	m.clientsMutex.Lock()
	for _, client := range m.clients {
		client.conn.Close()
	}
	m.clients = make(map[uuid.UUID]*Client)
	m.clientsMutex.Unlock()

	m.userMutex.Lock()
	m.userClients = make(map[string]map[uuid.UUID]bool)
	m.userMutex.Unlock()
}
