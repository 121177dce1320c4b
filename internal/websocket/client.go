package websocket

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Максимальное время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping клиенту
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер сообщения от клиента
	maxMessageSize = 4 * 1024

	// Размер буфера исходящих сообщений
	writeBufferSize = 64
)

// Client представляет собой отдельное WebSocket соединение
type Client struct {
	ID      uuid.UUID
	UserID  string
	conn    *websocket.Conn
	send    chan []byte
	manager *Manager
}

// NewClient создает новый экземпляр Client
func NewClient(userID string, conn *websocket.Conn, manager *Manager) *Client {
	return &Client{
		ID:      uuid.New(),
		UserID:  userID,
		conn:    conn,
		send:    make(chan []byte, writeBufferSize),
		manager: manager,
	}
}

// Start регистрирует клиента и запускает горутины чтения и записи
func (c *Client) Start() {
	c.manager.AddClient(c)

	go c.readPump()
	go c.writePump()
}

// readPump вычитывает входящие сообщения. Шлюз не принимает команд по
// WebSocket — канал односторонний, чтение нужно только для ping/pong
// и своевременного обнаружения разрыва.
func (c *Client) readPump() {
	defer func() {
		c.manager.RemoveClient(c.ID)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Неожиданное закрытие соединения: %v", err)
			}
			break
		}
	}
}

// writePump отправляет события клиенту
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Ошибка отправки сообщения: %v", err)
				return
			}
		case <-ticker.C:
			// Ping для поддержания соединения
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
