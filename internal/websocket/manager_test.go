package websocket

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerTracksClientsPerUser(t *testing.T) {
	manager := NewManager()
	assert.False(t, manager.HasConnections("u-alice"))

	first := NewClient("u-alice", nil, manager)
	second := NewClient("u-alice", nil, manager)
	manager.AddClient(first)
	manager.AddClient(second)

	assert.True(t, manager.HasConnections("u-alice"))
	assert.False(t, manager.HasConnections("u-bob"))

	manager.RemoveClient(first.ID)
	assert.True(t, manager.HasConnections("u-alice"))

	manager.RemoveClient(second.ID)
	assert.False(t, manager.HasConnections("u-alice"))
}

func TestRemoveUnknownClientIsNoop(t *testing.T) {
	manager := NewManager()
	client := NewClient("u-alice", nil, manager)

	manager.RemoveClient(client.ID)
	assert.False(t, manager.HasConnections("u-alice"))
}

func TestSendToUserQueuesEventForEachConnection(t *testing.T) {
	manager := NewManager()
	client := NewClient("u-bob", nil, manager)
	manager.AddClient(client)

	manager.NotifyExchange(EventExchangeAccepted, "ex-1", "u-bob", map[string]string{"status": "accepted"})

	select {
	case raw := <-client.send:
		var event Event
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, EventExchangeAccepted, event.Type)
		assert.Equal(t, "ex-1", event.ExchangeID)
		assert.Equal(t, "u-bob", event.UserID)
		assert.False(t, event.Timestamp.IsZero())
		assert.JSONEq(t, `{"status":"accepted"}`, string(event.Payload))
	default:
		t.Fatal("событие не поставлено в очередь отправки")
	}
}

// Доставка события должна переживать подключение и отключение клиентов
// того же пользователя из других горутин (запускать с -race)
func TestSendToUserSurvivesConcurrentChurn(t *testing.T) {
	manager := NewManager()

	drain := func(client *Client, done <-chan struct{}) {
		for {
			select {
			case <-client.send:
			case <-done:
				return
			}
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 300; i++ {
			client := NewClient("u-race", nil, manager)
			done := make(chan struct{})
			go drain(client, done)
			manager.AddClient(client)
			manager.RemoveClient(client.ID)
			close(done)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 300; i++ {
			manager.NotifyExchange(EventExchangeCreated, "ex-1", "u-race", nil)
		}
	}()

	wg.Wait()
	assert.False(t, manager.HasConnections("u-race"))
}

func TestSendToOfflineUserIsNoop(t *testing.T) {
	manager := NewManager()

	// Без соединений доставка молча пропускается
	manager.NotifyExchange(EventExchangeCreated, "ex-1", "u-offline", nil)
	manager.SendToUser("", Event{Type: EventConnected})
}
