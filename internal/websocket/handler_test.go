package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-gateway/internal/utils"
)

type fakeRevoker struct {
	revoked map[string]bool
}

func (f *fakeRevoker) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

func newHandlerServer(t *testing.T, jwtService *utils.JWTService, revoker SessionRevoker) *httptest.Server {
	t.Helper()
	manager := NewManager()
	t.Cleanup(manager.Shutdown)
	server := httptest.NewServer(Handler(manager, jwtService, revoker))
	t.Cleanup(server.Close)
	return server
}

func wsURL(server *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/?token=" + token
}

func TestHandlerRejectsMissingToken(t *testing.T) {
	server := newHandlerServer(t, utils.NewJWTService("test-secret"), nil)

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandlerRejectsInvalidToken(t *testing.T) {
	server := newHandlerServer(t, utils.NewJWTService("test-secret"), nil)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, "not.a.token"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandlerRejectsRevokedSession(t *testing.T) {
	jwtService := utils.NewJWTService("test-secret")
	revoker := &fakeRevoker{revoked: map[string]bool{}}
	server := newHandlerServer(t, jwtService, revoker)

	token, err := jwtService.GenerateToken("u-alice")
	require.NoError(t, err)
	claims, err := jwtService.ExtractClaims(token)
	require.NoError(t, err)
	revoker.revoked[claims.JTI] = true

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandlerUpgradesAndSendsWelcome(t *testing.T) {
	jwtService := utils.NewJWTService("test-secret")
	server := newHandlerServer(t, jwtService, &fakeRevoker{revoked: map[string]bool{}})

	token, err := jwtService.GenerateToken("u-alice")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, EventConnected, event.Type)
	assert.Equal(t, "u-alice", event.UserID)
}
