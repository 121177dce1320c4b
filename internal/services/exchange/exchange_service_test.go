package exchange

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-gateway/internal/models"
	"github.com/rajivgeraev/skillswap-gateway/internal/upstream"
)

func newStatusCheckApp(t *testing.T, handler http.HandlerFunc) (*fiber.App, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	svc := NewExchangeService(upstream.NewClient(server.URL, 5*time.Second), nil, nil)

	app := fiber.New()
	app.Get("/api/exchanges/status", func(c fiber.Ctx) error {
		c.Locals("userID", "u-bob")
		c.Locals("session", models.Session{UserID: "u-bob", Token: "test-token"})
		return svc.CheckExchangeStatus(c)
	})
	return app, &calls
}

func checkStatus(t *testing.T, app *fiber.App, query string) (int, StatusResult) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/exchanges/status?"+query, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result StatusResult
	require.NoError(t, json.Unmarshal(body, &result))
	return resp.StatusCode, result
}

func TestCheckExchangeStatusRequiresParams(t *testing.T) {
	app, calls := newStatusCheckApp(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"requests":[]}`)
	})

	status, _ := checkStatus(t, app, "skill_id=s-guitar")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = checkStatus(t, app, "user_id=u-alice")
	assert.Equal(t, fiber.StatusBadRequest, status)

	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestCheckExchangeStatusThrottleServesLastResult(t *testing.T) {
	app, calls := newStatusCheckApp(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"requests":[`+pendingRecord+`]}`)
	})

	status, first := checkStatus(t, app, "skill_id=s-guitar&user_id=u-alice")
	require.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, first.Exchange)
	assert.Equal(t, "ex-1", first.Exchange.ID)

	// Повторная проверка внутри окна обслуживается без похода к бэкенду,
	// даже когда Redis не настроен
	status, second := checkStatus(t, app, "skill_id=s-guitar&user_id=u-alice")
	require.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, second.Exchange)
	assert.Equal(t, "ex-1", second.Exchange.ID)

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestCheckExchangeStatusRefreshBypassesThrottle(t *testing.T) {
	app, calls := newStatusCheckApp(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"requests":[`+pendingRecord+`]}`)
	})

	_, _ = checkStatus(t, app, "skill_id=s-guitar&user_id=u-alice")
	require.Equal(t, int32(1), atomic.LoadInt32(calls))

	// Явное "обновить" от пользователя сбрасывает окно и идет к бэкенду
	status, result := checkStatus(t, app, "skill_id=s-guitar&user_id=u-alice&refresh=true")
	require.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, result.Exchange)

	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestCheckExchangeStatusErrorResultNotCached(t *testing.T) {
	app, calls := newStatusCheckApp(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"error":"boom"}`)
	})

	status, first := checkStatus(t, app, "skill_id=s-guitar&user_id=u-alice")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Failed to check exchange status", first.Error)

	// Ошибочный результат не кэшируется: внутри окна промах по кэшу
	// приводит к новой попытке
	status, second := checkStatus(t, app, "skill_id=s-guitar&user_id=u-alice")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Failed to check exchange status", second.Error)

	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}
