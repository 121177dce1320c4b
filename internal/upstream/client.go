// Package upstream — HTTP клиент основного API SkillSwap. Шлюз не хранит
// данные сам: все операции над навыками и обменами уходят сюда.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rajivgeraev/skillswap-gateway/internal/models"
)

const maxResponseBytes = 8 << 20 // 8MB

// Client выполняет запросы к основному API с единообразными заголовками,
// кодированием параметров и нормализацией ошибок. Состояния не хранит.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient создает новый экземпляр Client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithLimiter ограничивает исходящий поток запросов к бэкенду
func (c *Client) WithLimiter(limiter *rate.Limiter) *Client {
	c.limiter = limiter
	return c
}

// Payload — успешный ответ бэкенда: сырое тело плюс признак JSON
type Payload struct {
	StatusCode int
	Body       []byte
	IsJSON     bool
}

// Empty сообщает, что тела нет (204 или пустой ответ)
func (p Payload) Empty() bool {
	return len(p.Body) == 0
}

// Text возвращает тело как строку (для не-JSON ответов)
func (p Payload) Text() string {
	return string(p.Body)
}

// Decode разбирает JSON-тело в target
func (p Payload) Decode(target interface{}) error {
	if p.Empty() {
		return fmt.Errorf("empty upstream payload")
	}
	if err := json.Unmarshal(p.Body, target); err != nil {
		return fmt.Errorf("decode upstream payload: %w", err)
	}
	return nil
}

// Get выполняет GET запрос с query-параметрами
func (c *Client) Get(ctx context.Context, sess models.Session, path string, params url.Values) (Payload, error) {
	return c.do(ctx, sess, http.MethodGet, path, params, nil)
}

// Post выполняет POST запрос с JSON телом
func (c *Client) Post(ctx context.Context, sess models.Session, path string, body interface{}) (Payload, error) {
	return c.do(ctx, sess, http.MethodPost, path, nil, body)
}

// Put выполняет PUT запрос с JSON телом
func (c *Client) Put(ctx context.Context, sess models.Session, path string, body interface{}) (Payload, error) {
	return c.do(ctx, sess, http.MethodPut, path, nil, body)
}

// Patch выполняет PATCH запрос с JSON телом
func (c *Client) Patch(ctx context.Context, sess models.Session, path string, body interface{}) (Payload, error) {
	return c.do(ctx, sess, http.MethodPatch, path, nil, body)
}

// Delete выполняет DELETE запрос
func (c *Client) Delete(ctx context.Context, sess models.Session, path string) (Payload, error) {
	return c.do(ctx, sess, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, sess models.Session, method, path string, params url.Values, body interface{}) (Payload, error) {
	requestURL := c.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return Payload{}, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return Payload{}, fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	// Без сессии запрос уходит неавторизованным: отклонить его — дело бэкенда
	if !sess.Anonymous() {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Payload{}, &TransportError{Err: err}
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Payload{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Payload{}, &TransportError{Err: err}
	}

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Payload{}, &APIError{StatusCode: resp.StatusCode, Body: parseErrorBody(respBody, isJSON)}
	}

	// 204 и пустые ответы — пустой результат
	if resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return Payload{StatusCode: resp.StatusCode}, nil
	}

	return Payload{StatusCode: resp.StatusCode, Body: respBody, IsJSON: isJSON}, nil
}

// parseErrorBody разбирает тело ошибки: JSON если получится, иначе текст
func parseErrorBody(body []byte, isJSON bool) interface{} {
	if isJSON {
		var parsed interface{}
		if err := json.Unmarshal(body, &parsed); err == nil {
			return parsed
		}
	}
	return strings.TrimSpace(string(body))
}
