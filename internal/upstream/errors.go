package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError — ответ бэкенда со статусом вне 2xx. Body содержит разобранное
// JSON-тело ошибки либо сырой текст.
type APIError struct {
	StatusCode int
	Body       interface{}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream responded %d: %v", e.StatusCode, e.Body)
}

// TransportError — ответ не получен вовсе: сетевой сбой, таймаут, обрыв.
// Кода статуса у такой ошибки нет.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsStatus проверяет, является ли ошибка ответом бэкенда с данным статусом
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}

// IsNotFound проверяет ответ 404
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// IsTransport проверяет сетевую ошибку без ответа
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
