// Package cache — подключение к Redis и короткоживущие структуры шлюза:
// черный список отозванных сессий и кэш последних проверок статуса обмена.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect создает клиент Redis и проверяет соединение
func Connect(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("разбор REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("проверка соединения с Redis: %w", err)
	}
	return client, nil
}
