package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "skillswap:bl:jti:"

// TokenBlacklist хранит jti отозванных сессий до истечения их срока жизни.
// Logout кладет jti сюда; middleware отклоняет токены из списка.
type TokenBlacklist struct {
	client *redis.Client
}

// NewTokenBlacklist создает новый экземпляр TokenBlacklist
func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Add добавляет jti в черный список с TTL до момента истечения токена
func (b *TokenBlacklist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	duration := time.Until(expiresAt)
	if duration <= 0 {
		// Токен уже истек, валидация JWT отклонит его сама
		return nil
	}

	key := blacklistKeyPrefix + jti
	if err := b.client.Set(ctx, key, "revoked", duration).Err(); err != nil {
		return fmt.Errorf("добавление jti %s в черный список: %w", jti, err)
	}
	return nil
}

// IsBlacklisted проверяет, отозвана ли сессия
func (b *TokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	key := blacklistKeyPrefix + jti
	_, err := b.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("проверка jti %s в черном списке: %w", jti, err)
	}
	return true, nil
}
