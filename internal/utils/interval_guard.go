package utils

import (
	"sync"
	"time"
)

// IntervalGuard ограничивает частоту повторяющихся операций: попытка внутри
// минимального интервала от предыдущей записанной попытки молча отбрасывается.
// Это ограничитель нагрузки на бэкенд, а не механизм корректности.
// Время передается явно, чтобы тесты не зависели от таймеров.
type IntervalGuard struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewIntervalGuard создаёт guard с заданным минимальным интервалом
func NewIntervalGuard(interval time.Duration) *IntervalGuard {
	return &IntervalGuard{interval: interval}
}

// ShouldProceed сообщает, можно ли выполнять операцию в момент now
func (g *IntervalGuard) ShouldProceed(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last.IsZero() || now.Sub(g.last) >= g.interval
}

// RecordAttempt фиксирует момент выполненной попытки
func (g *IntervalGuard) RecordAttempt(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = now
}

// Reset сбрасывает отметку последней попытки: следующая проверка пройдет.
// Используется для явного "обновить" от пользователя в обход интервала.
func (g *IntervalGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = time.Time{}
}
