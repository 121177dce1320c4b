package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalGuardFirstAttemptProceeds(t *testing.T) {
	guard := NewIntervalGuard(5 * time.Second)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, guard.ShouldProceed(now))
}

func TestIntervalGuardBlocksInsideWindow(t *testing.T) {
	guard := NewIntervalGuard(5 * time.Second)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	guard.RecordAttempt(now)

	assert.False(t, guard.ShouldProceed(now.Add(1*time.Second)))
	assert.False(t, guard.ShouldProceed(now.Add(4999*time.Millisecond)))
}

func TestIntervalGuardAllowsAfterWindow(t *testing.T) {
	guard := NewIntervalGuard(5 * time.Second)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	guard.RecordAttempt(now)

	assert.True(t, guard.ShouldProceed(now.Add(5*time.Second)))
	assert.True(t, guard.ShouldProceed(now.Add(time.Minute)))
}

func TestIntervalGuardReset(t *testing.T) {
	guard := NewIntervalGuard(10 * time.Second)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	guard.RecordAttempt(now)
	assert.False(t, guard.ShouldProceed(now.Add(time.Second)))

	// Явное "обновить" от пользователя сбрасывает окно
	guard.Reset()
	assert.True(t, guard.ShouldProceed(now.Add(time.Second)))
}
