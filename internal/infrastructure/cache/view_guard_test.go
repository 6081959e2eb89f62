package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUntilMidnight(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 30*time.Minute, untilMidnight(now))

	startOfDay := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 24*time.Hour, untilMidnight(startOfDay))
}
