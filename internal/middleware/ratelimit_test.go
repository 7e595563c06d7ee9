package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	l := NewInMemoryRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "request %d should pass", i)
	}
	assert.False(t, l.Allow("10.0.0.1"))

	// Other keys are independent.
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	l := NewInMemoryRateLimiter(1, 20*time.Millisecond)
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))
	time.Sleep(30 * time.Millisecond)
	assert.True(t, l.Allow("k"))
}
