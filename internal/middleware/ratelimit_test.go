package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlidingWindowLimiter(t *testing.T) {
	l := NewSlidingWindowLimiter(3, 100*time.Millisecond)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("a"))
	}
	assert.False(t, l.Allow("a"))

	// Other keys keep their own budget.
	assert.True(t, l.Allow("b"))

	// The window slides: after it passes, "a" may go again.
	time.Sleep(120 * time.Millisecond)
	assert.True(t, l.Allow("a"))
}
