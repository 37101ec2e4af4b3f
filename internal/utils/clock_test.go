package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClock(t *testing.T) {
	var clock Clock = SystemClock{}

	before := time.Now()
	now := clock.Now()

	assert.False(t, now.Before(before))
}

func TestMockClock(t *testing.T) {
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	clock := &MockClock{FixedNow: start}

	clock.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), clock.Now())

	clock.SetNow(start)
	assert.Equal(t, start, clock.Now())
}
