package jitter

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration_WithinRange(t *testing.T) {
	base := time.Second

	for i := 0; i < 100; i++ {
		d := Duration(base, DefaultJitter)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}

func TestDuration_ZeroFactorIsExact(t *testing.T) {
	assert.Equal(t, time.Second, Duration(time.Second, 0))
}

func TestDurationWithSeed_Deterministic(t *testing.T) {
	first := DurationWithSeed(time.Second, DefaultJitter, rand.New(rand.NewSource(42)))
	second := DurationWithSeed(time.Second, DefaultJitter, rand.New(rand.NewSource(42)))

	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first, time.Second)
	assert.LessOrEqual(t, first, time.Second+time.Second/2)
}
