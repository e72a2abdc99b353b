// internal/ats/score/score_test.go

package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Compute Tests
// ==========================

func TestCompute_BasicRatios(t *testing.T) {
	tests := []struct {
		name       string
		matched    int
		vocabulary int
		expected   int
	}{
		{"zero matches", 0, 10, 0},
		{"full match", 10, 10, 100},
		{"half of two", 1, 2, 50},
		{"one third rounds down", 1, 3, 33},
		{"two thirds rounds up", 2, 3, 67},
		{"one sixth rounds up", 1, 6, 17},
		{"single entry matched", 1, 1, 100},
		{"single entry missed", 0, 1, 0},
		{"seven of nine", 7, 9, 78},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Compute(tt.matched, tt.vocabulary))
		})
	}
}

func TestCompute_HalfRoundsAway(t *testing.T) {
	// 0.5% boundaries round up, not to even.
	assert.Equal(t, 13, Compute(1, 8))  // 12.5
	assert.Equal(t, 38, Compute(3, 8))  // 37.5
	assert.Equal(t, 63, Compute(5, 8))  // 62.5
	assert.Equal(t, 88, Compute(7, 8))  // 87.5
}

func TestCompute_Bounds(t *testing.T) {
	for size := 1; size <= 50; size++ {
		for matched := 0; matched <= size; matched++ {
			got := Compute(matched, size)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		}
	}
}

func TestCompute_Monotonic(t *testing.T) {
	const size = 37
	prev := -1
	for matched := 0; matched <= size; matched++ {
		got := Compute(matched, size)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}
