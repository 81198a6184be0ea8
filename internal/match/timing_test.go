package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func adaptive(base int) Settings {
	return Settings{Mode: TimeModeAdaptive, BaseTime: base, StartingLives: 3}
}

func TestComputeTimeBudget(t *testing.T) {
	tests := []struct {
		name            string
		round           int
		base            int
		lastLen         int
		timeUsed        int
		lastWordMaxTime int
		want            int
	}{
		{"first turn uses base", 1, 30, 0, 0, 0, 30},
		{"round decay floors at halves", 2, 30, 0, 0, 0, 29},
		{"round three loses three", 3, 30, 0, 0, 0, 27},
		{"short word relaxes", 2, 30, 4, 20, 30, 31},
		{"five letter word is neutral", 2, 30, 5, 20, 30, 29},
		{"medium word tightens", 2, 30, 6, 20, 30, 27},
		{"seven letters same as six", 2, 30, 7, 20, 30, 27},
		{"long word tightens more", 2, 30, 8, 20, 30, 26},
		{"slow finish costs three", 2, 30, 5, 8, 30, 26},
		{"exactly thirty percent left is safe", 2, 30, 5, 9, 30, 29},
		{"adjustments stack", 2, 30, 9, 5, 30, 23},
		{"clamped at five", 40, 10, 8, 1, 10, 5},
		{"no last word skips adjustments even when slow", 5, 30, 0, 1, 30, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTimeBudget(tt.round, adaptive(tt.base), tt.lastLen, tt.timeUsed, tt.lastWordMaxTime)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeTimeBudgetNeverBelowFive(t *testing.T) {
	for round := 1; round <= 100; round++ {
		for base := adaptiveBaseMin; base <= adaptiveBaseMax; base += 10 {
			for lastLen := 0; lastLen <= 15; lastLen++ {
				got := ComputeTimeBudget(round, adaptive(base), lastLen, 1, 60)
				assert.GreaterOrEqual(t, got, 5,
					"round=%d base=%d lastLen=%d", round, base, lastLen)
			}
		}
	}
}

func TestRandomBudgetStaysInRange(t *testing.T) {
	rng := newTestRNG()
	for i := 0; i < 1000; i++ {
		got := randomBudget(rng, 10, 30)
		assert.GreaterOrEqual(t, got, 10)
		assert.LessOrEqual(t, got, 30)
	}
}
