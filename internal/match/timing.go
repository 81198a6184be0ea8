package match

import "math/rand"

// The adaptive budget never drops below this floor.
const minBudget = 5

// ComputeTimeBudget returns the adaptive time budget, in seconds, for the
// turn opening round roundNumber:
//
//  1. base = BaseTime - floor((roundNumber-1) * 1.5)
//  2. long last word tightens the budget, short last word relaxes it
//  3. a word accepted with under 30% of its turn's budget left costs the
//     next player 3 more seconds
//  4. never below 5 seconds
//
// lastWordLength == 0 means no word has been accepted yet and steps 2-3 are
// skipped. timeUsedOnLastWord is the seconds that remained when the last
// word was accepted; lastWordMaxTime is the budget of the turn it was
// accepted in.
func ComputeTimeBudget(roundNumber int, settings Settings, lastWordLength, timeUsedOnLastWord, lastWordMaxTime int) int {
	base := settings.BaseTime - (3*(roundNumber-1))/2

	if lastWordLength > 0 {
		switch {
		case lastWordLength >= 8:
			base -= 3
		case lastWordLength >= 6:
			base -= 2
		case lastWordLength <= 4:
			base += 2
		}

		if lastWordMaxTime > 0 && float64(timeUsedOnLastWord)/float64(lastWordMaxTime) < 0.30 {
			base -= 3
		}
	}

	if base < minBudget {
		return minBudget
	}
	return base
}

// nextBudget dispatches on the settings mode: the adaptive policy above, or
// a uniform draw from [MinTime, MaxTime] for the range form.
func (m *Match) nextBudget(roundNumber int) int {
	if m.settings.Mode == TimeModeRange {
		return randomBudget(m.rng, m.settings.MinTime, m.settings.MaxTime)
	}
	return ComputeTimeBudget(roundNumber, m.settings,
		m.bomb.LastWordLength, m.bomb.TimeUsedOnLastWord, m.bomb.LastWordMaxTime)
}

func randomBudget(rng *rand.Rand, min, max int) int {
	return min + rng.Intn(max-min+1)
}
