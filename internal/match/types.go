package match

import (
	"fmt"
	"sort"

	"github.com/boomparty/server/internal/events"
)

// Status is the match lifecycle state.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// TimeMode selects how per-turn budgets are computed.
type TimeMode string

const (
	// TimeModeRange draws each budget uniformly from [MinTime, MaxTime].
	TimeModeRange TimeMode = "range"
	// TimeModeAdaptive computes each budget from the round number and the
	// last accepted word.
	TimeModeAdaptive TimeMode = "adaptive"
)

// Settings bounds.
const (
	rangeTimeMin     = 5
	rangeTimeMax     = 60
	adaptiveBaseMin  = 10
	adaptiveBaseMax  = 60
	startingLivesMin = 1
	startingLivesMax = 10
)

// Settings configures a match. Only the fields of the selected mode are
// meaningful.
type Settings struct {
	Mode          TimeMode
	MinTime       int
	MaxTime       int
	BaseTime      int
	StartingLives int
}

// DefaultSettings is the adaptive policy with a 30s base and 3 lives.
func DefaultSettings() Settings {
	return Settings{Mode: TimeModeAdaptive, BaseTime: 30, StartingLives: 3}
}

// Validate checks the declared bounds: range times in 5-60 with min < max,
// adaptive base in 10-60, starting lives in 1-10.
func (s Settings) Validate() error {
	if s.StartingLives < startingLivesMin || s.StartingLives > startingLivesMax {
		return fmt.Errorf("%w: starting lives must be between %d and %d",
			ErrInvalidSettings, startingLivesMin, startingLivesMax)
	}
	switch s.Mode {
	case TimeModeRange:
		if s.MinTime < rangeTimeMin || s.MaxTime > rangeTimeMax || s.MinTime >= s.MaxTime {
			return fmt.Errorf("%w: time range must satisfy %d <= min < max <= %d",
				ErrInvalidSettings, rangeTimeMin, rangeTimeMax)
		}
	case TimeModeAdaptive:
		if s.BaseTime < adaptiveBaseMin || s.BaseTime > adaptiveBaseMax {
			return fmt.Errorf("%w: base time must be between %d and %d",
				ErrInvalidSettings, adaptiveBaseMin, adaptiveBaseMax)
		}
	default:
		return fmt.Errorf("%w: unknown time mode %q", ErrInvalidSettings, s.Mode)
	}
	return nil
}

// Player is a match participant. Lives and IsAlive are meaningful only once
// a match has started; before that every player counts as alive.
type Player struct {
	ID      string
	Name    string
	Avatar  string
	IsAdmin bool
	Lives   int
	IsAlive bool
}

// BombState is the per-turn state of the countdown.
type BombState struct {
	Fragment       string
	TimeRemaining  int
	MaxTime        int
	ActivePlayerID string
	UsedWords      map[string]struct{}
	RoundNumber    int

	// Data about the most recently accepted word, feeding the adaptive
	// budget. Not reset by an explosion: momentum from the last accepted
	// word persists until the next word is accepted.
	LastWordLength     int
	TimeUsedOnLastWord int
	LastWordMaxTime    int
}

func zeroBombState() BombState {
	return BombState{UsedWords: make(map[string]struct{})}
}

func (b BombState) usedWordsSorted() []string {
	out := make([]string, 0, len(b.UsedWords))
	for w := range b.UsedWords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func playerInfo(p *Player) events.PlayerInfo {
	return events.PlayerInfo{
		ID:      p.ID,
		Name:    p.Name,
		Avatar:  p.Avatar,
		IsAdmin: p.IsAdmin,
		Lives:   p.Lives,
		IsAlive: p.IsAlive,
	}
}

func settingsInfo(s Settings) events.SettingsInfo {
	return events.SettingsInfo{
		Mode:          string(s.Mode),
		MinTime:       s.MinTime,
		MaxTime:       s.MaxTime,
		BaseTime:      s.BaseTime,
		StartingLives: s.StartingLives,
	}
}
