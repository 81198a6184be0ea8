// Package match implements the turn-based elimination word game: countdown
// clock, turn rotation, adaptive time budget, word validation and
// life/elimination bookkeeping. A Match is a single-writer resource: every
// command, including the bomb clock's own tick, runs under one mutex for its
// full effect.
package match

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/boomparty/server/internal/events"
)

// Broadcaster receives the engine's state-change notifications. The room
// layer implements it; implementations must not call back into the Match.
type Broadcaster interface {
	GameUpdated(snapshot events.GameSnapshot)
	BombTick(timeRemaining int)
	Explosion(playerID string)
	WordRejected(playerID string, payload events.WordRejectedPayload)
	SystemMessage(content string)
}

// Config assembles a Match. Zero-value fields fall back to production
// defaults; tests inject a fake clock and a seeded RNG.
type Config struct {
	Broadcaster Broadcaster
	Lexicon     Lexicon
	Settings    Settings
	Fragments   []string
	Clock       clockwork.Clock
	RNG         *rand.Rand
}

// Match is the aggregate owned by a room. It is created once and reset in
// place on stop; the roster persists across matches.
type Match struct {
	mu          sync.Mutex
	broadcaster Broadcaster
	lexicon     Lexicon
	clock       clockwork.Clock
	rng         *rand.Rand
	fragments   []string

	status   Status
	players  []*Player
	bomb     BombState
	winner   *Player
	settings Settings

	// epoch invalidates in-flight clock ticks; incremented on every arm,
	// word acceptance, stop and finish.
	epoch     uint64
	clockStop chan struct{}
}

// New creates a waiting match with an empty roster.
func New(cfg Config) *Match {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.RNG == nil {
		cfg.RNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if len(cfg.Fragments) == 0 {
		cfg.Fragments = DefaultFragments
	}
	if cfg.Settings == (Settings{}) {
		cfg.Settings = DefaultSettings()
	}
	return &Match{
		broadcaster: cfg.Broadcaster,
		lexicon:     cfg.Lexicon,
		clock:       cfg.Clock,
		rng:         cfg.RNG,
		fragments:   cfg.Fragments,
		status:      StatusWaiting,
		bomb:        zeroBombState(),
		settings:    cfg.Settings,
	}
}

// Start begins a new match. Requires an admin requester and at least two
// players. Restarting from finished re-runs full initialization.
func (m *Match) Start(requestedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	requester := m.playerByIDLocked(requestedBy)
	if requester == nil {
		return ErrNotConnected
	}
	if !requester.IsAdmin {
		return ErrUnauthorized
	}
	if m.status == StatusPlaying {
		return ErrMatchInProgress
	}
	if len(m.players) < 2 {
		return ErrNotEnoughPlayers
	}

	for _, p := range m.players {
		p.Lives = m.settings.StartingLives
		p.IsAlive = true
	}
	m.winner = nil
	m.bomb = zeroBombState()
	m.bomb.RoundNumber = 1
	m.bomb.ActivePlayerID = m.players[0].ID
	m.bomb.Fragment = drawFragment(m.rng, m.fragments)
	budget := m.nextBudget(1)
	m.bomb.MaxTime = budget
	m.bomb.TimeRemaining = budget
	m.status = StatusPlaying

	m.epoch++
	m.armClockLocked()
	m.broadcastSnapshotLocked()

	log.Info().
		Str("started_by", requester.Name).
		Int("players", len(m.players)).
		Int("budget_sec", budget).
		Str("fragment", m.bomb.Fragment).
		Msg("match started")
	return nil
}

// Stop resets the match to waiting. Admin only; idempotent. No clock armed
// before the call can fire afterwards.
func (m *Match) Stop(requestedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	requester := m.playerByIDLocked(requestedBy)
	if requester == nil {
		return ErrNotConnected
	}
	if !requester.IsAdmin {
		return ErrUnauthorized
	}

	m.resetLocked()
	m.broadcastSnapshotLocked()

	log.Info().Str("stopped_by", requester.Name).Msg("match stopped")
	return nil
}

func (m *Match) resetLocked() {
	m.epoch++
	m.cancelClockLocked()
	m.status = StatusWaiting
	m.winner = nil
	m.bomb = zeroBombState()
	for _, p := range m.players {
		p.Lives = m.settings.StartingLives
		p.IsAlive = true
	}
}

// SubmitWord handles the active player's attempt. A valid word cancels the
// clock before anything else, then advances the turn. An invalid word is
// reported to the submitter only and leaves the turn and the clock alone.
func (m *Match) SubmitWord(requestedBy, rawWord string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	player := m.playerByIDLocked(requestedBy)
	if player == nil {
		return ErrNotConnected
	}
	if m.status != StatusPlaying {
		return ErrNotPlaying
	}
	if player.ID != m.bomb.ActivePlayerID {
		return ErrNotYourTurn
	}

	normalized, rej := validateWord(rawWord, m.bomb.Fragment, m.bomb.UsedWords, m.lexicon)
	if rej != nil {
		m.broadcaster.WordRejected(player.ID, events.WordRejectedPayload{
			Word:   rawWord,
			Reason: rej.Message,
		})
		// Rejected words are still echoed to everyone as informational chat.
		m.broadcaster.SystemMessage(fmt.Sprintf("%s: %q - %s", player.Name, rawWord, rej.Message))
		log.Debug().
			Str("player", player.Name).
			Str("word", rawWord).
			Str("reason", string(rej.Reason)).
			Msg("word rejected")
		return rej
	}

	// Cancel the timer before any further mutation so an in-flight tick for
	// this turn can never explode after the word counted.
	m.cancelClockLocked()
	m.epoch++

	m.bomb.UsedWords[normalized] = struct{}{}
	m.bomb.LastWordLength = utf8.RuneCountInString(normalized)
	m.bomb.TimeUsedOnLastWord = m.bomb.TimeRemaining
	m.bomb.LastWordMaxTime = m.bomb.MaxTime

	m.broadcaster.SystemMessage(fmt.Sprintf("%s found %q", player.Name, normalized))
	log.Info().
		Str("player", player.Name).
		Str("word", normalized).
		Int("time_left_sec", m.bomb.TimeRemaining).
		Msg("word accepted")

	m.advanceTurnLocked(player.ID)
	return nil
}

// UpdateSettings replaces the settings between matches. Admin only.
func (m *Match) UpdateSettings(requestedBy string, settings Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	requester := m.playerByIDLocked(requestedBy)
	if requester == nil {
		return ErrNotConnected
	}
	if !requester.IsAdmin {
		return ErrUnauthorized
	}
	if m.status == StatusPlaying {
		return ErrMatchInProgress
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	m.settings = settings
	m.broadcastSnapshotLocked()

	log.Info().
		Str("updated_by", requester.Name).
		Str("mode", string(settings.Mode)).
		Int("starting_lives", settings.StartingLives).
		Msg("settings updated")
	return nil
}

// AddPlayer appends a player to the roster. Joining mid-match makes them a
// spectator (no lives) until the next start.
func (m *Match) AddPlayer(id, name, avatar string, isAdmin bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.playerByIDLocked(id) != nil {
		return
	}
	p := &Player{ID: id, Name: name, Avatar: avatar, IsAdmin: isAdmin}
	if m.status == StatusPlaying {
		p.Lives = 0
		p.IsAlive = false
	} else {
		p.Lives = m.settings.StartingLives
		p.IsAlive = true
	}
	m.players = append(m.players, p)
	m.broadcastSnapshotLocked()
}

// SetAdmin updates a player's admin flag (the roster owner reassigns
// adminship when the admin leaves).
func (m *Match) SetAdmin(id string, isAdmin bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.playerByIDLocked(id)
	if p == nil || p.IsAdmin == isAdmin {
		return
	}
	p.IsAdmin = isAdmin
	m.broadcastSnapshotLocked()
}

// RemovePlayer handles a disconnect or kick. Removing the active player
// mid-match transfers the turn; removal that leaves one (or zero) alive
// players ends the match.
func (m *Match) RemovePlayer(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, p := range m.players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	removed := m.players[idx]

	if m.status != StatusPlaying {
		m.players = append(m.players[:idx], m.players[idx+1:]...)
		m.broadcastSnapshotLocked()
		return
	}

	// Locate the successor before the roster loses the removed player's
	// position.
	next, nextErr := nextAlive(m.players, id)
	wasActive := m.bomb.ActivePlayerID == id
	m.players = append(m.players[:idx], m.players[idx+1:]...)

	alive := alivePlayers(m.players)
	switch {
	case len(alive) == 0:
		m.finishLocked(nil)
	case len(alive) == 1:
		m.finishLocked(alive[0])
	case wasActive:
		if nextErr != nil {
			// ≥2 alive but no successor cannot happen; end defensively.
			m.finishLocked(nil)
			return
		}
		m.epoch++
		m.cancelClockLocked()
		m.bomb.ActivePlayerID = next
		m.bomb.Fragment = drawFragment(m.rng, m.fragments)
		budget := m.nextBudget(m.bomb.RoundNumber)
		m.bomb.MaxTime = budget
		m.bomb.TimeRemaining = budget
		m.armClockLocked()
		m.broadcastSnapshotLocked()
		log.Info().
			Str("removed", removed.Name).
			Str("next_player", next).
			Msg("active player removed, turn transferred")
	default:
		m.broadcastSnapshotLocked()
	}
}

// explodeLocked applies the countdown reaching zero: the active player loses
// a life, dies at zero lives, and the match either finishes or moves to the
// next player.
func (m *Match) explodeLocked() {
	m.epoch++
	m.cancelClockLocked()

	player := m.playerByIDLocked(m.bomb.ActivePlayerID)
	if player == nil {
		return
	}
	player.Lives--
	if player.Lives <= 0 {
		player.Lives = 0
		player.IsAlive = false
	}

	m.broadcaster.Explosion(player.ID)
	if player.IsAlive {
		m.broadcaster.SystemMessage(fmt.Sprintf("%s ran out of time! %d life(s) left", player.Name, player.Lives))
	} else {
		m.broadcaster.SystemMessage(fmt.Sprintf("%s ran out of time and is eliminated!", player.Name))
	}
	log.Info().
		Str("player", player.Name).
		Int("lives_left", player.Lives).
		Msg("bomb exploded")

	alive := alivePlayers(m.players)
	if len(alive) <= 1 {
		var winner *Player
		if len(alive) == 1 {
			winner = alive[0]
		}
		m.finishLocked(winner)
		return
	}
	m.advanceTurnLocked(player.ID)
}

// advanceTurnLocked opens the next round: next alive player, fresh fragment,
// recomputed budget, re-armed clock. The last-word data deliberately carries
// over explosions until the next acceptance.
func (m *Match) advanceTurnLocked(fromID string) {
	next, err := nextAlive(m.players, fromID)
	if err != nil {
		m.finishLocked(nil)
		return
	}

	m.bomb.RoundNumber++
	m.bomb.ActivePlayerID = next
	m.bomb.Fragment = drawFragment(m.rng, m.fragments)
	budget := m.nextBudget(m.bomb.RoundNumber)
	m.bomb.MaxTime = budget
	m.bomb.TimeRemaining = budget

	m.epoch++
	m.armClockLocked()
	m.broadcastSnapshotLocked()
}

func (m *Match) finishLocked(winner *Player) {
	m.epoch++
	m.cancelClockLocked()
	m.status = StatusFinished
	m.winner = winner
	m.bomb = zeroBombState()

	if winner != nil {
		m.broadcaster.SystemMessage(fmt.Sprintf("%s wins the match!", winner.Name))
		log.Info().Str("winner", winner.Name).Msg("match finished")
	} else {
		m.broadcaster.SystemMessage("Match over")
		log.Info().Msg("match finished with no winner")
	}
	m.broadcastSnapshotLocked()
}

// Snapshot returns the current full state, for new joiners and tests.
func (m *Match) Snapshot() events.GameSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Status returns the lifecycle state.
func (m *Match) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Match) playerByIDLocked(id string) *Player {
	for _, p := range m.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m *Match) snapshotLocked() events.GameSnapshot {
	players := make([]events.PlayerInfo, 0, len(m.players))
	for _, p := range m.players {
		players = append(players, playerInfo(p))
	}
	var winner *events.PlayerInfo
	if m.winner != nil {
		w := playerInfo(m.winner)
		winner = &w
	}
	return events.GameSnapshot{
		Status:  string(m.status),
		Players: players,
		Bomb: events.BombInfo{
			Fragment:       m.bomb.Fragment,
			TimeRemaining:  m.bomb.TimeRemaining,
			MaxTime:        m.bomb.MaxTime,
			ActivePlayerID: m.bomb.ActivePlayerID,
			UsedWords:      m.bomb.usedWordsSorted(),
			RoundNumber:    m.bomb.RoundNumber,
		},
		Winner:   winner,
		Settings: settingsInfo(m.settings),
	}
}

func (m *Match) broadcastSnapshotLocked() {
	m.broadcaster.GameUpdated(m.snapshotLocked())
}
