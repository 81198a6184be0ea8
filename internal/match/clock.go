package match

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// The bomb clock: at most one live countdown goroutine per match. Every arm
// captures the match epoch at arming time; a tick whose epoch no longer
// matches is discarded under the match lock, so a tick already in flight
// when a word is accepted (or the match stops) can never mutate the new
// turn's state.

// armClockLocked cancels any previous countdown and starts a new one for the
// current epoch. Callers must hold m.mu.
func (m *Match) armClockLocked() {
	m.cancelClockLocked()
	stop := make(chan struct{})
	m.clockStop = stop
	go m.runCountdown(m.clock.NewTicker(time.Second), stop, m.epoch)
}

// cancelClockLocked stops the pending countdown, if any. Calling it when
// nothing is armed is a no-op. Callers must hold m.mu.
func (m *Match) cancelClockLocked() {
	if m.clockStop != nil {
		close(m.clockStop)
		m.clockStop = nil
	}
}

func (m *Match) runCountdown(ticker clockwork.Ticker, stop <-chan struct{}, epoch uint64) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			if !m.tick(epoch) {
				return
			}
		}
	}
}

// tick applies one second of countdown. It is a serialized command like any
// other: it takes the match lock, and a stale epoch means a word was
// accepted or the match stopped while this tick was in flight.
func (m *Match) tick(epoch uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if epoch != m.epoch || m.status != StatusPlaying {
		return false
	}

	m.bomb.TimeRemaining--
	m.broadcaster.BombTick(m.bomb.TimeRemaining)

	if m.bomb.TimeRemaining <= 0 {
		m.explodeLocked()
		return false
	}
	return true
}
