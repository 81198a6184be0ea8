package match

import "errors"

// ErrNoPlayersLeft is internal: it always resolves to the match ending with
// no winner and is never surfaced to a player.
var ErrNoPlayersLeft = errors.New("no players left alive")

// nextAlive returns the id of the next alive player after fromID in roster
// order, wrapping around. Relative order among alive players is stable: the
// roster order is fixed at match start and only membership in the alive set
// changes. fromID itself may be dead or already removed from the roster;
// scanning starts from its former position either way.
func nextAlive(players []*Player, fromID string) (string, error) {
	n := len(players)
	start := 0
	for i, p := range players {
		if p.ID == fromID {
			start = i + 1
			break
		}
	}
	for i := 0; i < n; i++ {
		p := players[(start+i)%n]
		if p.IsAlive && p.ID != fromID {
			return p.ID, nil
		}
	}
	return "", ErrNoPlayersLeft
}

// alivePlayers returns the alive subset in roster order.
func alivePlayers(players []*Player) []*Player {
	out := make([]*Player, 0, len(players))
	for _, p := range players {
		if p.IsAlive {
			out = append(out, p)
		}
	}
	return out
}
