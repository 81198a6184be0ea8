package room

import (
	"github.com/boomparty/server/internal/events"
)

// matchBroadcaster adapts the Room to the engine's Broadcaster interface.
// The engine invokes these while holding the match lock, so they may take
// the room lock but must never call back into the match.
type matchBroadcaster Room

func (b *matchBroadcaster) room() *Room { return (*Room)(b) }

func (b *matchBroadcaster) GameUpdated(snapshot events.GameSnapshot) {
	b.room().sender.Broadcast(events.NewEvent(events.EventTypeGameUpdated, snapshot))
}

func (b *matchBroadcaster) BombTick(timeRemaining int) {
	b.room().sender.Broadcast(events.NewEvent(events.EventTypeBombTick,
		events.BombTickPayload{TimeRemaining: timeRemaining}))
}

func (b *matchBroadcaster) Explosion(playerID string) {
	b.room().sender.Broadcast(events.NewEvent(events.EventTypeExplosion,
		events.ExplosionPayload{PlayerID: playerID}))
}

func (b *matchBroadcaster) WordRejected(playerID string, payload events.WordRejectedPayload) {
	b.room().sender.SendToUser(playerID, events.NewEvent(events.EventTypeWordRejected, payload))
}

func (b *matchBroadcaster) SystemMessage(content string) {
	b.room().systemMessage(content)
}
