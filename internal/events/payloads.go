package events

import "time"

// Event payload types shared between the match engine, room and gateway
// packages.

// PlayerInfo is the wire form of a match participant.
type PlayerInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
	Lives   int    `json:"lives"`
	IsAlive bool   `json:"isAlive"`
}

// BombInfo is the wire form of the bomb state.
type BombInfo struct {
	Fragment       string   `json:"fragment"`
	TimeRemaining  int      `json:"timeRemaining"`
	MaxTime        int      `json:"maxTime"`
	ActivePlayerID string   `json:"activePlayerId,omitempty"`
	UsedWords      []string `json:"usedWords"`
	RoundNumber    int      `json:"roundNumber"`
}

// SettingsInfo is the wire form of match settings. Exactly one of the two
// time forms is meaningful: baseTime for the adaptive policy, minTime/maxTime
// for the range policy.
type SettingsInfo struct {
	Mode          string `json:"mode"`
	MinTime       int    `json:"minTime,omitempty"`
	MaxTime       int    `json:"maxTime,omitempty"`
	BaseTime      int    `json:"baseTime,omitempty"`
	StartingLives int    `json:"startingLives"`
}

// GameSnapshot is the full match state broadcast on every state change.
type GameSnapshot struct {
	Status   string       `json:"status"`
	Players  []PlayerInfo `json:"players"`
	Bomb     BombInfo     `json:"bombState"`
	Winner   *PlayerInfo  `json:"winner"`
	Settings SettingsInfo `json:"settings"`
}

// BombTickPayload carries the per-second countdown update.
type BombTickPayload struct {
	TimeRemaining int `json:"timeRemaining"`
}

// ExplosionPayload names the player whose turn timed out.
type ExplosionPayload struct {
	PlayerID string `json:"playerId"`
}

// WordRejectedPayload goes only to the submitting player.
type WordRejectedPayload struct {
	Word   string `json:"word"`
	Reason string `json:"reason"`
}

// MessagePayload is a chat message (global, private or system).
type MessagePayload struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Content   string      `json:"content"`
	Sender    *PlayerInfo `json:"sender,omitempty"`
	Recipient *PlayerInfo `json:"recipient,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorPayload is a targeted error notification.
type ErrorPayload struct {
	Message string `json:"message"`
}
