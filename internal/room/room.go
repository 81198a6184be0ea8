// Package room owns the roster and the chat history of the single shared
// room, and composes the match engine. The match is an aggregate the room
// manages, not a global.
package room

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/boomparty/server/internal/events"
	"github.com/boomparty/server/internal/match"
)

var (
	ErrInvalidName      = errors.New("name must be between 3 and 20 characters")
	ErrNameTaken        = errors.New("that name is already taken")
	ErrInvalidMessage   = errors.New("message must be non-empty and at most 500 characters")
	ErrUnknownUser      = errors.New("user is not connected")
	ErrUnknownRecipient = errors.New("recipient not found")
	ErrNotAdmin         = errors.New("only the admin can do that")
)

const (
	nameMinLen       = 3
	nameMaxLen       = 20
	messageMaxLen    = 500
	replayedMessages = 50
	// Chat history is capped; only the replay window ever leaves the room.
	historyCap = 500
)

// User is a connected room member.
type User struct {
	ID          string
	Name        string
	Avatar      string
	IsAdmin     bool
	ConnectedAt time.Time
}

// MessageType distinguishes chat traffic.
type MessageType string

const (
	MessageGlobal  MessageType = "global"
	MessagePrivate MessageType = "private"
	MessageSystem  MessageType = "system"
)

// Message is a chat entry kept in the room history.
type Message struct {
	ID        string
	Type      MessageType
	Content   string
	Sender    *User
	Recipient *User
	Timestamp time.Time
}

// Sender is what the room needs from the gateway. Implementations must not
// call back into the Room.
type Sender interface {
	Broadcast(event events.Event)
	SendToUser(userID string, event events.Event)
}

// Room is the single shared session: roster, chat and the match.
//
// Lock ordering: room methods release r.mu before calling into the match,
// because the match engine calls back into the room (system messages,
// snapshots) while holding its own lock.
type Room struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	sender   Sender
	users    []*User
	messages []Message

	match *match.Match
}

// Config assembles a Room.
type Config struct {
	Sender    Sender
	Lexicon   match.Lexicon
	Settings  match.Settings
	Fragments []string
	Clock     clockwork.Clock
}

// New creates an empty room owning a waiting match.
func New(cfg Config) *Room {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	r := &Room{
		clock:  cfg.Clock,
		sender: cfg.Sender,
	}
	r.match = match.New(match.Config{
		Broadcaster: (*matchBroadcaster)(r),
		Lexicon:     cfg.Lexicon,
		Settings:    cfg.Settings,
		Fragments:   cfg.Fragments,
		Clock:       cfg.Clock,
	})
	return r
}

// Match exposes the engine for direct command routing.
func (r *Room) Match() *match.Match {
	return r.match
}

// Join validates the display name, registers the user (first joiner becomes
// admin) and replays recent chat. The caller receives the created user.
func (r *Room) Join(name, avatar string) (*User, error) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < nameMinLen || len(trimmed) > nameMaxLen {
		return nil, ErrInvalidName
	}

	r.mu.Lock()
	for _, u := range r.users {
		if strings.EqualFold(u.Name, trimmed) {
			r.mu.Unlock()
			return nil, ErrNameTaken
		}
	}
	user := &User{
		ID:          uuid.New().String(),
		Name:        trimmed,
		Avatar:      avatar,
		IsAdmin:     len(r.users) == 0,
		ConnectedAt: r.clock.Now(),
	}
	r.users = append(r.users, user)
	r.mu.Unlock()

	r.match.AddPlayer(user.ID, user.Name, user.Avatar, user.IsAdmin)

	r.sender.SendToUser(user.ID, events.NewEvent(events.EventTypeUserJoined, userInfo(user)))
	r.replayHistory(user)
	r.broadcastUsers()
	r.systemMessage(fmt.Sprintf("%s joined the room!", user.Name))

	log.Info().Str("user", user.Name).Bool("admin", user.IsAdmin).Msg("user joined")
	return user, nil
}

// Leave removes a user (disconnect). Adminship moves to the
// longest-connected remaining user when the admin leaves.
func (r *Room) Leave(userID string) {
	r.mu.Lock()
	user, idx := r.userByIDLocked(userID)
	if user == nil {
		r.mu.Unlock()
		return
	}
	r.users = append(r.users[:idx], r.users[idx+1:]...)
	promoted := r.reassignAdminLocked(user.IsAdmin)
	r.mu.Unlock()

	if promoted != nil {
		r.match.SetAdmin(promoted.ID, true)
	}
	r.match.RemovePlayer(userID)

	r.broadcastUsers()
	r.systemMessage(fmt.Sprintf("%s left the room.", user.Name))
	log.Info().Str("user", user.Name).Msg("user left")
}

// Kick removes a user on an admin's request and tells the gateway to drop
// the connection.
func (r *Room) Kick(requestedBy, targetID string) (*User, error) {
	r.mu.Lock()
	admin, _ := r.userByIDLocked(requestedBy)
	if admin == nil {
		r.mu.Unlock()
		return nil, ErrUnknownUser
	}
	if !admin.IsAdmin {
		r.mu.Unlock()
		return nil, ErrNotAdmin
	}
	target, idx := r.userByIDLocked(targetID)
	if target == nil {
		r.mu.Unlock()
		return nil, ErrUnknownRecipient
	}
	r.users = append(r.users[:idx], r.users[idx+1:]...)
	promoted := r.reassignAdminLocked(target.IsAdmin)
	r.mu.Unlock()

	if promoted != nil {
		r.match.SetAdmin(promoted.ID, true)
	}
	r.match.RemovePlayer(targetID)

	r.sender.SendToUser(targetID, events.NewEvent(events.EventTypeError,
		events.ErrorPayload{Message: "you have been kicked by an administrator"}))
	r.broadcastUsers()
	r.systemMessage(fmt.Sprintf("%s was kicked by %s", target.Name, admin.Name))

	log.Info().Str("admin", admin.Name).Str("target", target.Name).Msg("user kicked")
	return target, nil
}

// Chat posts a global message.
func (r *Room) Chat(userID, content string) error {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > messageMaxLen {
		return ErrInvalidMessage
	}

	r.mu.Lock()
	user, _ := r.userByIDLocked(userID)
	if user == nil {
		r.mu.Unlock()
		return ErrUnknownUser
	}
	msg := r.appendMessageLocked(Message{
		Type:    MessageGlobal,
		Content: content,
		Sender:  user,
	})
	r.mu.Unlock()

	r.sender.Broadcast(events.NewEvent(events.EventTypeMessageReceived, messagePayload(msg)))
	return nil
}

// PrivateMessage delivers a message to the sender and the recipient only.
func (r *Room) PrivateMessage(senderID, recipientID, content string) error {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > messageMaxLen {
		return ErrInvalidMessage
	}

	r.mu.Lock()
	sender, _ := r.userByIDLocked(senderID)
	if sender == nil {
		r.mu.Unlock()
		return ErrUnknownUser
	}
	recipient, _ := r.userByIDLocked(recipientID)
	if recipient == nil {
		r.mu.Unlock()
		return ErrUnknownRecipient
	}
	msg := r.appendMessageLocked(Message{
		Type:      MessagePrivate,
		Content:   content,
		Sender:    sender,
		Recipient: recipient,
	})
	r.mu.Unlock()

	payload := events.NewEvent(events.EventTypeMessageReceived, messagePayload(msg))
	r.sender.SendToUser(senderID, payload)
	r.sender.SendToUser(recipientID, payload)
	return nil
}

// Users returns the roster in join order.
func (r *Room) Users() []User {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out
}

// replayHistory sends the tail of the chat history to a new joiner; private
// messages are replayed only to their participants.
func (r *Room) replayHistory(user *User) {
	r.mu.Lock()
	start := len(r.messages) - replayedMessages
	if start < 0 {
		start = 0
	}
	tail := make([]Message, 0, len(r.messages)-start)
	for _, msg := range r.messages[start:] {
		if msg.Type == MessagePrivate &&
			msg.Sender.ID != user.ID &&
			(msg.Recipient == nil || msg.Recipient.ID != user.ID) {
			continue
		}
		tail = append(tail, msg)
	}
	r.mu.Unlock()

	for _, msg := range tail {
		r.sender.SendToUser(user.ID, events.NewEvent(events.EventTypeMessageReceived, messagePayload(msg)))
	}
}

// systemMessage records and broadcasts a narrative chat line.
func (r *Room) systemMessage(content string) {
	r.mu.Lock()
	msg := r.appendMessageLocked(Message{Type: MessageSystem, Content: content})
	r.mu.Unlock()

	r.sender.Broadcast(events.NewEvent(events.EventTypeMessageReceived, messagePayload(msg)))
}

func (r *Room) broadcastUsers() {
	r.mu.Lock()
	infos := make([]events.PlayerInfo, 0, len(r.users))
	for _, u := range r.users {
		infos = append(infos, userInfo(u))
	}
	r.mu.Unlock()

	r.sender.Broadcast(events.NewEvent(events.EventTypeUsersList, infos))
}

func (r *Room) appendMessageLocked(msg Message) Message {
	msg.ID = uuid.New().String()
	msg.Timestamp = r.clock.Now()
	r.messages = append(r.messages, msg)
	if len(r.messages) > historyCap {
		r.messages = r.messages[len(r.messages)-historyCap:]
	}
	return msg
}

func (r *Room) userByIDLocked(id string) (*User, int) {
	for i, u := range r.users {
		if u.ID == id {
			return u, i
		}
	}
	return nil, -1
}

// reassignAdminLocked promotes the longest-connected user when the admin is
// gone. Returns the promoted user, if any.
func (r *Room) reassignAdminLocked(adminLeft bool) *User {
	if !adminLeft || len(r.users) == 0 {
		return nil
	}
	oldest := r.users[0]
	for _, u := range r.users[1:] {
		if u.ConnectedAt.Before(oldest.ConnectedAt) {
			oldest = u
		}
	}
	oldest.IsAdmin = true
	return oldest
}

func userInfo(u *User) events.PlayerInfo {
	return events.PlayerInfo{
		ID:      u.ID,
		Name:    u.Name,
		Avatar:  u.Avatar,
		IsAdmin: u.IsAdmin,
	}
}

func messagePayload(msg Message) events.MessagePayload {
	p := events.MessagePayload{
		ID:        msg.ID,
		Type:      string(msg.Type),
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	}
	if msg.Sender != nil {
		s := userInfo(msg.Sender)
		p.Sender = &s
	}
	if msg.Recipient != nil {
		rec := userInfo(msg.Recipient)
		p.Recipient = &rec
	}
	return p
}
