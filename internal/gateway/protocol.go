package gateway

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/boomparty/server/internal/events"
	"github.com/boomparty/server/internal/match"
)

// ClientMessage is the envelope for every client-to-server message.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type joinPayload struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type chatPayload struct {
	Content string `json:"content"`
}

type privatePayload struct {
	Content     string `json:"content"`
	RecipientID string `json:"recipientId"`
}

type kickPayload struct {
	UserID string `json:"userId"`
}

type wordPayload struct {
	Word string `json:"word"`
}

// Kicked connections get a moment for the error event to flush before the
// socket drops.
const kickCloseDelay = 100 * time.Millisecond

func (c *Conn) handleMessage(raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("bad json")
		return
	}

	if c.UserID == "" {
		if msg.Type != "user:join" {
			c.sendError("join first")
			return
		}
		c.handleJoin(msg.Data)
		return
	}

	switch msg.Type {
	case "user:join":
		c.sendError("already joined")

	case "message:global":
		var p chatPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			c.sendError("bad payload")
			return
		}
		if err := c.hub.room.Chat(c.UserID, p.Content); err != nil {
			c.sendError(err.Error())
		}

	case "message:private":
		var p privatePayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			c.sendError("bad payload")
			return
		}
		if err := c.hub.room.PrivateMessage(c.UserID, p.RecipientID, p.Content); err != nil {
			c.sendError(err.Error())
		}

	case "admin:kick":
		var p kickPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			c.sendError("bad payload")
			return
		}
		target, err := c.hub.room.Kick(c.UserID, p.UserID)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		time.AfterFunc(kickCloseDelay, func() { c.hub.CloseUser(target.ID) })

	case "game:start":
		if err := c.hub.room.Match().Start(c.UserID); err != nil {
			c.sendError(err.Error())
		}

	case "game:stop":
		if err := c.hub.room.Match().Stop(c.UserID); err != nil {
			c.sendError(err.Error())
		}

	case "game:submit-word":
		var p wordPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			c.sendError("bad payload")
			return
		}
		err := c.hub.room.Match().SubmitWord(c.UserID, p.Word)
		if err != nil && !match.IsRejection(err) {
			// Rejections were already reported to the submitter by the
			// engine; everything else is a precondition failure.
			c.sendError(err.Error())
		}

	case "game:update-settings":
		var p events.SettingsInfo
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			c.sendError("bad payload")
			return
		}
		if err := c.hub.room.Match().UpdateSettings(c.UserID, settingsFromInfo(p)); err != nil {
			c.sendError(err.Error())
		}

	default:
		c.sendError("unknown message type")
	}
}

func (c *Conn) handleJoin(data json.RawMessage) {
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendError("bad payload")
		return
	}

	user, err := c.hub.room.Join(p.Name, p.Avatar)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.hub.bindUser(c, user.ID)

	// The joiner gets the current match state right away.
	c.sendEvent(events.NewEvent(events.EventTypeGameUpdated, c.hub.room.Match().Snapshot()))

	log.Info().Str("connection_id", c.ID).Str("user", user.Name).Msg("connection identified")
}

// settingsFromInfo maps the wire form onto engine settings. A payload
// without an explicit mode is disambiguated by which time fields it carries,
// matching the two historical payload shapes.
func settingsFromInfo(p events.SettingsInfo) match.Settings {
	mode := match.TimeMode(p.Mode)
	if mode == "" {
		if p.BaseTime > 0 {
			mode = match.TimeModeAdaptive
		} else {
			mode = match.TimeModeRange
		}
	}
	return match.Settings{
		Mode:          mode,
		MinTime:       p.MinTime,
		MaxTime:       p.MaxTime,
		BaseTime:      p.BaseTime,
		StartingLives: p.StartingLives,
	}
}
