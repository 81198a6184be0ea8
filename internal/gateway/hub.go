// Package gateway bridges WebSocket connections to the room: it fans
// room/match events out to clients and routes client commands in.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/boomparty/server/internal/events"
	"github.com/boomparty/server/internal/room"
)

// Mirror receives a copy of every broadcast event. Used to feed the optional
// NATS event mirror; never on the hot path.
type Mirror interface {
	Publish(event events.Event)
}

// Config holds WebSocket connection tuning.
type Config struct {
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	CheckOrigin    func(r *http.Request) bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 4096,
		CheckOrigin:    func(r *http.Request) bool { return true },
	}
}

// broadcastMessage targets one user when UserID is set, else the whole room.
type broadcastMessage struct {
	UserID string
	Event  events.Event
}

// Hub manages the WebSocket connections of the single room.
type Hub struct {
	mu     sync.RWMutex
	conns  map[*Conn]bool
	byUser map[string]*Conn

	upgrader    websocket.Upgrader
	config      Config
	broadcastCh chan broadcastMessage
	room        *room.Room
	mirror      Mirror
}

// Conn is one client connection.
type Conn struct {
	ID          string
	UserID      string
	sock        *websocket.Conn
	send        chan []byte
	hub         *Hub
	connectedAt time.Time
}

// NewHub creates a hub. Attach the room with SetRoom before serving.
func NewHub(cfg Config) *Hub {
	return &Hub{
		conns:  make(map[*Conn]bool),
		byUser: make(map[string]*Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     cfg.CheckOrigin,
		},
		config:      cfg,
		broadcastCh: make(chan broadcastMessage, 1000),
	}
}

// SetRoom attaches the room the hub routes commands to.
func (h *Hub) SetRoom(r *room.Room) {
	h.room = r
}

// SetMirror attaches an optional event mirror.
func (h *Hub) SetMirror(m Mirror) {
	h.mirror = m
}

// Run processes broadcast messages until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	log.Info().Msg("gateway hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("gateway hub shutting down")
			return
		case msg := <-h.broadcastCh:
			h.deliver(msg)
		}
	}
}

// Broadcast implements room.Sender.
func (h *Hub) Broadcast(event events.Event) {
	h.enqueue(broadcastMessage{Event: event})
}

// SendToUser implements room.Sender.
func (h *Hub) SendToUser(userID string, event events.Event) {
	h.enqueue(broadcastMessage{UserID: userID, Event: event})
}

func (h *Hub) enqueue(msg broadcastMessage) {
	select {
	case h.broadcastCh <- msg:
	default:
		log.Warn().Str("type", string(msg.Event.Type)).Msg("broadcast channel full, dropping event")
	}
}

func (h *Hub) deliver(msg broadcastMessage) {
	if h.mirror != nil && msg.UserID == "" {
		h.mirror.Publish(msg.Event)
	}

	data, err := json.Marshal(msg.Event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event")
		return
	}

	h.mu.RLock()
	var targets []*Conn
	if msg.UserID != "" {
		if c, ok := h.byUser[msg.UserID]; ok {
			targets = []*Conn{c}
		}
	} else {
		targets = make([]*Conn, 0, len(h.conns))
		for c := range h.conns {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- data:
		default:
			log.Warn().Str("connection_id", c.ID).Msg("send buffer full, closing connection")
			h.unregister(c)
			c.sock.Close()
		}
	}
}

// HandleWS upgrades an HTTP request and runs the connection's pumps.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return
	}

	conn := &Conn{
		ID:          uuid.New().String(),
		sock:        sock,
		send:        make(chan []byte, 256),
		hub:         h,
		connectedAt: time.Now(),
	}
	h.register(conn)

	go conn.writePump()
	go conn.readPump()

	log.Info().Str("connection_id", conn.ID).Str("remote", r.RemoteAddr).Msg("connection established")
}

// CloseUser drops a user's connection (used after a kick).
func (h *Hub) CloseUser(userID string) {
	h.mu.RLock()
	conn := h.byUser[userID]
	h.mu.RUnlock()
	if conn != nil {
		conn.sock.Close()
	}
}

// Stats reports active connection counts for the health endpoint.
func (h *Hub) Stats() (connections, identified int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns), len(h.byUser)
}

func (h *Hub) register(conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = true
}

func (h *Hub) bindUser(conn *Conn, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn.UserID = userID
	h.byUser[userID] = conn
}

func (h *Hub) unregister(conn *Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.conns, conn)
	if conn.UserID != "" {
		delete(h.byUser, conn.UserID)
	}
	close(conn.send)
	h.mu.Unlock()

	if conn.UserID != "" {
		h.room.Leave(conn.UserID)
	}
	log.Info().Str("connection_id", conn.ID).Str("user_id", conn.UserID).Msg("connection unregistered")
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(c.hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.sock.Close()
		c.hub.unregister(c)
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.sock.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if !ok {
				c.sock.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.sock.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to write message")
				return
			}
		case <-ticker.C:
			c.sock.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Conn) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.sock.Close()
	}()

	c.sock.SetReadLimit(c.hub.config.MaxMessageSize)
	c.sock.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	c.sock.SetPongHandler(func(string) error {
		c.sock.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("unexpected close")
			}
			return
		}
		c.handleMessage(message)
		c.sock.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	}
}

func (c *Conn) sendError(message string) {
	data, err := json.Marshal(events.NewEvent(events.EventTypeError, events.ErrorPayload{Message: message}))
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Conn) sendEvent(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

var _ room.Sender = (*Hub)(nil)
