// Package natsmirror republishes room events to NATS JetStream so external
// consumers (history dashboards, moderation tooling) can follow a room
// without a WebSocket connection. It is strictly off the match's critical
// path: publish failures are logged and dropped.
package natsmirror

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"

	"github.com/boomparty/server/internal/events"
)

// Config holds JetStream connection settings.
type Config struct {
	URL           string
	StreamName    string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
	MaxAge        time.Duration
	PublishWait   time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		StreamName:    "PARTY_EVENTS",
		SubjectPrefix: "party.events",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		MaxAge:        24 * time.Hour,
		PublishWait:   2 * time.Second,
	}
}

// Publisher mirrors events onto a JetStream stream, one subject per event
// type.
type Publisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	config Config
}

// New connects to NATS and ensures the stream exists.
func New(cfg Config) (*Publisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	p := &Publisher{nc: nc, js: js, config: cfg}
	if err := p.ensureStream(context.Background()); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}
	return p, nil
}

func (p *Publisher) ensureStream(ctx context.Context) error {
	sc := jetstream.StreamConfig{
		Name:      p.config.StreamName,
		Subjects:  []string{fmt.Sprintf("%s.>", p.config.SubjectPrefix)},
		Retention: jetstream.LimitsPolicy,
		MaxAge:    p.config.MaxAge,
		Storage:   jetstream.FileStorage,
	}

	if _, err := p.js.Stream(ctx, p.config.StreamName); err != nil {
		if _, err := p.js.CreateStream(ctx, sc); err != nil {
			return fmt.Errorf("create stream: %w", err)
		}
		log.Info().Str("stream", p.config.StreamName).Msg("created JetStream stream")
	}
	return nil
}

// Publish mirrors one event. Implements gateway.Mirror.
func (p *Publisher) Publish(event events.Event) {
	subject := fmt.Sprintf("%s.%s", p.config.SubjectPrefix, sanitizeSubject(string(event.Type)))

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal mirrored event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.config.PublishWait)
	defer cancel()

	if _, err := p.js.PublishMsg(ctx, &nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"Event-Type": []string{string(event.Type)},
			"Event-ID":   []string{event.ID},
		},
	}, jetstream.WithMsgID(event.ID)); err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("failed to mirror event")
	}
}

// Close drops the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

// sanitizeSubject maps event types like "game:bomb-tick" onto legal NATS
// subject tokens.
func sanitizeSubject(eventType string) string {
	out := make([]rune, 0, len(eventType))
	for _, r := range eventType {
		switch r {
		case ':', '.', ' ', '*', '>':
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
