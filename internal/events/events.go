// Package events publishes notifications about generated audio.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultSubject is the subject used when none is configured.
const DefaultSubject = "napcast.audio.generated"

// AudioGenerated is emitted after an audio artifact has been produced.
type AudioGenerated struct {
	JobID       string    `json:"job_id"`
	Filename    string    `json:"filename"`
	AudioPath   string    `json:"audio_path"`
	VoiceMode   int       `json:"voice_mode"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Publisher delivers generation events.
type Publisher interface {
	PublishGenerated(ctx context.Context, event *AudioGenerated) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

// PublishGenerated does nothing.
func (Nop) PublishGenerated(context.Context, *AudioGenerated) error { return nil }

// Close does nothing.
func (Nop) Close() error { return nil }

// NATSPublisher publishes JSON events to a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	if subject == "" {
		subject = DefaultSubject
	}

	conn, err := nats.Connect(url,
		nats.Name("napcast"),
		nats.Timeout(5*time.Second),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// Subject returns the subject events are published to.
func (p *NATSPublisher) Subject() string {
	return p.subject
}

// PublishGenerated publishes event and flushes it to the server.
func (p *NATSPublisher) PublishGenerated(ctx context.Context, event *AudioGenerated) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}

	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
