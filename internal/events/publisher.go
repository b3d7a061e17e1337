package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectItemCreated = "items.created"
	SubjectItemUpdated = "items.updated"
	SubjectItemDeleted = "items.deleted"
)

// ItemEvent is the payload of every items.* subject.
type ItemEvent struct {
	ItemID     uint      `json:"item_id"`
	UserID     uint      `json:"user_id"`
	Name       string    `json:"name"`
	Price      int       `json:"price"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close()
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(url string) (*NatsPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("fleamarket"))
	if err != nil {
		return nil, fmt.Errorf("connect nats at %s: %w", url, err)
	}
	return &NatsPublisher{conn: conn}, nil
}

func (p *NatsPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, payload)
}

func (p *NatsPublisher) Close() {
	p.conn.Close()
}

// NoopPublisher is used when no NATS url is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NoopPublisher) Close()                                             {}
