package pubsub

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrClosed is returned by a publisher after Close.
var ErrClosed = errors.New("pubsub: publisher is closed")

// Catalog topic and its event types.
const (
	CatalogTopic = "catalog"

	EventGraphSaved     = "graph_saved"     // A graph was inserted through the API
	EventSourceReloaded = "source_reloaded" // The adjacency source file changed and was reloaded
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Version int             `json:"version"` // Per-topic sequence number, starting at 1
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	Topic() string
	Events() <-chan Event
	Close() error
}

// Publisher manages subscriptions and fans events out to them.
type Publisher interface {
	// Subscribe creates a new subscription to a topic.
	// Context cancellation closes the subscription.
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic.
	Publish(topic string, eventType string, data any) error

	Close() error
}

// CatalogChange is the payload of catalog events.
type CatalogChange struct {
	GraphID int64  `json:"graphId"`
	Name    string `json:"name"`
	Nodes   int    `json:"nodes"`
	Edges   int    `json:"edges"`
}

// NewCatalogPublisher returns a publisher whose catalog topic replays the latest
// change to new subscribers.
func NewCatalogPublisher() *SSEPublisher {
	p := NewSSEPublisher()
	p.ConfigureTopic(CatalogTopic, TopicConfig{BufferSize: 1})
	return p
}
