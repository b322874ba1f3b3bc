// Package pubsub provides a generic publish/subscribe event system.
package pubsub

import (
	"context"
	"time"
)

// EventType classifies what happened to the subject of an event.
type EventType string

const (
	RegisteredEvent EventType = "registered" // a namespace or member came into existence
	ChangedEvent    EventType = "changed"    // an existing subject was updated in place
	RemovedEvent    EventType = "removed"    // a subject was evicted or deleted
	EmittedEvent    EventType = "emitted"    // a one-way broadcast such as a log line
)

// Event represents a published event with a typed payload.
// Topic names the subject the event concerns: a namespace path,
// a config file, a log category.
type Event[T any] struct {
	Type      EventType
	Topic     string
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, topic string, payload T)
}
