package component

import (
	"context"
	"sort"
	"sync"

	"github.com/ehartline/armature/internal/pubsub"
)

// Change describes a single Model mutation.
type Change struct {
	Key      string
	Value    any
	Previous any
}

// Model is a key/value state bag for component state. Mutations publish
// change events so views can react without polling.
type Model struct {
	mu     sync.RWMutex
	name   string
	values map[string]any
	broker *pubsub.Broker[Change]
}

// NewModel creates an empty model. name identifies the model in event
// topics and logs.
func NewModel(name string) *Model {
	return &Model{
		name:   name,
		values: make(map[string]any),
		broker: pubsub.NewBroker[Change](),
	}
}

// Name returns the model's identifying name.
func (m *Model) Name() string {
	return m.name
}

// Get returns the value for key and whether it is present.
func (m *Model) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key. A new key publishes a registered event,
// an overwrite publishes a changed event carrying the previous value.
func (m *Model) Set(key string, value any) {
	m.mu.Lock()
	prev, existed := m.values[key]
	m.values[key] = value
	m.mu.Unlock()

	kind := pubsub.RegisteredEvent
	if existed {
		kind = pubsub.ChangedEvent
	}
	m.broker.Publish(kind, key, Change{Key: key, Value: value, Previous: prev})
}

// Delete removes key and publishes a removed event. Deleting an absent
// key is a no-op.
func (m *Model) Delete(key string) {
	m.mu.Lock()
	prev, existed := m.values[key]
	if existed {
		delete(m.values, key)
	}
	m.mu.Unlock()

	if existed {
		m.broker.Publish(pubsub.RemovedEvent, key, Change{Key: key, Previous: prev})
	}
}

// Keys returns the model's keys, sorted.
func (m *Model) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Subscribe returns a channel of change events. The subscription is
// cleaned up when ctx is cancelled.
func (m *Model) Subscribe(ctx context.Context) <-chan pubsub.Event[Change] {
	return m.broker.Subscribe(ctx)
}

// Close shuts down the model's event broker.
func (m *Model) Close() {
	m.broker.Close()
}
