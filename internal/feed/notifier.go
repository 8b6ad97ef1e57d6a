package feed

import (
	"context"
	"sync"
)

// Notifier signals that an owner's documents changed. It carries no payload;
// subscribers re-read the store to get the new snapshot.
type Notifier interface {
	Publish(ctx context.Context, ownerID string) error

	// Subscribe calls fn for every published owner id until ctx is done.
	// It blocks for the lifetime of the subscription. ready, when not nil,
	// is called once the subscription is live; signals published before
	// that point may have been missed.
	Subscribe(ctx context.Context, fn func(ownerID string), ready func()) error
}

// MemoryNotifier fans signals out to subscribers inside one process.
type MemoryNotifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(ownerID string)
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{subs: make(map[int]func(string))}
}

func (m *MemoryNotifier) Publish(ctx context.Context, ownerID string) error {
	m.mu.Lock()
	fns := make([]func(string), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(ownerID)
	}
	return nil
}

func (m *MemoryNotifier) Subscribe(ctx context.Context, fn func(ownerID string), ready func()) error {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	if ready != nil {
		ready()
	}

	<-ctx.Done()

	m.mu.Lock()
	delete(m.subs, id)
	m.mu.Unlock()
	return nil
}

// Subscribers reports how many subscriptions are currently registered.
func (m *MemoryNotifier) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}
