package store

import "sync"

// Subscription is a live collection. C delivers the current snapshot first and
// a fresh snapshot after every change; an unread snapshot is replaced by a
// newer one. C is closed once the subscription ends.
type Subscription[T any] struct {
	C <-chan []T

	closeOnce sync.Once
	close     func()
}

// NewSubscription wraps a snapshot channel and the function that ends it.
func NewSubscription[T any](c <-chan []T, closeFn func()) *Subscription[T] {
	return &Subscription[T]{C: c, close: closeFn}
}

// Close stops delivery. It is safe to call more than once.
func (s *Subscription[T]) Close() {
	s.closeOnce.Do(s.close)
}

func deliverLatest[T any](ch chan []T, snapshot []T) {
	select {
	case <-ch:
	default:
	}
	ch <- snapshot
}
