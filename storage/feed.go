package storage

import (
	"context"
	"errors"
	"sync"
)

var ErrFeedClosed = errors.New("storage: feed closed")

// Listener receives change notifications. It runs on the publisher's
// goroutine and must not block or Publish on the same feed.
type Listener func(Notification)

// Feed abstracts how change notifications travel.
// Use LocalFeed for a single process, or RedisFeed to hear from peers.
type Feed interface {
	// Publish delivers n to every subscriber (and to peers, if the feed has any).
	Publish(ctx context.Context, n Notification) error
	// Subscribe registers fn; the returned cancel stops delivery and is idempotent.
	Subscribe(fn Listener) (cancel func())
	// Close drops all subscribers and releases resources.
	Close(ctx context.Context) error
}

type listenerEntry struct {
	id uint64
	fn Listener
}

// LocalFeed fans notifications out in-process, synchronously, in
// subscription order.
type LocalFeed struct {
	mu     sync.RWMutex
	subs   []listenerEntry
	nextID uint64
	closed bool
}

var _ Feed = (*LocalFeed)(nil)

func NewLocalFeed() *LocalFeed { return &LocalFeed{} }

func (f *LocalFeed) Publish(_ context.Context, n Notification) error {
	f.mu.RLock()
	if f.closed {
		f.mu.RUnlock()
		return ErrFeedClosed
	}
	subs := make([]listenerEntry, len(f.subs))
	copy(subs, f.subs)
	f.mu.RUnlock()

	for _, s := range subs {
		s.fn(n)
	}
	return nil
}

func (f *LocalFeed) Subscribe(fn Listener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || fn == nil {
		return func() {}
	}
	f.nextID++
	id := f.nextID
	f.subs = append(f.subs, listenerEntry{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i, s := range f.subs {
				if s.id == id {
					f.subs = append(f.subs[:i:i], f.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (f *LocalFeed) Close(context.Context) error {
	f.mu.Lock()
	f.closed = true
	f.subs = nil
	f.mu.Unlock()
	return nil
}
