package storage

import (
	"context"
	"errors"
	"fmt"

	c "github.com/unkn0wn-root/tabsettings/codec"
	pr "github.com/unkn0wn-root/tabsettings/provider"
)

// Options configure a two-tier Storage.
// Shared and Local are required; the rest default sensibly.
type Options struct {
	Namespace string      // "" => "default"
	Shared    pr.Provider // synchronized tier, e.g. provider/redis
	Local     pr.Provider // device tier, e.g. provider/sqlite

	Codec       c.Codec[any] // nil => codec.JSON
	SharedCodec c.Codec[any] // nil => Codec; wrap with codec.Limit for untrusted peers
	Feed        Feed         // nil => NewLocalFeed()
	OnCorrupt   CorruptFunc  // nil => ignored
}

// Storage is the persistent key/value store consumed by the settings store.
type Storage struct {
	shared *Tier
	local  *Tier
	feed   Feed
}

func New(opts Options) (*Storage, error) {
	if opts.Shared == nil {
		return nil, fmt.Errorf("storage: shared provider is required")
	}
	if opts.Local == nil {
		return nil, fmt.Errorf("storage: local provider is required")
	}
	ns := opts.Namespace
	if ns == "" {
		ns = "default"
	}
	codec := opts.Codec
	if codec == nil {
		codec = c.JSON[any]{}
	}
	sharedCodec := opts.SharedCodec
	if sharedCodec == nil {
		sharedCodec = codec
	}

	shared, err := NewTier(Shared, ns, opts.Shared, sharedCodec, opts.OnCorrupt)
	if err != nil {
		return nil, err
	}
	local, err := NewTier(Local, ns, opts.Local, codec, opts.OnCorrupt)
	if err != nil {
		return nil, err
	}
	feed := opts.Feed
	if feed == nil {
		feed = NewLocalFeed()
	}
	return &Storage{shared: shared, local: local, feed: feed}, nil
}

func (s *Storage) tier(area Area) (*Tier, error) {
	switch area {
	case Shared:
		return s.shared, nil
	case Local:
		return s.local, nil
	default:
		return nil, fmt.Errorf("storage: unknown area %q", area)
	}
}

// Get reads the keys of defaults from area; absent keys keep their default.
func (s *Storage) Get(ctx context.Context, area Area, defaults map[string]any) (map[string]any, error) {
	t, err := s.tier(area)
	if err != nil {
		return nil, err
	}
	return t.Get(ctx, defaults)
}

// Set writes items to area and publishes the keys that changed. Keys written
// before a failure are still published.
func (s *Storage) Set(ctx context.Context, area Area, items map[string]any) error {
	t, err := s.tier(area)
	if err != nil {
		return err
	}
	changes, setErr := t.Set(ctx, items)
	var pubErr error
	if len(changes) > 0 {
		pubErr = s.feed.Publish(ctx, Notification{Area: area, Changes: changes})
		if errors.Is(pubErr, ErrFeedClosed) {
			pubErr = nil
		}
	}
	return errors.Join(setErr, pubErr)
}

// Subscribe registers fn for changes to either tier, including this
// process's own writes.
func (s *Storage) Subscribe(fn func(changes map[string]Change, area Area)) (cancel func()) {
	return s.feed.Subscribe(func(n Notification) { fn(n.Changes, n.Area) })
}

// Close closes the feed, then both providers.
func (s *Storage) Close(ctx context.Context) error {
	return errors.Join(
		s.feed.Close(ctx),
		s.shared.Close(ctx),
		s.local.Close(ctx),
	)
}
