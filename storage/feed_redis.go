package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	c "github.com/unkn0wn-root/tabsettings/codec"
	"github.com/unkn0wn-root/tabsettings/internal/util"
	"github.com/unkn0wn-root/tabsettings/internal/wire"
)

// RedisFeed delivers notifications in-process like LocalFeed and also
// publishes shared-area changes to peers over Redis pub/sub. Messages this
// process published itself are recognized by origin and not delivered twice.
type RedisFeed struct {
	rdb     redis.UniversalClient
	ps      *redis.PubSub
	channel string
	codec   c.Codec[any]
	origin  string
	local   *LocalFeed
	onError func(error)

	done      chan struct{}
	closeOnce sync.Once
}

var _ Feed = (*RedisFeed)(nil)

type RedisFeedConfig struct {
	Client    redis.UniversalClient
	Namespace string       // should match Options.Namespace
	Codec     c.Codec[any] // nil => codec.JSON; must match peers
	OnError   func(error)  // undecodable peer messages; nil => dropped silently
}

// NewRedisFeed subscribes to the namespace's change channel. It returns once
// the subscription is confirmed by the server.
func NewRedisFeed(ctx context.Context, cfg RedisFeedConfig) (*RedisFeed, error) {
	if cfg.Client == nil {
		return nil, errors.New("storage: redis feed: nil client")
	}
	codec := cfg.Codec
	if codec == nil {
		codec = c.JSON[any]{}
	}
	onError := cfg.OnError
	if onError == nil {
		onError = func(error) {}
	}

	f := &RedisFeed{
		rdb:     cfg.Client,
		channel: util.ChangesChannel(cfg.Namespace),
		codec:   codec,
		origin:  uuid.NewString(),
		local:   NewLocalFeed(),
		onError: onError,
		done:    make(chan struct{}),
	}

	f.ps = f.rdb.Subscribe(ctx, f.channel)
	if _, err := f.ps.Receive(ctx); err != nil {
		_ = f.ps.Close()
		return nil, fmt.Errorf("storage: redis feed subscribe %q: %w", f.channel, err)
	}
	go f.loop(f.ps.Channel())
	return f, nil
}

// Origin is this process's id on the wire.
func (f *RedisFeed) Origin() string { return f.origin }

func (f *RedisFeed) loop(ch <-chan *redis.Message) {
	defer close(f.done)
	for msg := range ch {
		n, err := f.decode([]byte(msg.Payload))
		if err != nil {
			f.onError(fmt.Errorf("storage: redis feed decode: %w", err))
			continue
		}
		if n.Origin == f.origin {
			continue
		}
		_ = f.local.Publish(context.Background(), n)
	}
}

func (f *RedisFeed) Publish(ctx context.Context, n Notification) error {
	if err := f.local.Publish(ctx, n); err != nil {
		return err
	}
	if n.Area != Shared || len(n.Changes) == 0 {
		return nil
	}
	n.Origin = f.origin
	payload, err := f.encode(n)
	if err != nil {
		return err
	}
	if err := f.rdb.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("storage: redis feed publish: %w", err)
	}
	return nil
}

func (f *RedisFeed) Subscribe(fn Listener) func() { return f.local.Subscribe(fn) }

// Close ends the subscription and waits for the receive loop to exit.
// The Redis client itself is left to its owner.
func (f *RedisFeed) Close(ctx context.Context) error {
	var err error
	f.closeOnce.Do(func() {
		_ = f.local.Close(ctx)
		err = f.ps.Close()
	})
	select {
	case <-f.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

func (f *RedisFeed) encode(n Notification) ([]byte, error) {
	items := make([]wire.ChangeItem, 0, len(n.Changes))
	for _, k := range util.SortedKeys(n.Changes) {
		ch := n.Changes[k]
		it := wire.ChangeItem{Key: k}
		var err error
		if it.Old, err = f.encodeOptional(ch.OldValue); err != nil {
			return nil, fmt.Errorf("storage: redis feed encode %q: %w", k, err)
		}
		if it.New, err = f.encodeOptional(ch.NewValue); err != nil {
			return nil, fmt.Errorf("storage: redis feed encode %q: %w", k, err)
		}
		items = append(items, it)
	}
	return wire.EncodeChanges(wire.Changes{Origin: n.Origin, Area: string(n.Area), Items: items})
}

func (f *RedisFeed) encodeOptional(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := f.codec.Encode(v)
	if err != nil {
		return nil, err
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}

func (f *RedisFeed) decode(b []byte) (Notification, error) {
	wc, err := wire.DecodeChanges(b)
	if err != nil {
		return Notification{}, err
	}
	area, err := ParseArea(wc.Area)
	if err != nil {
		return Notification{}, err
	}
	n := Notification{Area: area, Origin: wc.Origin, Changes: make(map[string]Change, len(wc.Items))}
	for _, it := range wc.Items {
		var ch Change
		if it.Old != nil {
			if ch.OldValue, err = f.codec.Decode(it.Old); err != nil {
				return Notification{}, fmt.Errorf("old value of %q: %w", it.Key, err)
			}
		}
		if it.New != nil {
			if ch.NewValue, err = f.codec.Decode(it.New); err != nil {
				return Notification{}, fmt.Errorf("new value of %q: %w", it.Key, err)
			}
		}
		n.Changes[it.Key] = ch
	}
	return n, nil
}
