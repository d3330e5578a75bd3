package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	c "github.com/unkn0wn-root/tabsettings/codec"
	"github.com/unkn0wn-root/tabsettings/internal/util"
	"github.com/unkn0wn-root/tabsettings/internal/wire"
	pr "github.com/unkn0wn-root/tabsettings/provider"
)

// ErrRejected is returned when a provider refuses a write (ok=false).
var ErrRejected = errors.New("storage: write rejected by provider")

// CorruptFunc is told about entries dropped on read.
// reason ∈ {"corrupt", "value_decode"}
type CorruptFunc func(storageKey, reason string)

// Tier is one storage area over a byte provider.
type Tier struct {
	area      Area
	ns        string
	provider  pr.Provider
	codec     c.Codec[any]
	onCorrupt CorruptFunc
}

func NewTier(area Area, ns string, p pr.Provider, codec c.Codec[any], onCorrupt CorruptFunc) (*Tier, error) {
	if !area.Valid() {
		return nil, fmt.Errorf("storage: unknown area %q", area)
	}
	if p == nil {
		return nil, fmt.Errorf("storage: %s tier: provider is required", area)
	}
	if codec == nil {
		return nil, fmt.Errorf("storage: %s tier: codec is required", area)
	}
	if onCorrupt == nil {
		onCorrupt = func(string, string) {}
	}
	return &Tier{area: area, ns: ns, provider: p, codec: codec, onCorrupt: onCorrupt}, nil
}

func (t *Tier) Area() Area { return t.area }

func (t *Tier) key(k string) string { return util.StorageKey(string(t.area), t.ns, k) }

// Get reads every key in defaults. Missing, corrupt, or undecodable entries
// take the default; corrupt ones are deleted so the next write starts clean.
func (t *Tier) Get(ctx context.Context, defaults map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(defaults))
	for _, k := range util.SortedKeys(defaults) {
		v, ok, err := t.get(ctx, k)
		if err != nil {
			return nil, err
		}
		if ok {
			out[k] = v
		} else {
			out[k] = defaults[k]
		}
	}
	return out, nil
}

func (t *Tier) get(ctx context.Context, k string) (any, bool, error) {
	sk := t.key(k)
	raw, ok, err := t.provider.Get(ctx, sk)
	if err != nil {
		return nil, false, fmt.Errorf("storage: %s get %q: %w", t.area, k, err)
	}
	if !ok {
		return nil, false, nil
	}
	payload, err := wire.DecodeValue(raw)
	if err != nil {
		_ = t.provider.Del(ctx, sk) // self-heal corrupt
		t.onCorrupt(sk, "corrupt")
		return nil, false, nil
	}
	v, err := t.codec.Decode(payload)
	if err != nil {
		_ = t.provider.Del(ctx, sk)
		t.onCorrupt(sk, "value_decode")
		return nil, false, nil
	}
	return v, true, nil
}

// Set writes items in key order and returns the keys whose stored bytes
// actually changed. On error, changes made before the failing key are still
// returned alongside it.
func (t *Tier) Set(ctx context.Context, items map[string]any) (map[string]Change, error) {
	changes := make(map[string]Change, len(items))
	for _, k := range util.SortedKeys(items) {
		payload, err := t.codec.Encode(items[k])
		if err != nil {
			return changes, fmt.Errorf("storage: %s encode %q: %w", t.area, k, err)
		}
		framed := wire.EncodeValue(payload)

		sk := t.key(k)
		var old any
		prevRaw, hadPrev, err := t.provider.Get(ctx, sk)
		if err != nil {
			return changes, fmt.Errorf("storage: %s get %q: %w", t.area, k, err)
		}
		if hadPrev {
			if bytes.Equal(prevRaw, framed) {
				continue
			}
			if p, err := wire.DecodeValue(prevRaw); err == nil {
				old, _ = t.codec.Decode(p)
			}
		}

		ok, err := t.provider.Set(ctx, sk, framed)
		if err != nil {
			return changes, fmt.Errorf("storage: %s set %q: %w", t.area, k, err)
		}
		if !ok {
			return changes, fmt.Errorf("storage: %s set %q: %w", t.area, k, ErrRejected)
		}
		changes[k] = Change{OldValue: old, NewValue: items[k]}
	}
	return changes, nil
}

func (t *Tier) Close(ctx context.Context) error { return t.provider.Close(ctx) }
