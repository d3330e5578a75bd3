package storage

import "fmt"

// Area names a storage tier.
type Area string

const (
	// Shared is synchronized across a user's devices.
	Shared Area = "shared"
	// Local is confined to this device/profile.
	Local Area = "local"
)

func (a Area) Valid() bool { return a == Shared || a == Local }

func ParseArea(s string) (Area, error) {
	a := Area(s)
	if !a.Valid() {
		return "", fmt.Errorf("storage: unknown area %q", s)
	}
	return a, nil
}

// Change describes one key's transition. A nil OldValue means the key was
// absent before; a nil NewValue means it was removed.
type Change struct {
	OldValue any
	NewValue any
}

// Notification is what feeds deliver: every key changed by one write.
type Notification struct {
	Area    Area
	Changes map[string]Change
	// Origin identifies the publishing process when the change crossed the wire.
	Origin string
}
