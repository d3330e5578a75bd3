// Package provider defines the byte store a settings tier persists to.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key (no prepended/appended
// metadata, no re-encoding, no mutation). Tiers compare stored bytes to detect
// no-op writes and frame every value, so any transform breaks both.
//
// Important: keys shaped "<area>:<ns>:<key>" are owned by tabsettings. External
// code MUST NOT write under them; foreign bytes fail frame validation and are
// deleted on the next read.
package provider

import "context"

// Provider is a minimal persistent byte store. Must be safe for concurrent use.
// Settings never expire, so there is no TTL.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value. Returns ok=false when the store refused the write
	// (admission policy, memory pressure).
	Set(ctx context.Context, key string, value []byte) (ok bool, err error)

	// Del removes a key (best-effort). Deleting a missing key is not an error.
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
