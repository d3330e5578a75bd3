// Package storage is the two-tier persistent key/value store behind the
// settings store.
//
// Components:
//   - Tier: one storage area (Shared or Local) over a provider.Provider and a
//     codec.Codec[any]. Values are framed by internal/wire so foreign or
//     truncated bytes are detected and self-healed.
//   - Feed: change notifications. LocalFeed fans out in-process; RedisFeed also
//     carries shared-area changes between peers over Redis pub/sub.
//   - Storage: both tiers plus a feed, with the Get/Set/Subscribe surface the
//     settings store consumes.
//
// Keys:
//
//	<area>:<ns>:<key>   - one entry per setting
package storage
