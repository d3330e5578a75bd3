package tabsettings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/unkn0wn-root/tabsettings/storage"
)

var (
	// ErrInvalidSetting is wrapped by every *InvalidSettingError.
	ErrInvalidSetting = errors.New("tabsettings: invalid setting")
	// ErrUnknownKey is returned for keys outside the settings table, including derived keys on Set.
	ErrUnknownKey = errors.New("tabsettings: unknown key")
	// ErrIndexOutOfRange is returned by RemoveWhitelistEntryByIndex.
	ErrIndexOutOfRange = errors.New("tabsettings: whitelist index out of range")
	// ErrClosed is returned by writes after Close.
	ErrClosed = errors.New("tabsettings: store closed")
)

// InvalidSettingError is returned when a setter rejects a value. The store is
// left unchanged.
//
// Besides the range checks on minutesInactive, minTabs and maxExceededTime,
// every key must also hold its Kind: bool keys take a bool or a
// strconv.ParseBool string, and the whitelist takes []string or []any of
// strings. Anything else is rejected here rather than stored as given.
type InvalidSettingError struct {
	Key    Key
	Value  any
	Reason string
}

func (e *InvalidSettingError) Error() string {
	return fmt.Sprintf("tabsettings: invalid %s %#v: %s", e.Key, e.Value, e.Reason)
}

func (e *InvalidSettingError) Unwrap() error { return ErrInvalidSetting }

func unknownKey(k Key) error { return fmt.Errorf("%w: %q", ErrUnknownKey, string(k)) }

// PersistError describes a background write that failed. It never reaches the
// caller of Set (the cache already holds the value); it goes to Logger and Hooks.
type PersistError struct {
	Area storage.Area
	Keys []string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("tabsettings: persist %s [%s]: %v", e.Area, strings.Join(e.Keys, ","), e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
