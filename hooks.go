package tabsettings

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; wrap slow sinks with hooks/async.
type Hooks interface {
	// A background write to a tier failed. The in-memory value stays.
	PersistFailed(err *PersistError)

	// A change notification was dropped by the sync gate.
	// reason ∈ {"local_area", "sync_disabled"}
	ExternalChangeIgnored(area string, keys int, reason string)

	// Set returned an error for key (validation, unknown key, closed store).
	SettingRejected(key Key, err error)

	// enableSync flipped; the tier used for reads and writes changed.
	SyncToggled(enabled bool)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) PersistFailed(*PersistError)               {}
func (NopHooks) ExternalChangeIgnored(string, int, string) {}
func (NopHooks) SettingRejected(Key, error)                {}
func (NopHooks) SyncToggled(bool)                          {}
