package tabsettings

// Key identifies a setting.
type Key string

const (
	// KeyMinutesInactive is how many minutes before a tab is stale and may be closed.
	KeyMinutesInactive Key = "minutesInactive"
	// KeyMinTabs stops closing when only this many tabs are open.
	KeyMinTabs Key = "minTabs"
	// KeyMaxExceededTime is how many minutes the tab limit may be exceeded before closing starts.
	KeyMaxExceededTime Key = "maxExceededTime"
	// KeyPurgeClosedTabs drops saved closed tabs between browser sessions.
	KeyPurgeClosedTabs   Key = "purgeClosedTabs"
	KeyShowBadgeCount    Key = "showBadgeCount"
	KeyRemoveCorralDupes Key = "removeCorralDupes"
	KeyCountPerWindow    Key = "countPerWindow"
	// KeyWhitelist holds URL patterns that are never closed.
	KeyWhitelist Key = "whitelist"

	// Local-tier only.
	KeyEnableSync Key = "enableSync"
	KeyPaused     Key = "paused"

	// Derived, read-only.
	KeyStayOpen                    Key = "stayOpen"
	KeyMaxExceededTimeMilliseconds Key = "maxExceededTimeMilliseconds"
)

// Kind is the canonical Go type of a key's value.
type Kind uint8

const (
	KindInt     Kind = iota + 1 // int
	KindBool                    // bool
	KindStrings                 // []string
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindStrings:
		return "[]string"
	default:
		return "unknown"
	}
}

type keyDef struct {
	key  Key
	kind Kind
	def  any
}

// stored keys in display order; shared between tiers
var defaultsTable = []keyDef{
	{KeyMinutesInactive, KindInt, 20},
	{KeyMinTabs, KindInt, 5},
	{KeyMaxExceededTime, KindInt, 5},
	{KeyPurgeClosedTabs, KindBool, false},
	{KeyShowBadgeCount, KindBool, true},
	{KeyRemoveCorralDupes, KindBool, true},
	{KeyCountPerWindow, KindBool, true},
	{KeyWhitelist, KindStrings, []string{}},
}

const (
	defaultEnableSync = true
	defaultPaused     = false
)

var kinds = func() map[Key]Kind {
	m := make(map[Key]Kind, len(defaultsTable)+2)
	for _, d := range defaultsTable {
		m[d.key] = d.kind
	}
	m[KeyEnableSync] = KindBool
	m[KeyPaused] = KindBool
	return m
}()

// Keys returns the keys of the defaults table in a stable order.
// enableSync and paused are not included; they never leave the local tier.
func Keys() []Key {
	out := make([]Key, len(defaultsTable))
	for i, d := range defaultsTable {
		out[i] = d.key
	}
	return out
}

// KindOf reports the kind of a settable key.
func KindOf(k Key) (Kind, bool) {
	kind, ok := kinds[k]
	return kind, ok
}

// Defaults returns a fresh copy of the defaults table.
func Defaults() map[Key]any {
	out := make(map[Key]any, len(defaultsTable))
	for _, d := range defaultsTable {
		out[d.key] = cloneValue(d.def)
	}
	return out
}

// defaultsForStorage is the table keyed by plain strings, as tiers take it.
func defaultsForStorage() map[string]any {
	out := make(map[string]any, len(defaultsTable))
	for _, d := range defaultsTable {
		out[string(d.key)] = cloneValue(d.def)
	}
	return out
}
