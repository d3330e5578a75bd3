package util

import (
	"sort"
	"strings"
)

// StorageKey returns the provider key for one setting: <area>:<ns>:<key>.
func StorageKey(area, ns, key string) string {
	var b strings.Builder
	b.Grow(len(area) + len(ns) + len(key) + 2)
	b.WriteString(area)
	b.WriteByte(':')
	b.WriteString(ns)
	b.WriteByte(':')
	b.WriteString(key)
	return b.String()
}

// ChangesChannel is the pub/sub channel peers use to announce shared-tier writes.
func ChangesChannel(ns string) string {
	return "tabsettings:" + ns + ":changes"
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
