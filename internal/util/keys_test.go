package util

import "testing"

func TestStorageKeyLayout(t *testing.T) {
	if got := StorageKey("shared", "default", "minTabs"); got != "shared:default:minTabs" {
		t.Fatalf("StorageKey=%q", got)
	}
	if got := ChangesChannel("prod"); got != "tabsettings:prod:changes" {
		t.Fatalf("ChangesChannel=%q", got)
	}
}

func TestSortedKeysDoesNotDependOnMapOrder(t *testing.T) {
	m := map[string]int{"c": 1, "a": 2, "b": 3}
	got := SortedKeys(m)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got=%v want=%v", got, want)
		}
	}
}
