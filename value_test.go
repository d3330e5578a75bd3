package tabsettings

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestParseInt(t *testing.T) {
	cases := []struct {
		in   any
		want int
		ok   bool
	}{
		{20, 20, true},
		{int64(-3), -3, true},
		{uint8(7), 7, true},
		{9.99, 9, true},
		{-2.5, -2, true},
		{float32(4), 4, true},
		{json.Number("12"), 12, true},
		{"15", 15, true},
		{"  42abc", 42, true},
		{"-7 minutes", -7, true},
		{"+3", 3, true},
		{"3.9", 3, true},
		{"0x10", 16, true},
		{" 0XfFz", 255, true},
		{"-0x1a", -26, true},
		{"0x", 0, false},
		{"0xg", 0, false},
		{"010", 10, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
		{" ", 0, false},
		{"99999999999999999999", 0, false},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
		{1e300, 0, false},
		{uint64(math.MaxUint64), 0, false},
		{true, 0, false},
		{nil, 0, false},
		{[]string{"1"}, 0, false},
	}
	for _, c := range cases {
		got, ok := parseInt(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("parseInt(%#v)=%d,%v want %d,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestMinutesToMillis(t *testing.T) {
	if got := minutesToMillis("2"); got != 120000 {
		t.Fatalf("got %v", got)
	}
	if got := minutesToMillis(nil); !math.IsNaN(got) {
		t.Fatalf("nil should be NaN, got %v", got)
	}
}

func TestCoerce(t *testing.T) {
	if b, ok := coerceBool(" TRUE "); !ok || !b {
		t.Fatalf("coerceBool string")
	}
	if _, ok := coerceBool(1); ok {
		t.Fatalf("numbers are not bools")
	}
	if l, ok := coerceStrings(nil); !ok || l == nil || len(l) != 0 {
		t.Fatalf("nil list should be empty, got %#v", l)
	}
	if _, ok := coerceStrings([]any{"a", nil}); ok {
		t.Fatalf("nil element accepted")
	}
	if _, ok := coerceStrings("a,b"); ok {
		t.Fatalf("bare string accepted as list")
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		key  Key
		in   any
		want any
	}{
		{KeyMinTabs, float64(5), 5},
		{KeyMinTabs, uint64(5), 5},
		{KeyMinTabs, 5.5, 5.5}, // kept raw
		{KeyMinTabs, "5", "5"}, // text stays text
		{KeyMinTabs, nil, nil}, // absent
		{KeyShowBadgeCount, "true", "true"},
		{KeyWhitelist, []any{"a"}, []string{"a"}},
		{KeyWhitelist, []any{1}, []any{1}},
		{"other", float64(1), float64(1)},
	}
	for _, c := range cases {
		if got := normalize(c.key, c.in); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("normalize(%s, %#v)=%#v want %#v", c.key, c.in, got, c.want)
		}
	}
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(KeyWhitelist, " a.com, ,b.org ,")
	if err != nil || !reflect.DeepEqual(v, []string{"a.com", "b.org"}) {
		t.Fatalf("whitelist=%#v err=%v", v, err)
	}
	v, err = ParseValue(KeyWhitelist, "")
	if err != nil || !reflect.DeepEqual(v, []string{}) {
		t.Fatalf("empty whitelist=%#v err=%v", v, err)
	}
	v, err = ParseValue(KeyPaused, "1")
	if err != nil || v != true {
		t.Fatalf("paused=%#v err=%v", v, err)
	}
	if _, err := ParseValue(KeyShowBadgeCount, "yes"); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("err=%v", err)
	}
	v, err = ParseValue(KeyMinTabs, "07")
	if err != nil || v != "07" {
		t.Fatalf("int keys pass text through: %#v err=%v", v, err)
	}
	if _, err := ParseValue(KeyStayOpen, "1"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("derived key: err=%v", err)
	}
}

func TestKeysAndDefaults(t *testing.T) {
	keys := Keys()
	if len(keys) != 8 || keys[0] != KeyMinutesInactive || keys[7] != KeyWhitelist {
		t.Fatalf("keys=%v", keys)
	}
	d := Defaults()
	d[KeyWhitelist] = append(d[KeyWhitelist].([]string), "x")
	if len(Defaults()[KeyWhitelist].([]string)) != 0 {
		t.Fatalf("Defaults shares the whitelist slice")
	}
	for _, k := range []Key{KeyEnableSync, KeyPaused} {
		if kind, ok := KindOf(k); !ok || kind != KindBool {
			t.Fatalf("%s kind=%v", k, kind)
		}
	}
	if _, ok := KindOf(KeyStayOpen); ok {
		t.Fatalf("derived keys have no kind")
	}
}

func TestInvalidSettingError(t *testing.T) {
	err := error(&InvalidSettingError{Key: KeyMinTabs, Value: 0, Reason: "must be a number greater than 0"})
	if !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("does not unwrap")
	}
	if got := err.Error(); got != "tabsettings: invalid minTabs 0: must be a number greater than 0" {
		t.Fatalf("message=%q", got)
	}
}
