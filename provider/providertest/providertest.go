// Package providertest holds the behavior every provider.Provider must show.
package providertest

import (
	"bytes"
	"context"
	"testing"

	pr "github.com/unkn0wn-root/tabsettings/provider"
)

// Run exercises p against the provider contract. p must start empty.
func Run(t *testing.T, p pr.Provider) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := p.Get(ctx, "local:test:minTabs"); err != nil || ok {
		t.Fatalf("Get on empty provider: ok=%v err=%v", ok, err)
	}

	want := []byte{'T', 'A', 'B', 'S', 0, 1, 0xFF}
	ok, err := p.Set(ctx, "local:test:minTabs", want)
	if err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	got, ok, err := p.Get(ctx, "local:test:minTabs")
	if err != nil || !ok {
		t.Fatalf("Get after Set: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("provider is not byte-transparent: got %x want %x", got, want)
	}

	// overwrite
	want2 := []byte("second")
	if ok, err := p.Set(ctx, "local:test:minTabs", want2); err != nil || !ok {
		t.Fatalf("overwrite: ok=%v err=%v", ok, err)
	}
	if got, _, _ := p.Get(ctx, "local:test:minTabs"); !bytes.Equal(got, want2) {
		t.Fatalf("overwrite not visible: got %q", got)
	}

	// keys are independent
	if ok, err := p.Set(ctx, "shared:test:minTabs", []byte("other")); err != nil || !ok {
		t.Fatalf("Set second key: ok=%v err=%v", ok, err)
	}
	if got, _, _ := p.Get(ctx, "local:test:minTabs"); !bytes.Equal(got, want2) {
		t.Fatalf("write to another key clobbered value: %q", got)
	}

	if err := p.Del(ctx, "local:test:minTabs"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, err := p.Get(ctx, "local:test:minTabs"); err != nil || ok {
		t.Fatalf("Get after Del: ok=%v err=%v", ok, err)
	}
	if err := p.Del(ctx, "local:test:missing"); err != nil {
		t.Fatalf("Del of missing key: %v", err)
	}
}
