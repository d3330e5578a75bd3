package ristretto

import (
	"context"
	"testing"

	"github.com/unkn0wn-root/tabsettings/provider/providertest"
)

func TestProviderContract(t *testing.T) {
	p, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	providertest.Run(t, p)
}

func TestNewRejectsNegativeConfig(t *testing.T) {
	if _, err := New(Config{MaxCost: -1}); err == nil {
		t.Fatalf("expected error for negative MaxCost")
	}
}
