package config

import "testing"

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
}

func TestLoadInventoryDefaults(t *testing.T) {
	t.Setenv("INVENTORY_METHOD", "")
	t.Setenv("ALLOW_NEGATIVE_STOCK", "")

	cfg := Load()
	if cfg.InventoryMethod != "AVG" {
		t.Fatalf("expected AVG default, got %q", cfg.InventoryMethod)
	}
	if cfg.AllowNegativeStock {
		t.Fatalf("negative stock must be off by default")
	}

	t.Setenv("INVENTORY_METHOD", "fifo")
	t.Setenv("ALLOW_NEGATIVE_STOCK", "true")
	cfg = Load()
	if cfg.InventoryMethod != "FIFO" {
		t.Fatalf("method must be upper-cased, got %q", cfg.InventoryMethod)
	}
	if !cfg.AllowNegativeStock {
		t.Fatalf("expected negative stock enabled")
	}
}
