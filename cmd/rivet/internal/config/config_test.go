package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOptional_MissingFileYieldsZeroConfig(t *testing.T) {
	cfg, err := LoadOptional(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOptional failed: %v", err)
	}
	if cfg.Prefix != "" || cfg.Sanitize {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoadOptional_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	data := "prefix: \"data-bind-\"\nsanitize: true\n"
	if err := os.WriteFile(filepath.Join(dir, "rivet.yaml"), []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		t.Fatalf("LoadOptional failed: %v", err)
	}
	if cfg.Prefix != "data-bind-" {
		t.Errorf("expected prefix %q, got %q", "data-bind-", cfg.Prefix)
	}
	if !cfg.Sanitize {
		t.Error("expected sanitize enabled")
	}
}

func TestLoadOptional_RejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "rivet.yaml"), []byte("prefix: [unclosed"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := LoadOptional(dir); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
