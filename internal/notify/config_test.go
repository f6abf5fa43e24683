package notify

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notifiers.yaml")
	raw := `
notifiers:
  - id: hook1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: terminal
    type: console
  - id: hook2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 {
		t.Fatalf("expected 2 enabled notifiers, got %#v", enabled)
	}
	if enabled[0].ID != "terminal" || enabled[1].ID != "hook2" {
		t.Fatalf("unexpected enabled set %#v", enabled)
	}
}

func TestValidateConfigRejectsMissingBlocks(t *testing.T) {
	cases := []NotifierConfig{
		{ID: "h1", Type: TypeHTTP},
		{ID: "q1", Type: TypeSQS},
		{ID: "t1", Type: TypeSNS},
		{ID: "p1", Type: TypePubSub},
		{ID: "x1"},
	}
	for _, cfg := range cases {
		if err := validateConfig(cfg); err == nil {
			t.Errorf("expected validation error for %+v", cfg)
		}
	}
}

func TestSanitizeConfigDefaults(t *testing.T) {
	cfg := sanitizeConfig(NotifierConfig{
		ID:   " hook ",
		Type: " HTTP ",
		HTTP: &HTTPNotifierConfig{URL: " https://example.com "},
	})
	if cfg.ID != "hook" || cfg.Type != "http" {
		t.Fatalf("trim failed: %+v", cfg)
	}
	if cfg.HTTP.Method != "POST" || cfg.HTTP.TimeoutSeconds != 5 {
		t.Fatalf("http defaults not applied: %+v", cfg.HTTP)
	}
	if !cfg.EnabledValue() {
		t.Fatalf("enabled should default to true")
	}
}
