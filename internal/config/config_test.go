package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validYAML() string {
	return `
game:
  game_id: "42"
  player_address: "0xabc"
ledger:
  manifest_path: "contracts.json"
  signer_endpoint: "http://localhost:9000/execute"
mirror:
  endpoint: "http://localhost:8081/graphql"
logging:
  sinks: [console, json]
  min_severity: debug
`
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.GameID != "42" {
		t.Fatalf("game_id = %q", cfg.Game.GameID)
	}
	if cfg.Ledger.ManifestPath != "contracts.json" {
		t.Fatalf("manifest_path = %q", cfg.Ledger.ManifestPath)
	}
	if len(cfg.Logging.Sinks) != 2 || cfg.Logging.Sinks[1] != "json" {
		t.Fatalf("sinks = %v", cfg.Logging.Sinks)
	}
	// Untouched keys keep their defaults.
	if cfg.Game.FrameRate != 60 {
		t.Fatalf("frame_rate default lost: %d", cfg.Game.FrameRate)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Fatalf("listen_addr default lost: %q", cfg.Server.ListenAddr)
	}
}

func TestLoadRejectsMissingRequiredKeys(t *testing.T) {
	_, err := Load(writeTemp(t, "game:\n  game_id: \"42\"\n"))
	if err == nil {
		t.Fatal("expected validation error for incomplete config")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadEmptyPathValidatesDefaults(t *testing.T) {
	// Defaults alone are incomplete on purpose: the session identity and
	// endpoints have no sane defaults.
	if _, err := Load(""); err == nil {
		t.Fatal("expected defaults alone to fail validation")
	}
}
