package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Quantum() != 180*time.Second {
		t.Errorf("quantum = %s, want 180s", cfg.Quantum())
	}
	if cfg.ConfirmationPhrase != "I_ACKNOWLEDGE_AND_COMPLY_WITH_ALL_PROTOCOLS" {
		t.Errorf("unexpected confirmation phrase %q", cfg.ConfirmationPhrase)
	}
	if cfg.FrictionThreshold != 5 {
		t.Errorf("friction threshold = %d, want 5", cfg.FrictionThreshold)
	}
	if cfg.MaxRejectCycles != 3 {
		t.Errorf("max reject cycles = %d, want 3", cfg.MaxRejectCycles)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.NodeID != Default().NodeID {
		t.Errorf("node id = %q, want default", cfg.NodeID)
	}
}

func TestLoadOverlaysOnlySpecifiedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kos.yaml")
	content := "quantum_seconds: 30\nnode_id: KOS-NODE-LAB-99\ndelays:\n  message_ms: 0\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Quantum() != 30*time.Second {
		t.Errorf("quantum = %s, want 30s", cfg.Quantum())
	}
	if cfg.NodeID != "KOS-NODE-LAB-99" {
		t.Errorf("node id = %q", cfg.NodeID)
	}
	// Untouched fields keep defaults.
	if cfg.PurposeFS != "FS-QUERY-7701" {
		t.Errorf("purpose_fs = %q, want default", cfg.PurposeFS)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("quantum_seconds: [oops"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
