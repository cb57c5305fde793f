package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MaxSessions != 50 {
		t.Errorf("MaxSessions = %d, want 50", cfg.MaxSessions)
	}
	if cfg.MaxHooks != 20 {
		t.Errorf("MaxHooks = %d, want 20", cfg.MaxHooks)
	}
	if cfg.RetryAttempts != 3 {
		t.Errorf("RetryAttempts = %d, want 3", cfg.RetryAttempts)
	}
}

func TestLoad_OverlayFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `{"max_sessions": 10, "retry_attempts": 5, "disabled_tools": ["capsule_sync"]}`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MaxSessions != 10 {
		t.Errorf("MaxSessions = %d, want 10", cfg.MaxSessions)
	}
	if cfg.RetryAttempts != 5 {
		t.Errorf("RetryAttempts = %d, want 5", cfg.RetryAttempts)
	}
	// Untouched fields keep defaults
	if cfg.MaxHooks != 20 {
		t.Errorf("MaxHooks = %d, want 20", cfg.MaxHooks)
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "capsule_sync" {
		t.Errorf("DisabledTools = %v", cfg.DisabledTools)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("Load should fail on invalid JSON")
	}
}

func TestMerge_ArraysDeduplicated(t *testing.T) {
	base := &Config{DisabledTools: []string{"a", "b"}}
	overlay := &Config{DisabledTools: []string{"b", "c"}}

	result := Merge(base, overlay)

	if len(result.DisabledTools) != 3 {
		t.Errorf("DisabledTools = %v, want 3 unique entries", result.DisabledTools)
	}
}
