package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds application configuration.
type Config struct {
	// StorePath overrides the record store database location.
	// Empty means baseDir/vvault.db.
	StorePath string `json:"store_path,omitempty"`

	// MaxSessions is the default projection window for injection payloads.
	MaxSessions int `json:"max_sessions"`

	// MaxHooks caps the deduplicated continuity hook list in a projection.
	MaxHooks int `json:"max_hooks"`

	// HookSampleSize caps the hooks sample kept in a capsule summary.
	HookSampleSize int `json:"hook_sample_size"`

	// RetryAttempts is the number of attempts per record-store call.
	RetryAttempts int `json:"retry_attempts,omitempty"`

	// RetryBaseMs is the base backoff delay in milliseconds; doubled per attempt.
	RetryBaseMs int `json:"retry_base_ms,omitempty"`

	// BreakerMaxFailures is the consecutive-failure count that trips the
	// store circuit breaker. 0 disables the breaker.
	BreakerMaxFailures int `json:"breaker_max_failures,omitempty"`

	// DBMaxOpenConns limits open database connections for the SQLite backend.
	// 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxSessions:        50,
		MaxHooks:           20,
		HookSampleSize:     10,
		RetryAttempts:      3,
		RetryBaseMs:        100,
		BreakerMaxFailures: 5,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.vvault.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.StorePath = overlay.StorePath
	if result.StorePath == "" {
		result.StorePath = base.StorePath
	}

	result.MaxSessions = pick(overlay.MaxSessions, base.MaxSessions)
	result.MaxHooks = pick(overlay.MaxHooks, base.MaxHooks)
	result.HookSampleSize = pick(overlay.HookSampleSize, base.HookSampleSize)
	result.RetryAttempts = pick(overlay.RetryAttempts, base.RetryAttempts)
	result.RetryBaseMs = pick(overlay.RetryBaseMs, base.RetryBaseMs)
	result.BreakerMaxFailures = pick(overlay.BreakerMaxFailures, base.BreakerMaxFailures)
	result.DBMaxOpenConns = pick(overlay.DBMaxOpenConns, base.DBMaxOpenConns)
	result.DBMaxIdleConns = pick(overlay.DBMaxIdleConns, base.DBMaxIdleConns)

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// pick returns overlay if non-zero, else base.
func pick(overlay, base int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
