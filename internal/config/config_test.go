package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MatrixPath != "versioner.toml" {
		t.Errorf("MatrixPath = %q, want %q", cfg.MatrixPath, "versioner.toml")
	}
	if cfg.Parallelism < 1 {
		t.Error("Parallelism should be at least 1")
	}
	if cfg.Logging.Format != "human" || cfg.Logging.Level != "info" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MatrixPath != DefaultConfig().MatrixPath {
		t.Errorf("MatrixPath = %q", cfg.MatrixPath)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".versioner")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := `{"matrixPath": "matrices/ndk.toml", "parallelism": 2, "logging": {"format": "json", "level": "debug"}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MatrixPath != "matrices/ndk.toml" {
		t.Errorf("MatrixPath = %q", cfg.MatrixPath)
	}
	if cfg.Parallelism != 2 {
		t.Errorf("Parallelism = %d", cfg.Parallelism)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q", cfg.Logging.Format)
	}
	// Unset fields keep their defaults.
	if cfg.SnapshotPath != DefaultConfig().SnapshotPath {
		t.Errorf("SnapshotPath = %q", cfg.SnapshotPath)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty matrix path", func(c *Config) { c.MatrixPath = "" }, true},
		{"zero parallelism", func(c *Config) { c.Parallelism = 0 }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
