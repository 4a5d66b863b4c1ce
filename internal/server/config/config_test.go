package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Port != "8080" {
			t.Errorf("expected default port 8080, got %s", cfg.Port)
		}
		if cfg.MaxFileSize != 50*1024*1024 {
			t.Errorf("expected 50 MiB default, got %d", cfg.MaxFileSize)
		}
		if cfg.DefaultRetentionDays != 7 {
			t.Errorf("expected 7 day default retention, got %d", cfg.DefaultRetentionDays)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("PORT", "9999")
		t.Setenv("MAX_FILE_SIZE", "1048576")
		t.Setenv("DEFAULT_RETENTION_DAYS", "3")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Port != "9999" {
			t.Errorf("expected port 9999, got %s", cfg.Port)
		}
		if cfg.MaxFileSize != 1048576 {
			t.Errorf("expected 1 MiB, got %d", cfg.MaxFileSize)
		}
		if cfg.DefaultRetentionDays != 3 {
			t.Errorf("expected 3 days, got %d", cfg.DefaultRetentionDays)
		}
	})

	t.Run("invalid numeric env falls back", func(t *testing.T) {
		t.Setenv("MAX_FILE_SIZE", "not-a-number")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.MaxFileSize != 50*1024*1024 {
			t.Errorf("expected fallback, got %d", cfg.MaxFileSize)
		}
	})

	t.Run("yaml file overrides environment", func(t *testing.T) {
		t.Setenv("PORT", "9999")

		path := filepath.Join(t.TempDir(), "filedrop.yaml")
		yaml := "port: \"7070\"\nbase_url: https://files.example.com\nrate_limit_burst: 5\n"
		if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("FILEDROP_CONFIG", path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Port != "7070" {
			t.Errorf("expected yaml port 7070, got %s", cfg.Port)
		}
		if cfg.BaseURL != "https://files.example.com" {
			t.Errorf("unexpected base url: %s", cfg.BaseURL)
		}
		if cfg.RateLimitBurst != 5 {
			t.Errorf("expected burst 5, got %d", cfg.RateLimitBurst)
		}
		// Keys absent from the file keep their env/default values
		if cfg.DefaultRetentionDays != 7 {
			t.Errorf("expected retention untouched, got %d", cfg.DefaultRetentionDays)
		}
	})

	t.Run("missing yaml file errors", func(t *testing.T) {
		t.Setenv("FILEDROP_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

		if _, err := Load(); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
