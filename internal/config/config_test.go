package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFromDir(t, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8632 {
		t.Errorf("Server.Port = %d, want 8632", cfg.Server.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Scraper.TimeoutSeconds != 30 {
		t.Errorf("Scraper.TimeoutSeconds = %d, want 30", cfg.Scraper.TimeoutSeconds)
	}
	if cfg.Scraper.UserAgent == "" {
		t.Error("Scraper.UserAgent empty, want a browser identifier")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  port: 9999\nscraper:\n  timeout_seconds: 7\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Scraper.TimeoutSeconds != 7 {
		t.Errorf("Scraper.TimeoutSeconds = %d, want 7", cfg.Scraper.TimeoutSeconds)
	}
	// Untouched sections keep their defaults.
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("EPISCOPE_SERVER_PORT", "7070")

	cfg, err := loadFromDir(t, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070 from env", cfg.Server.Port)
	}
}

func TestServerConfig_Address(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 8632}
	if got := c.Address(); got != "127.0.0.1:8632" {
		t.Errorf("Address() = %q", got)
	}
}

// loadFromDir runs Load from an empty working directory so a developer's
// local config.yaml cannot leak into the test.
func loadFromDir(t *testing.T, configPath string) (*Config, error) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
	return Load(configPath)
}
