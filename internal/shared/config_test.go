package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./jellytrek.db" {
			t.Errorf("expected database path ./jellytrek.db, got %s", config.Database.Path)
		}
		if config.Jellyfin.URL != "http://localhost:8096" {
			t.Errorf("expected jellyfin url http://localhost:8096, got %s", config.Jellyfin.URL)
		}
		if config.Jellyfin.ClientName != "jellytrek" {
			t.Errorf("expected client name jellytrek, got %s", config.Jellyfin.ClientName)
		}
		if config.Libraries.Movies != "Movies" || config.Libraries.Shows != "TV Shows" || config.Libraries.Playlists != "Playlists" {
			t.Errorf("unexpected library names: %+v", config.Libraries)
		}
		if config.Jellyfin.RetryAttempts != 3 {
			t.Errorf("expected 3 retry attempts, got %d", config.Jellyfin.RetryAttempts)
		}
		if config.Log.File != "" {
			t.Errorf("expected no log file by default, got %s", config.Log.File)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig keeps defaults for missing keys", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[jellyfin]
url = "https://media.example.com"
user_id = "u-1"
token = "tok"
timeout_seconds = 5

[libraries]
shows = "Series"

[log]
level = "debug"
file = "/var/log/jellytrek.log"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0o644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Jellyfin.URL != "https://media.example.com" {
			t.Errorf("expected custom url, got %s", config.Jellyfin.URL)
		}
		if config.Jellyfin.Timeout() != 5*time.Second {
			t.Errorf("expected 5s timeout, got %v", config.Jellyfin.Timeout())
		}
		if config.Libraries.Shows != "Series" {
			t.Errorf("expected shows library Series, got %s", config.Libraries.Shows)
		}
		if config.Libraries.Movies != "Movies" {
			t.Errorf("expected default movies library, got %s", config.Libraries.Movies)
		}
		if config.Log.Level != "debug" || config.Log.File != "/var/log/jellytrek.log" {
			t.Errorf("unexpected log config: %+v", config.Log)
		}
	})

	t.Run("LoadConfig rejects invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[jellyfin\nurl ="), 0o644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfigOrDefault", func(t *testing.T) {
		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
		if err != nil {
			t.Fatalf("expected defaults for a missing file, got %v", err)
		}
		if config.Jellyfin.ClientName != "jellytrek" {
			t.Errorf("expected default config, got %+v", config.Jellyfin)
		}
	})

	t.Run("Timeout falls back when unset", func(t *testing.T) {
		if got := (JellyfinConfig{}).Timeout(); got != 30*time.Second {
			t.Errorf("expected 30s, got %v", got)
		}
	})
}
