package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://localhost:8080/api" {
			t.Errorf("expected base url http://localhost:8080/api, got %s", config.API.BaseURL)
		}
		if config.Storage.Path != "./readtrack.db" {
			t.Errorf("expected storage path ./readtrack.db, got %s", config.Storage.Path)
		}
		if config.Log.Level != "info" {
			t.Errorf("expected log level info, got %s", config.Log.Level)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
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
		if config.Storage.Path != DefaultConfig().Storage.Path {
			t.Errorf("created config storage path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("overrides defaults with file values", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			testConfig := `[api]
base_url = "https://books.example.com/api"

[storage]
path = "/custom/path.db"
`
			if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			config, err := LoadConfig(configPath)
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}
			if config.API.BaseURL != "https://books.example.com/api" {
				t.Errorf("expected custom base url, got %s", config.API.BaseURL)
			}
			if config.Storage.Path != "/custom/path.db" {
				t.Errorf("expected storage path /custom/path.db, got %s", config.Storage.Path)
			}
			if config.Log.Level != "info" {
				t.Errorf("expected default log level to survive, got %s", config.Log.Level)
			}
		})

		t.Run("missing file", func(t *testing.T) {
			_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
			if !errors.Is(err, ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("invalid base url", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte("[api]\nbase_url = \"localhost\"\n"), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(configPath)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})

	t.Run("Environment", func(t *testing.T) {
		t.Run("ApplyEnv overrides file values", func(t *testing.T) {
			t.Setenv(EnvAPIURL, "http://10.0.0.5:9000/api")
			t.Setenv(EnvLogLevel, "debug")

			config := DefaultConfig()
			config.ApplyEnv()

			if config.API.BaseURL != "http://10.0.0.5:9000/api" {
				t.Errorf("expected env base url, got %s", config.API.BaseURL)
			}
			if config.Log.Level != "debug" {
				t.Errorf("expected env log level, got %s", config.Log.Level)
			}
		})

		t.Run("LoadEnv reads .env and skips missing files", func(t *testing.T) {
			dir := t.TempDir()
			envPath := filepath.Join(dir, ".env")
			if err := os.WriteFile(envPath, []byte(EnvDBPath+"=/tmp/from-dotenv.db\n"), 0644); err != nil {
				t.Fatal(err)
			}
			t.Setenv(EnvDBPath, "")
			os.Unsetenv(EnvDBPath)

			if err := LoadEnv(filepath.Join(dir, "missing.env"), envPath); err != nil {
				t.Fatalf("LoadEnv() error = %v", err)
			}

			config := DefaultConfig()
			config.ApplyEnv()
			if config.Storage.Path != "/tmp/from-dotenv.db" {
				t.Errorf("expected dotenv storage path, got %s", config.Storage.Path)
			}
		})
	})
}
