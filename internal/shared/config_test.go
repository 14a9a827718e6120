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

		if config.API.BaseURL != "http://localhost:8080" {
			t.Errorf("expected base URL http://localhost:8080, got %s", config.API.BaseURL)
		}
		if config.API.TimeoutDuration() != 10*time.Second {
			t.Errorf("expected 10s timeout, got %v", config.API.TimeoutDuration())
		}
		if config.Session.Ephemeral {
			t.Error("expected persistent sessions by default")
		}
		if config.Output.Format != "text" {
			t.Errorf("expected text output, got %s", config.Output.Format)
		}
	})

	t.Run("TimeoutDuration Falls Back", func(t *testing.T) {
		if got := (APIConfig{}).TimeoutDuration(); got != 10*time.Second {
			t.Errorf("expected fallback of 10s, got %v", got)
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
		if config.API.BaseURL != DefaultConfig().API.BaseURL {
			t.Errorf("created config base URL doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[api]
base_url = "https://catalog.example.com"
timeout = 3
rate_limit = 1.5
burst = 2

[session]
path = "/tmp/custom.db"
ephemeral = true

[output]
format = "csv"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://catalog.example.com" {
			t.Errorf("unexpected base URL %s", config.API.BaseURL)
		}
		if config.API.TimeoutDuration() != 3*time.Second {
			t.Errorf("expected 3s timeout, got %v", config.API.TimeoutDuration())
		}
		if config.API.RateLimit != 1.5 || config.API.Burst != 2 {
			t.Errorf("unexpected rate limit %v/%d", config.API.RateLimit, config.API.Burst)
		}
		if !config.Session.Ephemeral || config.Session.Path != "/tmp/custom.db" {
			t.Errorf("unexpected session config %+v", config.Session)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[api\nbase_url="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("MCAT_SESSION_PATH=/from/dotenv.db\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv("MCAT_API_URL", "http://env.example.com")
		t.Setenv("MCAT_TIMEOUT", "4")
		t.Cleanup(func() { os.Unsetenv("MCAT_SESSION_PATH") })

		config := DefaultConfig()
		if err := ApplyEnv(config, envPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if config.API.BaseURL != "http://env.example.com" {
			t.Errorf("expected env base URL, got %s", config.API.BaseURL)
		}
		if config.Session.Path != "/from/dotenv.db" {
			t.Errorf("expected session path from .env, got %s", config.Session.Path)
		}
		if config.API.Timeout != 4 {
			t.Errorf("expected timeout 4, got %d", config.API.Timeout)
		}
	})

	t.Run("ApplyEnv Bad Timeout", func(t *testing.T) {
		t.Setenv("MCAT_TIMEOUT", "soon")
		if err := ApplyEnv(DefaultConfig(), ""); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
