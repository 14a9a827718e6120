package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

const appName = "mcat"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API     APIConfig     `toml:"api"`
	Session SessionConfig `toml:"session"`
	Output  OutputConfig  `toml:"output"`
}

// APIConfig contains catalog service connection settings.
type APIConfig struct {
	BaseURL   string  `toml:"base_url"`
	Timeout   int     `toml:"timeout"` // seconds
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
	UserAgent string  `toml:"user_agent"`
}

// SessionConfig contains credential storage settings.
type SessionConfig struct {
	Path      string `toml:"path"`
	Ephemeral bool   `toml:"ephemeral"`
}

// OutputConfig contains CLI rendering defaults.
type OutputConfig struct {
	Format string `toml:"format"`
}

// TimeoutDuration returns the request timeout, falling back to ten seconds.
func (c APIConfig) TimeoutDuration() time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/mcat/config.toml, creating the parent directory.
func DefaultConfigPath() (string, error) {
	return xdg.ConfigFile(appName + "/config.toml")
}

// DefaultSessionPath returns $XDG_DATA_HOME/mcat/session.db, creating the parent directory.
func DefaultSessionPath() (string, error) {
	return xdg.DataFile(appName + "/session.db")
}

// DefaultLogPath returns $XDG_STATE_HOME/mcat/mcat.log.
func DefaultLogPath() (string, error) {
	return xdg.StateFile(appName + "/" + appName + ".log")
}

// ApplyEnv loads envFile (if it exists) into the process environment and applies MCAT_* overrides to c.
//
// Existing environment variables take precedence over the file.
func ApplyEnv(c *Config, envFile string) error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("%w: failed to load %s: %v", ErrInvalidConfig, envFile, err)
			}
		}
	}

	if v := os.Getenv("MCAT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("MCAT_SESSION_PATH"); v != "" {
		c.Session.Path = v
	}
	if v := os.Getenv("MCAT_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: MCAT_TIMEOUT must be a number of seconds", ErrInvalidConfig)
		}
		c.API.Timeout = secs
	}

	return nil
}
