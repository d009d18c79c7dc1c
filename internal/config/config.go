// Package config handles the configuration directory, the settings file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskchain"

	// SettingsFile is the settings filename inside the config directory.
	SettingsFile = "config.yaml"

	// EnvFile is the optional dotenv filename.
	EnvFile = ".env"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Backend names accepted in settings.
const (
	BackendHTTP   = "http"
	BackendGoogle = "google"
)

// Environment variables that override the settings file.
const (
	EnvBackend     = "TASKCHAIN_BACKEND"
	EnvStoreURL    = "TASKCHAIN_STORE_URL"
	EnvTimeout     = "TASKCHAIN_TIMEOUT"
	EnvTaskList    = "TASKCHAIN_TASK_LIST"
	EnvLogLevel    = "TASKCHAIN_LOG_LEVEL"
	EnvLogEncoding = "TASKCHAIN_LOG_ENCODING"
)

// Settings are the user-tunable options from config.yaml and the environment.
type Settings struct {
	// Backend selects the remote store: "http" or "google".
	Backend string `yaml:"backend"`

	// StoreURL is the base URL of the HTTP store.
	StoreURL string `yaml:"store_url"`

	// Timeout bounds each remote call.
	Timeout time.Duration `yaml:"timeout"`

	// TaskList is the Google Tasks list that holds the tasks.
	TaskList string `yaml:"task_list"`

	LogLevel    string `yaml:"log_level"`
	LogEncoding string `yaml:"log_encoding"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Backend:     BackendHTTP,
		StoreURL:    "http://127.0.0.1:4943",
		Timeout:     5 * time.Second,
		TaskList:    "@default",
		LogLevel:    "warn",
		LogEncoding: "console",
	}
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings are the loaded settings. Zero values mean defaults.
	Settings Settings

	// Log is the logger built from Settings; nil discards.
	Log *zap.Logger
}

// Logger returns c.Log, or a no-op logger if unset.
func (c *Config) Logger() *zap.Logger {
	if c == nil || c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskchain or $HOME/.config/taskchain.
// Settings are defaults; call Load to read the settings file and environment.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Settings: DefaultSettings()}, nil
}

// Load creates a Config and reads settings from, in increasing precedence:
// defaults, config.yaml, .env in the config directory, .env in the working
// directory, and the process environment.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.loadSettingsFile(); err != nil {
		return nil, err
	}

	// godotenv.Load never overrides variables that are already set, so the
	// working directory file is loaded first to take precedence.
	_ = godotenv.Load(EnvFile)
	_ = godotenv.Load(filepath.Join(cfg.Dir, EnvFile))

	if err := cfg.Settings.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadSettingsFile() error {
	data, err := os.ReadFile(c.SettingsPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}
	if err := yaml.Unmarshal(data, &c.Settings); err != nil {
		return fmt.Errorf("invalid %s: %w", SettingsFile, err)
	}
	return nil
}

// SetBackend records the backend in config.yaml, keeping the file's other
// keys, and updates the loaded settings.
func (c *Config) SetBackend(name string) error {
	doc := map[string]any{}
	data, err := os.ReadFile(c.SettingsPath())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	}
	doc["backend"] = name

	data, err = yaml.Marshal(doc)
	if err != nil {
		return err
	}
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.SettingsPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", SettingsFile, err)
	}
	c.Settings.Backend = name
	return nil
}

func (s *Settings) applyEnv() error {
	if v := os.Getenv(EnvBackend); v != "" {
		s.Backend = v
	}
	if v := os.Getenv(EnvStoreURL); v != "" {
		s.StoreURL = v
	}
	if v := os.Getenv(EnvTaskList); v != "" {
		s.TaskList = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv(EnvLogEncoding); v != "" {
		s.LogEncoding = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		s.Timeout = d
	}
	return nil
}

// Validate checks that settings name a known backend and a usable timeout.
func (s Settings) Validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case BackendHTTP:
		if strings.TrimSpace(s.StoreURL) == "" {
			return fmt.Errorf("store_url required for backend %q", BackendHTTP)
		}
	case BackendGoogle:
	default:
		return fmt.Errorf("unknown backend: %s", s.Backend)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", s.Timeout)
	}
	return nil
}

// BackendName returns the normalized backend name.
func (s Settings) BackendName() string {
	return strings.ToLower(strings.TrimSpace(s.Backend))
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
