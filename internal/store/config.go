package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	BackendSupabase = "supabase"
	BackendSQLite   = "sqlite"
)

// Config is the global ideapad configuration (config.json in the config dir).
type Config struct {
	// Backend selects the row store: supabase (hosted) or sqlite (self-hosted file).
	// When empty it resolves to supabase if a project URL is configured, else sqlite.
	Backend string `json:"backend,omitempty" validate:"omitempty,oneof=supabase sqlite"`

	SupabaseURL string `json:"supabaseUrl,omitempty" validate:"required_if=Backend supabase,omitempty,url"`
	// SupabaseAnonKey is the public anon key; row access is scoped by the signed-in user.
	SupabaseAnonKey string `json:"supabaseAnonKey,omitempty" validate:"required_if=Backend supabase"`

	SQLitePath string `json:"sqlitePath,omitempty"`

	LogLevel string `json:"logLevel,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFile  string `json:"logFile,omitempty"`
}

var configValidator = validator.New()

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.ideapad).
	if v := strings.TrimSpace(os.Getenv("IDEAPAD_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ideapad"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads config.json. A missing file yields an empty config.
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// The anon key is not a secret, but keep the file user-readable only anyway.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// ApplyEnv overlays environment variables on top of the file config.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Backend, "IDEAPAD_BACKEND")
	set(&c.SupabaseURL, "SUPABASE_URL")
	set(&c.SupabaseAnonKey, "SUPABASE_ANON_KEY")
	set(&c.SQLitePath, "IDEAPAD_SQLITE_PATH")
	set(&c.LogLevel, "IDEAPAD_LOG_LEVEL")
	set(&c.LogFile, "IDEAPAD_LOG_FILE")
}

// Resolve fills defaults that depend on the config dir and validates the result.
func (c *Config) Resolve(configDir string) error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		if strings.TrimSpace(c.SupabaseURL) != "" {
			c.Backend = BackendSupabase
		} else {
			c.Backend = BackendSQLite
		}
	}
	if strings.TrimSpace(c.SQLitePath) == "" {
		c.SQLitePath = filepath.Join(configDir, "ideapad.sqlite")
	}
	if strings.TrimSpace(c.LogFile) == "" {
		c.LogFile = filepath.Join(configDir, "ideapad.log")
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ConfigKeys lists the config.json keys settable from the command line.
var ConfigKeys = []string{"backend", "supabaseUrl", "supabaseAnonKey", "sqlitePath", "logLevel", "logFile"}

// Set assigns one config.json key by its json name. An empty value clears it.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "backend":
		c.Backend = strings.ToLower(value)
	case "supabaseUrl":
		c.SupabaseURL = value
	case "supabaseAnonKey":
		c.SupabaseAnonKey = value
	case "sqlitePath":
		c.SQLitePath = value
	case "logLevel":
		c.LogLevel = strings.ToLower(value)
	case "logFile":
		c.LogFile = value
	default:
		return fmt.Errorf("unknown config key %q (want one of %s)", key, strings.Join(ConfigKeys, ", "))
	}
	return nil
}
