package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ajramos/mailassist-tui/internal/model"
)

// EnvConfigPath names the environment variable that overrides the config file location.
const EnvConfigPath = "MAILASSIST_CONFIG"

// ServerConfig locates the MailAssist backend
type ServerConfig struct {
	BaseURL string `json:"base_url"`
	Timeout string `json:"timeout"` // Go duration, e.g. "60s"
}

// InboxConfig controls folder listings
type InboxConfig struct {
	Limit int `json:"limit"`
}

// ConnectDefaults pre-fills the connect form. The password is never stored.
type ConnectDefaults struct {
	IMAPHost string `json:"imap_host"`
	IMAPPort int    `json:"imap_port"`
	User     string `json:"user"`
	SMTPHost string `json:"smtp_host"`
	SMTPPort int    `json:"smtp_port"`
}

// Config holds all configuration for the MailAssist TUI
type Config struct {
	Server  ServerConfig    `json:"server"`
	Inbox   InboxConfig     `json:"inbox"`
	Connect ConnectDefaults `json:"connect"`

	// Theme is a YAML theme file (relative to the config dir or absolute).
	// Empty selects the built-in theme.
	Theme string `json:"theme"`

	// Logging
	LogFile string `json:"log_file"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: "60s",
		},
		Inbox: InboxConfig{
			Limit: 50,
		},
		Connect: ConnectDefaults{
			IMAPHost: "imap.gmail.com",
			IMAPPort: 993,
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 587,
		},
		Theme:   "",
		LogFile: "",
	}
}

// LoadConfig loads configuration from file. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(ExpandPath(configPath)); err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolveConfigPath picks the config file: the explicit flag value, then
// $MAILASSIST_CONFIG, then the default location.
func ResolveConfigPath(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return ExpandPath(flagValue)
	}
	if env := strings.TrimSpace(os.Getenv(EnvConfigPath)); env != "" {
		return ExpandPath(env)
	}
	return DefaultConfigPath()
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.json")
}

// DefaultConfigDir returns ~/.config/mailassist
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mailassist")
}

// DefaultLogPath returns the default log file path
func DefaultLogPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "mailassist.log")
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// GetServerTimeout returns the parsed request timeout
func (c *Config) GetServerTimeout() time.Duration {
	if c.Server.Timeout != "" {
		if d, err := time.ParseDuration(c.Server.Timeout); err == nil && d > 0 {
			return d
		}
	}
	return 60 * time.Second
}

// GetInboxLimit returns the listing size, falling back to 50
func (c *Config) GetInboxLimit() int {
	if c.Inbox.Limit > 0 {
		return c.Inbox.Limit
	}
	return 50
}

// GetThemePath resolves Theme against the config directory
func (c *Config) GetThemePath() string {
	theme := strings.TrimSpace(c.Theme)
	if theme == "" {
		return ""
	}
	theme = ExpandPath(theme)
	if filepath.IsAbs(theme) {
		return theme
	}
	return filepath.Join(DefaultConfigDir(), theme)
}

// ConnectionDefaults converts the configured defaults for the connect form.
func (c *Config) ConnectionDefaults() model.ConnectionConfig {
	return model.ConnectionConfig{
		IMAPHost: c.Connect.IMAPHost,
		IMAPPort: c.Connect.IMAPPort,
		IMAPUser: c.Connect.User,
		SMTPHost: c.Connect.SMTPHost,
		SMTPPort: c.Connect.SMTPPort,
	}
}
