// internal/config/config.go
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Config represents the application configuration
type Config struct {
	// Origin is the base URL relative lookup endpoints resolve against
	Origin     string `toml:"origin"`
	Endpoint   string `toml:"endpoint"`
	Selector   string `toml:"selector"`
	InputWidth int    `toml:"input_width"`
	MaxShow    int    `toml:"max_suggestions"`
	Server     Server `toml:"server"`
	Source     Source `toml:"source"`
	Theme      Theme  `toml:"theme_colors"`
}

// Server configures the reference lookup server
type Server struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	ResultLimit    int      `toml:"result_limit"`
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	BgSecondary   string `toml:"bg_secondary"`
	BorderColor   string `toml:"border_color"`
}

// Source describes the database behind the lookup server
type Source struct {
	Type     string `toml:"type"` // sqlite, postgres, mysql
	Host     string `toml:"host,omitempty"`
	Port     int    `toml:"port,omitempty"`
	User     string `toml:"user,omitempty"`
	Database string `toml:"database"`
	// Password is kept in memory for usage
	Password string `toml:"-"`
	// EncryptedPassword is the one persisted in the config file
	EncryptedPassword string `toml:"password,omitempty"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Origin:     "http://127.0.0.1:3000",
		Endpoint:   "/countries?matching=",
		Selector:   "input",
		InputWidth: 40,
		MaxShow:    8,
		Server: Server{
			Addr:           "127.0.0.1:3000",
			AllowedOrigins: []string{"http://localhost", "http://127.0.0.1"},
			ResultLimit:    10,
		},
		Source: Source{
			Type:     "sqlite",
			Database: defaultDatabasePath(),
		},
		Theme: Theme{
			// Nord Theme Defaults
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			BgSecondary:   "#3B4252",
			BorderColor:   "#4C566A",
		},
	}
}

func defaultDatabasePath() string {
	return filepath.Join(xdg.DataHome, "ezcomplete", "countries.db")
}

// ConfigPath returns the XDG-compliant config file path
func ConfigPath() (string, error) {
	return xdg.ConfigFile("ezcomplete/config.toml")
}

// Load loads the config from disk or creates default
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the config at path, creating it with defaults on first run
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		// First run: create default
		cfg := DefaultConfig()
		if err := cfg.SaveTo(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Populate defaults for missing fields (migration)
	if cfg.applyDefaults() {
		// Persist defaults so the user can see/edit them; in-memory defaults
		// still apply if this fails
		_ = cfg.SaveTo(path)
	}

	if cfg.Source.EncryptedPassword != "" {
		if key, err := masterKey(); err == nil {
			if decrypted, err := Decrypt(cfg.Source.EncryptedPassword, key); err == nil {
				cfg.Source.Password = decrypted
			}
		}
	}

	return &cfg, nil
}

// applyDefaults fills zero fields from DefaultConfig and reports whether
// anything changed
func (c *Config) applyDefaults() bool {
	defaults := DefaultConfig()
	updated := false

	if c.Origin == "" {
		c.Origin = defaults.Origin
		updated = true
	}
	if c.Endpoint == "" {
		c.Endpoint = defaults.Endpoint
		updated = true
	}
	if c.Selector == "" {
		c.Selector = defaults.Selector
		updated = true
	}
	if c.InputWidth <= 0 {
		c.InputWidth = defaults.InputWidth
		updated = true
	}
	if c.MaxShow <= 0 {
		c.MaxShow = defaults.MaxShow
		updated = true
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
		updated = true
	}
	if c.Server.ResultLimit <= 0 {
		c.Server.ResultLimit = defaults.Server.ResultLimit
		updated = true
	}
	if c.Source.Type == "" {
		c.Source = defaults.Source
		updated = true
	}
	if c.Theme.TextPrimary == "" {
		c.Theme = defaults.Theme
		updated = true
	}
	return updated
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists with secure permissions
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	// Create/truncate file with secure permissions (owner read/write only)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	// Encrypt the source password before saving
	if c.Source.Password != "" {
		if key, err := masterKey(); err == nil {
			if encrypted, err := Encrypt(c.Source.Password, key); err == nil {
				c.Source.EncryptedPassword = encrypted
			}
		}
	}

	return toml.NewEncoder(f).Encode(c)
}
