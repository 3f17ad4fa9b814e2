package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/sitelit/internal/constants"
	"github.com/julianstephens/sitelit/internal/keyring"
)

// Environment overrides
const (
	EnvScheduleURL   = "SITELIT_SCHEDULE_URL"
	EnvScheduleToken = "SITELIT_SCHEDULE_TOKEN"
	EnvStore         = "SITELIT_STORE"
	EnvDBConnection  = "SITELIT_DB_CONNECTION"
	EnvLocale        = "SITELIT_LOCALE"
	EnvSiteRoot      = "SITELIT_SITE_ROOT"
)

// Config holds all sitelit configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Sources SourcesConfig `yaml:"sources"`
	Store   string        `yaml:"store"`
	Locale  string        `yaml:"locale"`
	Server  ServerConfig  `yaml:"server"`

	// ScheduleToken authenticates requests to the schedule endpoint. It is
	// read from the environment or the keyring, never from the file.
	ScheduleToken string `yaml:"-"`
}

// SiteConfig locates the site being rendered.
type SiteConfig struct {
	Root string `yaml:"root"` // directory or http(s) base URL
	Page string `yaml:"page"`
}

// SourcesConfig names the data documents, relative to the site root.
type SourcesConfig struct {
	Projects string `yaml:"projects"`
	Events   string `yaml:"events"`
	Schedule string `yaml:"schedule"` // remote event endpoint, optional
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr  string  `yaml:"addr"`
	Rate  float64 `yaml:"rate"` // checkbox toggles per second
	Burst int     `yaml:"burst"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Root: ".",
			Page: constants.DefaultPage,
		},
		Sources: SourcesConfig{
			Projects: constants.DefaultProjectsDocument,
			Events:   constants.DefaultEventsDocument,
		},
		Store:  constants.DefaultStorePath,
		Locale: constants.DefaultLocale,
		Server: ServerConfig{
			Addr:  constants.DefaultServerAddr,
			Rate:  constants.DefaultToggleRate,
			Burst: constants.DefaultToggleBurst,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file yields
// the defaults. A .env file in the working directory is loaded first so its
// values take part in the environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(ExpandHome(path))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.Store = ExpandHome(cfg.Store)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSiteRoot); v != "" {
		c.Site.Root = v
	}
	if v := os.Getenv(EnvScheduleURL); v != "" {
		c.Sources.Schedule = v
	}
	if v := os.Getenv(EnvStore); v != "" {
		c.Store = v
	}
	if v := os.Getenv(EnvLocale); v != "" {
		c.Locale = v
	}
	if v := os.Getenv(EnvScheduleToken); v != "" {
		c.ScheduleToken = v
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store) == "" {
		return errors.New("config: store cannot be empty")
	}
	if c.Server.Rate < 0 {
		return fmt.Errorf("config: server.rate must not be negative, got %s", strconv.FormatFloat(c.Server.Rate, 'f', -1, 64))
	}
	if c.Server.Burst < 0 {
		return fmt.Errorf("config: server.burst must not be negative, got %d", c.Server.Burst)
	}
	return nil
}

// ResolveScheduleToken fills ScheduleToken from the keyring when the
// environment did not provide one. A missing keyring entry is not an error.
func (c *Config) ResolveScheduleToken() error {
	if c.ScheduleToken != "" || c.Sources.Schedule == "" {
		return nil
	}
	token, err := keyring.GetScheduleToken()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return err
	}
	c.ScheduleToken = token
	return nil
}

// ResolveConnString returns the PostgreSQL connection string to use for the
// configured store: the environment first, then the keyring, then the store
// value itself (which must then carry no password).
func (c *Config) ResolveConnString() (conn string, fromSecret bool, err error) {
	if v := os.Getenv(EnvDBConnection); v != "" {
		return v, true, nil
	}
	v, err := keyring.GetConnectionString()
	if err == nil {
		return v, true, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) && !errors.Is(err, keyring.ErrKeyringUnavailable) {
		return "", false, err
	}
	return c.Store, false, nil
}

// Save writes the configuration as YAML to path.
func (c *Config) Save(path string) error {
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
