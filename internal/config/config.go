// Package config loads linkpage.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/creatorhub/linkpage/internal/notify"
)

// Config represents the linkpage configuration
type Config struct {
	Title    string        `yaml:"title"`
	PageFile string        `yaml:"page_file"` // Path to the page definition (default: page.yaml)
	Server   ServerConfig  `yaml:"server"`
	Store    StoreConfig   `yaml:"store"`
	Preview  PreviewConfig `yaml:"preview"`
	API      *APIConfig    `yaml:"api,omitempty"`
	// Notify lists destinations alerted when a visitor submits their email
	// through a capture section.
	Notify []notify.Config `yaml:"notify,omitempty"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port  int    `yaml:"port"`
	Host  string `yaml:"host"`
	Debug bool   `yaml:"debug"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Driver is "sqlite" or "postgres". Empty means sqlite.
	Driver string `yaml:"driver,omitempty"`
	// DSN is the connection string. For sqlite this is the database file
	// path (default: ./linkpage.db). Supports environment variable
	// expansion for postgres credentials.
	DSN string `yaml:"dsn,omitempty"`
}

// PreviewConfig holds live-preview configuration
type PreviewConfig struct {
	// HotReload re-parses the page file when it changes on disk.
	HotReload *bool `yaml:"hot_reload,omitempty"`
	// CompactRows renders row sections with the 3-column public variant.
	CompactRows bool `yaml:"compact_rows,omitempty"`
	// Debounce is the watcher debounce window (e.g. "300ms").
	Debounce string `yaml:"debounce,omitempty"`
}

// APIConfig holds REST API configuration
type APIConfig struct {
	Enabled   bool             `yaml:"enabled"` // Enable REST API endpoints (default: false)
	CORS      *CORSConfig      `yaml:"cors,omitempty"`
	RateLimit *RateLimitConfig `yaml:"rate_limit,omitempty"`
	Auth      *AuthConfig      `yaml:"auth,omitempty"`
}

// AuthConfig holds authentication configuration for the API
type AuthConfig struct {
	// APIKey is the required API key for authentication.
	// Supports environment variable expansion (e.g., "${API_KEY}")
	APIKey string `yaml:"api_key,omitempty"`
	// HeaderName is the HTTP header name for the API key (default: "X-API-Key")
	HeaderName string `yaml:"header_name,omitempty"`
}

// CORSConfig holds CORS configuration for the API
type CORSConfig struct {
	Origins []string `yaml:"origins,omitempty"` // Allowed origins (e.g., ["http://localhost:3000", "*"])
}

// RateLimitConfig holds rate limiting configuration for the API
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty"` // Default: 10
	Burst             int     `yaml:"burst,omitempty"`               // Default: 20
}

// GetDriver returns the configured store driver (default: "sqlite")
func (c StoreConfig) GetDriver() string {
	if c.Driver == "" {
		return "sqlite"
	}
	return c.Driver
}

// GetDSN returns the connection string with environment variables expanded
// (default: "./linkpage.db" for sqlite)
func (c StoreConfig) GetDSN() string {
	if c.DSN == "" {
		return "./linkpage.db"
	}
	return os.ExpandEnv(c.DSN)
}

// IsHotReload returns whether the page file watcher is enabled (default: true)
func (c PreviewConfig) IsHotReload() bool {
	if c.HotReload == nil {
		return true
	}
	return *c.HotReload
}

// GetDebounce returns the watcher debounce window (default: 300ms)
func (c PreviewConfig) GetDebounce() time.Duration {
	if c.Debounce == "" {
		return 300 * time.Millisecond
	}
	d, err := time.ParseDuration(c.Debounce)
	if err != nil {
		return 300 * time.Millisecond
	}
	return d
}

// GetCORSOrigins returns the configured CORS origins, or nil if not configured
func (c *APIConfig) GetCORSOrigins() []string {
	if c == nil || c.CORS == nil {
		return nil
	}
	return c.CORS.Origins
}

// GetRateLimitRPS returns the rate limit in requests per second (default: 10)
func (c *APIConfig) GetRateLimitRPS() float64 {
	if c == nil || c.RateLimit == nil || c.RateLimit.RequestsPerSecond <= 0 {
		return 10
	}
	return c.RateLimit.RequestsPerSecond
}

// GetRateLimitBurst returns the burst size (default: 20)
func (c *APIConfig) GetRateLimitBurst() int {
	if c == nil || c.RateLimit == nil || c.RateLimit.Burst <= 0 {
		return 20
	}
	return c.RateLimit.Burst
}

// IsAuthEnabled returns true if API authentication is configured
func (c *APIConfig) IsAuthEnabled() bool {
	if c == nil || c.Auth == nil {
		return false
	}
	return c.Auth.GetAPIKey() != ""
}

// GetAPIKey returns the configured API key with environment variable expansion
func (c *AuthConfig) GetAPIKey() string {
	if c == nil || c.APIKey == "" {
		return ""
	}
	return os.ExpandEnv(c.APIKey)
}

// GetHeaderName returns the header name for authentication (default: "X-API-Key")
func (c *AuthConfig) GetHeaderName() string {
	if c == nil || c.HeaderName == "" {
		return "X-API-Key"
	}
	return c.HeaderName
}

// IsAPIEnabled returns whether the API is enabled
func (c *Config) IsAPIEnabled() bool {
	return c.API != nil && c.API.Enabled
}

// GetPageFile returns the page definition path (default: "page.yaml")
func (c *Config) GetPageFile() string {
	if c.PageFile == "" {
		return "page.yaml"
	}
	return c.PageFile
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Title:    "Linkpage",
		PageFile: "page.yaml",
		Server: ServerConfig{
			Port:  8080,
			Host:  "localhost",
			Debug: false,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    "./linkpage.db",
		},
	}
}

// Load loads configuration from a YAML file
// If the file doesn't exist, returns the default configuration
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults so omitted keys keep their default values
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// LoadFromDir looks for linkpage.yaml (or the legacy linkinbio.yaml) in the
// given directory. If neither is found, returns the default configuration.
func LoadFromDir(dir string) (*Config, error) {
	primary := filepath.Join(dir, "linkpage.yaml")
	if _, err := os.Stat(primary); err == nil {
		return Load(primary)
	}

	legacy := filepath.Join(dir, "linkinbio.yaml")
	return Load(legacy)
}

// Save writes the configuration to a YAML file
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
