package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the base configuration directory name
	DefaultBaseDir = ".portal"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.yaml"
)

// Defaults applied when the config file leaves a field unset.
const (
	DefaultAddr            = "127.0.0.1:5000"
	DefaultCacheTTLMinutes = 60
	DefaultTimeoutSeconds  = 10
	DefaultMaxRetries      = 3
	DefaultTemperature     = 0.7
	DefaultMaxTokens       = 2048
)

// Config is the portal configuration, stored in ~/.portal/config.yaml.
// Environment variables override the file: GEMINI_API_KEY, OPENAI_API_KEY,
// PORTAL_ADDR, PORTAL_DATA_DIR.
type Config struct {
	// Addr is the HTTP API listen address
	Addr string `yaml:"addr,omitempty"`

	// DataDir is the Badger database directory. Notes, cached API
	// responses, and persisted embeddings live here.
	DataDir string `yaml:"data_dir,omitempty"`

	// Provider picks the AI provider: "gemini", "openai", or empty to
	// use whichever has an API key (Gemini wins when both do)
	Provider string `yaml:"provider,omitempty"`

	// Gemini holds Gemini credentials and model overrides
	Gemini ProviderConfig `yaml:"gemini,omitempty"`

	// OpenAI holds OpenAI credentials and model overrides
	OpenAI ProviderConfig `yaml:"openai,omitempty"`

	// CacheTTLMinutes is how long upstream API responses stay cached
	CacheTTLMinutes int `yaml:"cache_ttl_minutes,omitempty"`

	// TimeoutSeconds bounds upstream API requests
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// MaxRetries caps retries of transient upstream failures
	MaxRetries int `yaml:"max_retries,omitempty"`

	// Temperature is the sampling temperature for generation
	Temperature float32 `yaml:"temperature,omitempty"`

	// MaxTokens caps generated reply length in tokens
	MaxTokens int `yaml:"max_tokens,omitempty"`

	// configPath is the path to the config file
	configPath string
}

// ProviderConfig holds one AI provider's credentials and model overrides.
type ProviderConfig struct {
	// APIKey authenticates against the provider
	APIKey string `yaml:"api_key,omitempty"`

	// TextModel overrides the default generation model (optional)
	TextModel string `yaml:"text_model,omitempty"`

	// EmbedModel overrides the default embedding model (optional)
	EmbedModel string `yaml:"embed_model,omitempty"`
}

// LoadConfig loads the portal configuration, creating an empty config file
// on first use.
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath("")
}

// LoadConfigWithPath loads configuration from a custom path
func LoadConfigWithPath(customPath string) (*Config, error) {
	configPath := customPath
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, DefaultBaseDir, DefaultConfigFile)
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{configPath: configPath}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Create empty config file
			cfg.applyEnv()
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.configPath = configPath
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("PORTAL_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("PORTAL_DATA_DIR"); v != "" {
		c.DataDir = v
	}
}

// Save saves the configuration to disk. Environment overrides are written
// back as part of the current values.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Path returns the config file path
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the config directory path
func (c *Config) Dir() string {
	return filepath.Dir(c.configPath)
}

// ListenAddr returns the listen address, defaulted.
func (c *Config) ListenAddr() string {
	if c.Addr == "" {
		return DefaultAddr
	}
	return c.Addr
}

// CacheTTL returns the cache TTL, defaulted.
func (c *Config) CacheTTL() time.Duration {
	m := c.CacheTTLMinutes
	if m <= 0 {
		m = DefaultCacheTTLMinutes
	}
	return time.Duration(m) * time.Minute
}

// Timeout returns the upstream request timeout, defaulted.
func (c *Config) Timeout() time.Duration {
	s := c.TimeoutSeconds
	if s <= 0 {
		s = DefaultTimeoutSeconds
	}
	return time.Duration(s) * time.Second
}

// Retries returns the retry cap, defaulted. An explicit negative value
// disables retries.
func (c *Config) Retries() int {
	if c.MaxRetries < 0 {
		return 0
	}
	if c.MaxRetries == 0 {
		return DefaultMaxRetries
	}
	return c.MaxRetries
}

// GenTemperature returns the sampling temperature, defaulted.
func (c *Config) GenTemperature() float32 {
	if c.Temperature <= 0 {
		return DefaultTemperature
	}
	return c.Temperature
}

// GenMaxTokens returns the reply token cap, defaulted.
func (c *Config) GenMaxTokens() int {
	if c.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return c.MaxTokens
}

// ActiveProvider resolves which AI provider to use: the configured one, or
// whichever has an API key. Empty means AI features are off.
func (c *Config) ActiveProvider() string {
	if c.Provider != "" {
		return c.Provider
	}
	if c.Gemini.APIKey != "" {
		return "gemini"
	}
	if c.OpenAI.APIKey != "" {
		return "openai"
	}
	return ""
}

// MaskAPIKey masks the API key for display
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
