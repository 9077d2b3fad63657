// Package config handles user configuration for chatloop.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	apierrors "github.com/diogo/chatloop/internal/errors"
	"github.com/diogo/chatloop/internal/models"
)

// EnvPrefix prefixes environment overrides, e.g. CHATLOOP_PROVIDER or CHATLOOP_MARKDOWN_STYLE
const EnvPrefix = "CHATLOOP"

// DefaultRequestTimeout bounds a single backend call
const DefaultRequestTimeout = 60 * time.Second

// MarkdownConfig configures markdown rendering of replies
type MarkdownConfig struct {
	Enabled          bool   `mapstructure:"enabled" json:"enabled"`
	Style            string `mapstructure:"style" json:"style"` // glamour style name or path to a JSON style
	Width            int    `mapstructure:"width" json:"width"` // 0 follows the terminal
	EnableEmoji      bool   `mapstructure:"enable_emoji" json:"enable_emoji"`
	PreserveNewLines bool   `mapstructure:"preserve_newlines" json:"preserve_newlines"`
}

// Config represents the user configuration
type Config struct {
	Provider string `mapstructure:"provider" json:"provider"`
	Model    string `mapstructure:"model" json:"model,omitempty"`
	BaseURL  string `mapstructure:"base_url" json:"base_url,omitempty"`
	// APIKey falls back to the provider's conventional environment variable when empty.
	APIKey string `mapstructure:"api_key" json:"api_key,omitempty"`
	// Proxy is an http://, https:// or socks5:// URL applied to every backend.
	Proxy          string        `mapstructure:"proxy" json:"proxy,omitempty"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" json:"request_timeout"`
	// ErrorsAsContent records failures as "error:<message>" replies. When false they go to stderr
	// and the unanswered user line is dropped from the transcript.
	ErrorsAsContent bool           `mapstructure:"errors_as_content" json:"errors_as_content"`
	Template        string         `mapstructure:"template" json:"template,omitempty"`
	TemplatesFile   string         `mapstructure:"templates_file" json:"templates_file,omitempty"`
	Verbose         bool           `mapstructure:"verbose" json:"verbose"`
	LogFile         string         `mapstructure:"log_file" json:"log_file,omitempty"`
	CopyToClipboard bool           `mapstructure:"copy_to_clipboard" json:"copy_to_clipboard"`
	Markdown        MarkdownConfig `mapstructure:"markdown" json:"markdown"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Enabled:          true,
		Style:            "dark",
		Width:            0,
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	cfg := Config{
		Provider:        models.ProviderOpenAI,
		RequestTimeout:  DefaultRequestTimeout,
		ErrorsAsContent: true,
		Markdown:        DefaultMarkdownConfig(),
	}
	if dir, err := GetConfigDir(); err == nil {
		cfg.TemplatesFile = filepath.Join(dir, "templates.yaml")
		cfg.LogFile = filepath.Join(dir, "chatloop.log")
	}
	return cfg
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".chatloop"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory may hold API keys
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("provider", cfg.Provider)
	v.SetDefault("model", cfg.Model)
	v.SetDefault("base_url", cfg.BaseURL)
	v.SetDefault("api_key", cfg.APIKey)
	v.SetDefault("proxy", cfg.Proxy)
	v.SetDefault("request_timeout", cfg.RequestTimeout)
	v.SetDefault("errors_as_content", cfg.ErrorsAsContent)
	v.SetDefault("template", cfg.Template)
	v.SetDefault("templates_file", cfg.TemplatesFile)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("copy_to_clipboard", cfg.CopyToClipboard)
	v.SetDefault("markdown.enabled", cfg.Markdown.Enabled)
	v.SetDefault("markdown.style", cfg.Markdown.Style)
	v.SetDefault("markdown.width", cfg.Markdown.Width)
	v.SetDefault("markdown.enable_emoji", cfg.Markdown.EnableEmoji)
	v.SetDefault("markdown.preserve_newlines", cfg.Markdown.PreserveNewLines)
}

// LoadConfig reads the configuration from path (the default config path when empty),
// applying CHATLOOP_* environment overrides. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return DefaultConfig(), err
		}
		path = p
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to the default config path
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	data, err := MarshalConfig(cfg)
	if err != nil {
		return err
	}

	// 0o600: the file may hold an API key
	configPath := filepath.Join(configDir, "config.json")
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MarshalConfig renders cfg as indented JSON with durations in their string form ("1m0s")
func MarshalConfig(cfg Config) ([]byte, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	fields["request_timeout"] = cfg.RequestTimeout.String()

	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// ResolvedModel returns the configured model or the provider default
func (c Config) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	return models.DefaultModelFor(c.Provider)
}

// ResolvedAPIKey returns the configured key or the provider's environment variable
func (c Config) ResolvedAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if env := models.APIKeyEnv(c.Provider); env != "" {
		return os.Getenv(env)
	}
	return ""
}

// Validate checks the configuration before a backend is built
func (c Config) Validate() error {
	if !models.IsProvider(c.Provider) {
		return apierrors.NewConfigError("provider",
			fmt.Sprintf("unknown provider %q (available: %s)", c.Provider, strings.Join(AvailableProviders(), ", ")))
	}
	if c.RequestTimeout < 0 {
		return apierrors.NewConfigError("request_timeout", "must not be negative")
	}
	if c.Markdown.Width < 0 {
		return apierrors.NewConfigError("markdown.width", "must not be negative")
	}
	if c.needsAPIKey() && c.ResolvedAPIKey() == "" {
		return fmt.Errorf("%w: set api_key in the config file, %s_API_KEY, or %s",
			apierrors.ErrMissingAPIKey, EnvPrefix, models.APIKeyEnv(c.Provider))
	}
	return nil
}

// needsAPIKey is false for OpenAI-compatible servers on a custom base URL, which often run keyless
func (c Config) needsAPIKey() bool {
	if !models.RequiresAPIKey(c.Provider) {
		return false
	}
	if c.Provider == models.ProviderOpenAI {
		base := strings.TrimRight(c.BaseURL, "/")
		return base == "" || base == models.DefaultOpenAIBaseURL
	}
	return true
}

// AvailableProviders returns the provider names accepted in the config
func AvailableProviders() []string {
	return models.Providers()
}
