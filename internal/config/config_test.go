package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apierrors "github.com/diogo/chatloop/internal/errors"
	"github.com/diogo/chatloop/internal/models"
)

// isolate points HOME at a temp dir and clears environment overrides
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"OPENAI_API_KEY", "GEMINI_API_KEY", "CHATLOOP_API_KEY", "CHATLOOP_PROVIDER"} {
		t.Setenv(key, "")
	}
	return home
}

func TestDefaultConfig(t *testing.T) {
	home := isolate(t)
	cfg := DefaultConfig()

	if cfg.Provider != models.ProviderOpenAI {
		t.Errorf("Provider = %q, want %q", cfg.Provider, models.ProviderOpenAI)
	}
	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v, want %v", cfg.RequestTimeout, DefaultRequestTimeout)
	}
	if !cfg.ErrorsAsContent {
		t.Error("ErrorsAsContent should default to true")
	}
	if !cfg.Markdown.Enabled || cfg.Markdown.Style != "dark" {
		t.Errorf("Markdown = %+v", cfg.Markdown)
	}
	if want := filepath.Join(home, ".chatloop", "templates.yaml"); cfg.TemplatesFile != want {
		t.Errorf("TemplatesFile = %q, want %q", cfg.TemplatesFile, want)
	}
	if want := filepath.Join(home, ".chatloop", "chatloop.log"); cfg.LogFile != want {
		t.Errorf("LogFile = %q, want %q", cfg.LogFile, want)
	}
}

func TestGetConfigPath(t *testing.T) {
	home := isolate(t)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	if want := filepath.Join(home, ".chatloop", "config.json"); path != want {
		t.Errorf("GetConfigPath() = %q, want %q", path, want)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	home := isolate(t)

	dir, err := EnsureConfigDir()
	if err != nil {
		t.Fatalf("EnsureConfigDir() returned error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("config dir not created: %v", err)
	}
	if !info.IsDir() || dir != filepath.Join(home, ".chatloop") {
		t.Errorf("unexpected config dir %q", dir)
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("config dir permissions = %o, want 700", perm)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Provider != models.ProviderOpenAI || cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfig_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "provider": "ollama",
  "model": "qwen2.5",
  "proxy": "socks5://127.0.0.1:10811",
  "request_timeout": "30s",
  "errors_as_content": false,
  "markdown": {"style": "light", "width": 100}
}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Provider != models.ProviderOllama || cfg.Model != "qwen2.5" {
		t.Errorf("provider/model = %q/%q", cfg.Provider, cfg.Model)
	}
	if cfg.Proxy != "socks5://127.0.0.1:10811" {
		t.Errorf("Proxy = %q", cfg.Proxy)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
	if cfg.ErrorsAsContent {
		t.Error("ErrorsAsContent should be false")
	}
	if cfg.Markdown.Style != "light" || cfg.Markdown.Width != 100 {
		t.Errorf("Markdown = %+v", cfg.Markdown)
	}
	// keys absent from the file keep their defaults
	if !cfg.Markdown.Enabled || !cfg.Markdown.EnableEmoji {
		t.Errorf("Markdown defaults lost: %+v", cfg.Markdown)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("CHATLOOP_PROVIDER", "gemini")
	t.Setenv("CHATLOOP_REQUEST_TIMEOUT", "5s")
	t.Setenv("CHATLOOP_MARKDOWN_STYLE", "notty")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Provider != models.ProviderGemini {
		t.Errorf("Provider = %q, want gemini", cfg.Provider)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
	if cfg.Markdown.Style != "notty" {
		t.Errorf("Markdown.Style = %q, want notty", cfg.Markdown.Style)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if cfg.Provider != models.ProviderOpenAI {
		t.Error("defaults should be returned alongside the error")
	}
}

func TestMarshalConfig(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	cfg.RequestTimeout = 45 * time.Second

	data, err := MarshalConfig(cfg)
	if err != nil {
		t.Fatalf("MarshalConfig() returned error: %v", err)
	}
	if !strings.Contains(string(data), `"request_timeout": "45s"`) {
		t.Errorf("timeout should be a duration string:\n%s", data)
	}
	if !strings.Contains(string(data), `"provider": "openai"`) {
		t.Errorf("output should be indented JSON with every field:\n%s", data)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	home := isolate(t)

	cfg := DefaultConfig()
	cfg.Provider = models.ProviderEcho
	cfg.RequestTimeout = 90 * time.Second
	cfg.Markdown.Enabled = false
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	path := filepath.Join(home, ".chatloop", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), `"request_timeout": "1m30s"`) {
		t.Errorf("timeout should be written as a duration string:\n%s", data)
	}
	info, _ := os.Stat(path)
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file permissions = %o, want 600", perm)
	}

	loaded, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if loaded.Provider != models.ProviderEcho || loaded.RequestTimeout != 90*time.Second || loaded.Markdown.Enabled {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestConfig_ResolvedModel(t *testing.T) {
	cfg := Config{Provider: models.ProviderGemini}
	if got := cfg.ResolvedModel(); got != models.DefaultModelFor(models.ProviderGemini) {
		t.Errorf("ResolvedModel() = %q", got)
	}
	cfg.Model = "gemini-2.5-pro"
	if got := cfg.ResolvedModel(); got != "gemini-2.5-pro" {
		t.Errorf("ResolvedModel() = %q", got)
	}
}

func TestConfig_ResolvedAPIKey(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg := Config{Provider: models.ProviderGemini}
	if got := cfg.ResolvedAPIKey(); got != "from-env" {
		t.Errorf("ResolvedAPIKey() = %q, want from-env", got)
	}
	cfg.APIKey = "explicit"
	if got := cfg.ResolvedAPIKey(); got != "explicit" {
		t.Errorf("ResolvedAPIKey() = %q, want explicit", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		field   string
	}{
		{"echo needs nothing", func(c *Config) { c.Provider = models.ProviderEcho }, false, ""},
		{"ollama needs no key", func(c *Config) { c.Provider = models.ProviderOllama }, false, ""},
		{"openai with key", func(c *Config) { c.APIKey = "sk-test" }, false, ""},
		{"openai without key", func(c *Config) {}, true, ""},
		{"openai-compatible server without key", func(c *Config) { c.BaseURL = "http://localhost:8080/v1" }, false, ""},
		{"gemini without key", func(c *Config) { c.Provider = models.ProviderGemini }, true, ""},
		{"unknown provider", func(c *Config) { c.Provider = "bard" }, true, "provider"},
		{"negative timeout", func(c *Config) { c.Provider = models.ProviderEcho; c.RequestTimeout = -time.Second }, true, "request_timeout"},
		{"negative width", func(c *Config) { c.Provider = models.ProviderEcho; c.Markdown.Width = -1 }, true, "markdown.width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.field != "" {
				var cfgErr *apierrors.ConfigError
				if !errors.As(err, &cfgErr) || cfgErr.Field != tt.field {
					t.Errorf("Validate() error = %v, want ConfigError for %s", err, tt.field)
				}
			}
		})
	}
}

func TestConfig_ValidateMissingKeyIsAuthError(t *testing.T) {
	isolate(t)
	err := DefaultConfig().Validate()
	if !apierrors.IsAuthError(err) {
		t.Errorf("missing key should be reported as an auth error, got %v", err)
	}
}
