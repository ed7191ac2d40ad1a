package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every env var the config reads so tests control them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "PORTAL_ADDR", "PORTAL_DATA_DIR"} {
		t.Setenv(key, "")
	}
}

func TestMaskAPIKey(t *testing.T) {
	// Keys of 8 chars or fewer are fully starred; longer keys keep the
	// first and last four characters.
	cases := map[string]string{
		"":                       "",
		"rick":                   "****",
		"mortyboy":               "********",
		"c137morty":              "c137*orty",
		"wubbalubba":             "wubb**ubba",
		"sk-proj-c137birdperson": "sk-p**************rson",
	}

	for key, want := range cases {
		if got := MaskAPIKey(key); got != want {
			t.Errorf("MaskAPIKey(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestLoadConfigWithPath_NewConfig(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "portal", "config.yaml")

	cfg, err := LoadConfigWithPath(configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}

	if cfg.Path() != configPath {
		t.Errorf("Path() = %q, want %q", cfg.Path(), configPath)
	}

	if _, err := os.Stat(configPath); err != nil {
		t.Errorf("first load did not write a config file: %v", err)
	}
}

func TestConfig_Defaults(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfigWithPath(configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}

	if got := cfg.ListenAddr(); got != "127.0.0.1:5000" {
		t.Errorf("ListenAddr() = %q, want %q", got, "127.0.0.1:5000")
	}
	if got := cfg.CacheTTL(); got != 60*time.Minute {
		t.Errorf("CacheTTL() = %v, want 60m", got)
	}
	if got := cfg.Timeout(); got != 10*time.Second {
		t.Errorf("Timeout() = %v, want 10s", got)
	}
	if got := cfg.Retries(); got != 3 {
		t.Errorf("Retries() = %d, want 3", got)
	}
	if got := cfg.GenTemperature(); got != 0.7 {
		t.Errorf("GenTemperature() = %v, want 0.7", got)
	}
	if got := cfg.GenMaxTokens(); got != 2048 {
		t.Errorf("GenMaxTokens() = %d, want 2048", got)
	}
	if got := cfg.ActiveProvider(); got != "" {
		t.Errorf("ActiveProvider() = %q, want empty", got)
	}
}

func TestConfig_Accessors(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfigWithPath(configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	cfg.Addr = "0.0.0.0:8080"
	cfg.CacheTTLMinutes = 5
	cfg.TimeoutSeconds = 30
	cfg.MaxRetries = -1
	cfg.Temperature = 1.2
	cfg.MaxTokens = 512

	if got := cfg.ListenAddr(); got != "0.0.0.0:8080" {
		t.Errorf("ListenAddr() = %q", got)
	}
	if got := cfg.CacheTTL(); got != 5*time.Minute {
		t.Errorf("CacheTTL() = %v, want 5m", got)
	}
	if got := cfg.Timeout(); got != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", got)
	}
	if got := cfg.Retries(); got != 0 {
		t.Errorf("Retries() = %d, want 0 for explicit -1", got)
	}
	if got := cfg.GenTemperature(); got != 1.2 {
		t.Errorf("GenTemperature() = %v, want 1.2", got)
	}
	if got := cfg.GenMaxTokens(); got != 512 {
		t.Errorf("GenMaxTokens() = %d, want 512", got)
	}
}

func TestConfig_ActiveProvider(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"none", Config{}, ""},
		{"gemini key", Config{Gemini: ProviderConfig{APIKey: "g"}}, "gemini"},
		{"openai key", Config{OpenAI: ProviderConfig{APIKey: "o"}}, "openai"},
		{"gemini wins", Config{Gemini: ProviderConfig{APIKey: "g"}, OpenAI: ProviderConfig{APIKey: "o"}}, "gemini"},
		{"explicit", Config{Provider: "openai", Gemini: ProviderConfig{APIKey: "g"}}, "openai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ActiveProvider(); got != tt.want {
				t.Errorf("ActiveProvider() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "env-gemini-key")
	t.Setenv("PORTAL_ADDR", "127.0.0.1:9999")
	t.Setenv("PORTAL_DATA_DIR", "/tmp/portal-data")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigWithPath(configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}

	if cfg.Gemini.APIKey != "env-gemini-key" {
		t.Errorf("Gemini.APIKey = %q, want env value", cfg.Gemini.APIKey)
	}
	if cfg.Addr != "127.0.0.1:9999" {
		t.Errorf("Addr = %q, want env value", cfg.Addr)
	}
	if cfg.DataDir != "/tmp/portal-data" {
		t.Errorf("DataDir = %q, want env value", cfg.DataDir)
	}
	if got := cfg.ActiveProvider(); got != "gemini" {
		t.Errorf("ActiveProvider() = %q, want gemini", got)
	}
}

func TestConfig_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfigWithPath(configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	cfg.Gemini.APIKey = "file-key"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	t.Setenv("GEMINI_API_KEY", "env-key")
	cfg2, err := LoadConfigWithPath(configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	if cfg2.Gemini.APIKey != "env-key" {
		t.Errorf("Gemini.APIKey = %q, env should win over file", cfg2.Gemini.APIKey)
	}
}

func TestConfig_Persistence(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	cfg1, err := LoadConfigWithPath(configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	cfg1.Addr = "127.0.0.1:8080"
	cfg1.Provider = "openai"
	cfg1.OpenAI = ProviderConfig{
		APIKey:    "secret-key",
		TextModel: "gpt-4o",
	}
	cfg1.CacheTTLMinutes = 15
	if err := cfg1.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	// A fresh load must see everything cfg1 saved.
	cfg2, err := LoadConfigWithPath(configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}

	if cfg2.Addr != "127.0.0.1:8080" {
		t.Errorf("Addr = %q, want %q", cfg2.Addr, "127.0.0.1:8080")
	}
	if cfg2.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", cfg2.Provider, "openai")
	}
	if cfg2.OpenAI.APIKey != "secret-key" {
		t.Errorf("OpenAI.APIKey = %q, want %q", cfg2.OpenAI.APIKey, "secret-key")
	}
	if cfg2.OpenAI.TextModel != "gpt-4o" {
		t.Errorf("OpenAI.TextModel = %q, want %q", cfg2.OpenAI.TextModel, "gpt-4o")
	}
	if cfg2.CacheTTLMinutes != 15 {
		t.Errorf("CacheTTLMinutes = %d, want 15", cfg2.CacheTTLMinutes)
	}
}

func TestConfig_Dir(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg, err := LoadConfigWithPath(configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}

	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}
