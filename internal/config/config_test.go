// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, and validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
server:
  http_addr: "0.0.0.0:8080"
  shutdown_timeout: "10s"

database:
  path: "./test.db"

auth:
  jwt_secret: "0123456789abcdef0123456789abcdef"

openai:
  model: "gpt-4o-mini"
  api_key: "sk-test"

cors:
  allowed_origins:
    - "http://localhost:3000"
    - "http://localhost:5173"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:8080" {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "0.0.0.0:8080")
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want %v", cfg.Server.ShutdownTimeout, 10*time.Second)
	}
	if cfg.Database.Path != "./test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "./test.db")
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("OpenAI.Model = %q, want %q", cfg.OpenAI.Model, "gpt-4o-mini")
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Errorf("CORS.AllowedOrigins len = %d, want 2", len(cfg.CORS.AllowedOrigins))
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoad_DefaultShutdownTimeout(t *testing.T) {
	configPath := writeConfig(t, `
server:
  http_addr: "0.0.0.0:8080"
database:
  path: "./test.db"
auth:
  jwt_secret: "0123456789abcdef0123456789abcdef"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want default %v", cfg.Server.ShutdownTimeout, 5*time.Second)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "secret-from-env-0123456789abcdef")
	t.Setenv("TEST_OPENAI_KEY", "sk-from-env")

	configPath := writeConfig(t, `
server:
  http_addr: "0.0.0.0:8080"
database:
  path: "./test.db"
auth:
  jwt_secret: "${TEST_JWT_SECRET}"
openai:
  api_key: "${TEST_OPENAI_KEY}"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Auth.JWTSecret != "secret-from-env-0123456789abcdef" {
		t.Errorf("Auth.JWTSecret = %q, want value from env", cfg.Auth.JWTSecret)
	}
	if cfg.OpenAI.APIKey != "sk-from-env" {
		t.Errorf("OpenAI.APIKey = %q, want %q", cfg.OpenAI.APIKey, "sk-from-env")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, `
server:
  http_addr "missing colon"
`)

	if _, err := Load(configPath); err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	configPath := writeConfig(t, `
server:
  http_addr: "0.0.0.0:8080"
  shutdown_timeout: "not-a-duration"
database:
  path: "./test.db"
auth:
  jwt_secret: "0123456789abcdef0123456789abcdef"
`)

	if _, err := Load(configPath); err == nil {
		t.Error("Load() expected error for invalid duration, got nil")
	}
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
		wantErrSubstr string
	}{
		{
			name: "missing http_addr",
			configContent: `
server:
  http_addr: ""
database:
  path: "./test.db"
auth:
  jwt_secret: "0123456789abcdef0123456789abcdef"
`,
			wantErrSubstr: "server.http_addr is required",
		},
		{
			name: "missing database path",
			configContent: `
server:
  http_addr: "0.0.0.0:8080"
database:
  path: ""
auth:
  jwt_secret: "0123456789abcdef0123456789abcdef"
`,
			wantErrSubstr: "database.path is required",
		},
		{
			name: "missing jwt secret",
			configContent: `
server:
  http_addr: "0.0.0.0:8080"
database:
  path: "./test.db"
`,
			wantErrSubstr: "auth.jwt_secret is required",
		},
		{
			name: "short jwt secret",
			configContent: `
server:
  http_addr: "0.0.0.0:8080"
database:
  path: "./test.db"
auth:
  jwt_secret: "too-short"
`,
			wantErrSubstr: "auth.jwt_secret must be at least 32 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := writeConfig(t, tt.configContent)

			_, err := Load(configPath)
			if err == nil {
				t.Errorf("Load() expected error containing %q, got nil", tt.wantErrSubstr)
				return
			}

			if !strings.Contains(err.Error(), tt.wantErrSubstr) {
				t.Errorf("Load() error = %q, want error containing %q", err.Error(), tt.wantErrSubstr)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FOO", "bar")
	t.Setenv("BAZ", "qux")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single env var",
			input:    "${FOO}",
			expected: "bar",
		},
		{
			name:     "env var with surrounding text",
			input:    "prefix-${FOO}-suffix",
			expected: "prefix-bar-suffix",
		},
		{
			name:     "multiple env vars",
			input:    "${FOO}/${BAZ}",
			expected: "bar/qux",
		},
		{
			name:     "no env vars",
			input:    "no-vars-here",
			expected: "no-vars-here",
		},
		{
			name:     "unset env var",
			input:    "${UNSET_VAR}",
			expected: "",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandEnvVars(tt.input)
			if result != tt.expected {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
