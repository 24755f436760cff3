package cli

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/mark3labs/swaggerc/internal/client"
)

var errStop = errors.New("stop after config")

// captureConfig runs the CLI with args and returns the resolved config without
// contacting any server.
func captureConfig(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	var captured *Config
	connector = func(cmd *cobra.Command, cfg *Config) (*client.Client, error) {
		captured = cfg
		return nil, errStop
	}
	t.Cleanup(func() { connector = connect })

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	if errors.Is(err, errStop) {
		err = nil
	}
	return captured, err
}

func TestConfigFromFlags(t *testing.T) {
	cfg, err := captureConfig(t,
		"--verbose",
		"resources",
		"--url", " http://h/resources.json ",
		"--username", "asterisk",
		"--password", "secret",
		"--timeout", "5s",
	)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cfg == nil {
		t.Fatalf("expected config to be captured")
	}
	if cfg.URL != "http://h/resources.json" {
		t.Errorf("url mismatch: got %q", cfg.URL)
	}
	if cfg.Username != "asterisk" || cfg.Password != "secret" {
		t.Errorf("credentials mismatch: got %q/%q", cfg.Username, cfg.Password)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout mismatch: got %s", cfg.Timeout)
	}
	if !cfg.Verbose {
		t.Errorf("expected verbose true")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := captureConfig(t, "resources", "-u", "resources.json")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("default timeout: got %s", cfg.Timeout)
	}
	if cfg.Verbose {
		t.Errorf("verbose should default to false")
	}
}

func TestConfigPrecedence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configContent := strings.TrimSpace(`url: http://config/resources.json
username: cfg-user
password: cfg-pass
timeout: 12
verbose: true
`) + "\n"
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := captureConfig(t,
		"--config", configPath,
		"resources",
		"--url", "http://flag/resources.json",
		"--verbose=false",
	)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cfg.URL != "http://flag/resources.json" {
		t.Errorf("url: want flag value, got %q", cfg.URL)
	}
	if cfg.Username != "cfg-user" || cfg.Password != "cfg-pass" {
		t.Errorf("credentials should come from the config file, got %q/%q", cfg.Username, cfg.Password)
	}
	if cfg.Timeout != 12*time.Second {
		t.Errorf("timeout: want 12s from config, got %s", cfg.Timeout)
	}
	if cfg.Verbose {
		t.Errorf("expected verbose false after flag override")
	}
	if cfg.ConfigPath != configPath {
		t.Errorf("config path mismatch: got %q", cfg.ConfigPath)
	}
}

func TestConfigTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "swaggerc.toml")
	content := "url = \"http://toml/resources.json\"\ntimeout = \"45s\"\nuser_name = \"ari\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := captureConfig(t, "-c", configPath, "resources")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cfg.URL != "http://toml/resources.json" {
		t.Errorf("url mismatch: got %q", cfg.URL)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("timeout mismatch: got %s", cfg.Timeout)
	}
	if cfg.Username != "ari" {
		t.Errorf("user_name should normalize to username, got %q", cfg.Username)
	}
}

func TestConfigUnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("unknown: value\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := captureConfig(t, "--config", configPath, "resources", "--url", "x")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing url", []string{"resources"}, "--url is required"},
		{"negative timeout", []string{"resources", "-u", "x", "--timeout", "-1s"}, "must not be negative"},
		{"password alone", []string{"resources", "-u", "x", "--password", "p"}, "without --username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := captureConfig(t, tt.args...)
			if !errors.Is(err, ErrUsage) {
				t.Fatalf("expected usage error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValueAsDuration(t *testing.T) {
	tests := []struct {
		in   any
		want time.Duration
		err  bool
	}{
		{"1m", time.Minute, false},
		{int64(3), 3 * time.Second, false},
		{1.5, 1500 * time.Millisecond, false},
		{nil, 0, false},
		{"soon", 0, true},
		{true, 0, true},
	}
	for _, tt := range tests {
		got, err := valueAsDuration(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("valueAsDuration(%v) error = %v, want error %v", tt.in, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("valueAsDuration(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
