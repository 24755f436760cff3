package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swaggerc/internal/client"
	"github.com/mark3labs/swaggerc/internal/httpclient"
	"github.com/mark3labs/swaggerc/internal/logging"
)

// Config captures the connection settings shared by every command after
// merging defaults, config file values and CLI overrides.
type Config struct {
	URL        string
	Username   string
	Password   string
	Timeout    time.Duration
	ConfigPath string
	Verbose    bool
}

func defaultConfig() Config {
	return Config{Timeout: 30 * time.Second}
}

func addConnectionFlags(flags *pflag.FlagSet) {
	flags.StringP("config", "c", "", "Config file path (YAML, JSON or TOML)")
	flags.BoolP("verbose", "v", false, "Enable verbose logging output")
	flags.StringP("url", "u", "", "URL or path of the Swagger resource listing")
	flags.String("username", "", "HTTP basic auth username")
	flags.String("password", "", "HTTP basic auth password")
	flags.Duration("timeout", 0, "HTTP request timeout (default 30s)")
}

func resolveConfig(cmd *cobra.Command) (*Config, error) {
	cfg := defaultConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyFlagOverrides(flags *pflag.FlagSet, cfg *Config) error {
	for _, name := range []string{"url", "username", "password"} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		switch name {
		case "url":
			cfg.URL = strings.TrimSpace(value)
		case "username":
			cfg.Username = strings.TrimSpace(value)
		case "password":
			cfg.Password = value
		}
	}
	if flags.Changed("timeout") {
		value, err := flags.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = value
	}
	if flags.Changed("verbose") {
		value, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = value
	}
	return nil
}

func (c *Config) normalize() {
	c.URL = strings.TrimSpace(c.URL)
	c.Username = strings.TrimSpace(c.Username)
}

func (c *Config) validate() error {
	if c.URL == "" {
		return newUsageError("--url is required (set via flag or config file)")
	}
	if c.Timeout < 0 {
		return newUsageError(fmt.Sprintf("--timeout must not be negative, got %s", c.Timeout))
	}
	if c.Password != "" && c.Username == "" {
		return newUsageError("--password given without --username")
	}
	return nil
}

// logger returns a debug-level text logger on stderr when verbose, otherwise
// a logger that discards everything.
func (c *Config) logger(cmd *cobra.Command) logging.Logger {
	if !c.Verbose {
		return logging.NopLogger{}
	}
	h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
	return logging.NewSlogAdapter(slog.New(h))
}

func (c *Config) transport(logger logging.Logger) *httpclient.Client {
	opts := []httpclient.Option{
		httpclient.WithHTTPTimeout(c.Timeout),
		httpclient.WithLogger(logger),
	}
	if c.Username != "" {
		opts = append(opts, httpclient.WithBasicAuth(c.Username, c.Password))
	}
	return httpclient.New(opts...)
}

// connector is swapped in tests.
var connector = connect

// connect loads the listing and builds the client.
func connect(cmd *cobra.Command, cfg *Config) (*client.Client, error) {
	logger := cfg.logger(cmd)
	c, err := client.New(cmd.Context(), cfg.URL,
		client.WithTransport(cfg.transport(logger)),
		client.WithLogger(logger),
	)
	if err != nil {
		return nil, friendlyError(err)
	}
	return c, nil
}

func applyConfigFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	for key, value := range raw {
		switch normalizeKey(key) {
		case "url":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.URL = str
		case "username":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Username = str
		case "password":
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Password = str
		case "timeout":
			d, err := valueAsDuration(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Timeout = d
		case "verbose":
			val, err := valueAsBool(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			cfg.Verbose = val
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
	}
	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n", "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

// valueAsDuration accepts a Go duration string ("45s") or a number of seconds.
func valueAsDuration(v any) (time.Duration, error) {
	switch val := v.(type) {
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", val)
		}
		return d, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case int64:
		return time.Duration(val) * time.Second, nil
	case float64:
		return time.Duration(val * float64(time.Second)), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("expected duration, got %T", v)
	}
}
