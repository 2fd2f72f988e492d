package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultDatasetPath = "assets/kural.csv"

// Config holds kuralhub runtime settings.
type Config struct {
	// Dataset is a CSV file path, an http(s) URL, or "db" to read the sqlite mirror.
	Dataset  string `yaml:"dataset"`
	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"`
	DBPath   string `yaml:"db_path"`
	LogLevel string `yaml:"log_level"`

	Visitor  VisitorConfig `yaml:"visitor"`
	Debounce time.Duration `yaml:"-"`
	// DebounceMS mirrors Debounce in YAML files.
	DebounceMS int `yaml:"debounce_ms"`
}

type VisitorConfig struct {
	Secret   string `yaml:"secret"`
	Issuer   string `yaml:"issuer"`
	TTLHours int    `yaml:"ttl_hours"`
}

func (v VisitorConfig) TTL() time.Duration {
	return time.Duration(v.TTLHours) * time.Hour
}

func DefaultConfig() Config {
	return Config{
		Dataset:    DefaultDatasetPath,
		HTTPAddr:   ":8080",
		GRPCAddr:   ":9090",
		LogLevel:   "info",
		DebounceMS: 300,
		Debounce:   300 * time.Millisecond,
		Visitor: VisitorConfig{
			// dev default (change for production)
			Secret:   "dev-secret-change-me",
			Issuer:   "kuralhub",
			TTLHours: 24 * 365,
		},
	}
}

// Load reads an optional YAML file over the defaults and then applies
// KURALHUB_* environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if cfg.DebounceMS <= 0 {
		cfg.DebounceMS = 300
	}
	cfg.Debounce = time.Duration(cfg.DebounceMS) * time.Millisecond
	return cfg, nil
}

// LoadFromEnv loads the file named by KURALHUB_CONFIG, if any.
func LoadFromEnv() (Config, error) {
	return Load(os.Getenv("KURALHUB_CONFIG"))
}

func (c Config) Save(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("KURALHUB_DATASET")); v != "" {
		c.Dataset = v
	}
	if v := strings.TrimSpace(os.Getenv("KURALHUB_HTTP_ADDR")); v != "" {
		c.HTTPAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("KURALHUB_GRPC_ADDR")); v != "" {
		c.GRPCAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("KURALHUB_DB_PATH")); v != "" {
		c.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("KURALHUB_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("KURALHUB_VISITOR_SECRET"); v != "" {
		c.Visitor.Secret = v
	}
	// if parse fails, keep the previous value
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("KURALHUB_DEBOUNCE_MS"))); err == nil && n > 0 {
		c.DebounceMS = n
	}
}
