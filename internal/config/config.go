package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Transport modes.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// DefaultStorageKey is the durable slot that holds the project list.
const DefaultStorageKey = "knitpicking-projects"

// Config defines application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Palette   []PaletteEntry  `yaml:"palette"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// StorageConfig selects the slot repository. Path is a directory for the file
// backend and a database file for sqlite.
type StorageConfig struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path"`
	Key      string `yaml:"key"`
	MaxBytes int64  `yaml:"max_bytes"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PaletteEntry is one color offered when creating a project.
type PaletteEntry struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: TransportStdio,
		},
		Storage: StorageConfig{
			Backend:  BackendFile,
			Path:     "knitpick-data",
			Key:      DefaultStorageKey,
			MaxBytes: 5 << 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the file named by KNITPICK_CONFIG_PATH, if
// any, and environment variables.
func Load() (Config, error) {
	return LoadFrom(os.Getenv("KNITPICK_CONFIG_PATH"))
}

// LoadFrom reads configuration from an optional YAML file and environment
// variables. An empty path skips the file.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("KNITPICK_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("KNITPICK_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid KNITPICK_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("KNITPICK_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if backend := os.Getenv("KNITPICK_STORAGE_BACKEND"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if path := os.Getenv("KNITPICK_STORAGE_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if key := os.Getenv("KNITPICK_STORAGE_KEY"); key != "" {
		cfg.Storage.Key = key
	}
	if maxStr := os.Getenv("KNITPICK_STORAGE_MAX_BYTES"); maxStr != "" {
		maxBytes, err := strconv.ParseInt(maxStr, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid KNITPICK_STORAGE_MAX_BYTES: %w", err)
		}
		cfg.Storage.MaxBytes = maxBytes
	}
	if level := os.Getenv("KNITPICK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if path := os.Getenv("KNITPICK_LOG_PATH"); path != "" {
		cfg.Log.Path = path
	}
	if enabled := os.Getenv("KNITPICK_METRICS_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid KNITPICK_METRICS_ENABLED: %w", err)
		}
		cfg.Metrics.Enabled = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("%w: storage.path is required for the %s backend", ErrInvalidConfig, c.Storage.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: unknown storage.backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("%w: storage.key is empty", ErrInvalidConfig)
	}
	if c.Storage.MaxBytes < 0 {
		return fmt.Errorf("%w: storage.max_bytes is negative", ErrInvalidConfig)
	}

	switch c.Transport.Mode {
	case TransportStdio:
	case TransportHTTP:
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
		}
	default:
		return fmt.Errorf("%w: unknown transport.mode %q", ErrInvalidConfig, c.Transport.Mode)
	}

	for i, p := range c.Palette {
		if strings.TrimSpace(p.Value) == "" {
			return fmt.Errorf("%w: palette[%d] has no value", ErrInvalidConfig, i)
		}
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
