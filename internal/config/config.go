package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding file values.
const (
	EnvDBPath       = "VEGANAUT_DB_PATH"
	EnvTeam         = "VEGANAUT_TEAM"
	EnvPlayer       = "VEGANAUT_PLAYER"
	EnvPointsCap    = "VEGANAUT_POINTS_CAP"
	EnvStrictFinish = "VEGANAUT_STRICT_FINISH"
)

// Config represents the veganaut configuration.
type Config struct {
	PlayerID     string `yaml:"player_id,omitempty"`
	Team         string `yaml:"team,omitempty"`
	PointsCap    int    `yaml:"points_cap,omitempty"` // 0 leaves the visit default in place
	StrictFinish bool   `yaml:"strict_finish,omitempty"`
	DBPath       string `yaml:"db_path,omitempty"`
}

// Path returns the config file location for dir.
func Path(dir string) string {
	return filepath.Join(dir, ".veganaut", "config.yaml")
}

// LoadConfig reads .veganaut/config.yaml from the specified directory.
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.PointsCap < 0 {
		return nil, fmt.Errorf("points_cap must not be negative, got %d", cfg.PointsCap)
	}

	return &cfg, nil
}

// SaveConfig writes config.yaml to directory
func SaveConfig(dir string, cfg *Config) error {
	path := Path(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create .veganaut dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Resolve builds the effective configuration for dir: the config file if
// present, then .env and process environment overrides, then defaults.
func Resolve(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	// godotenv never overrides variables already set in the process.
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvTeam); v != "" {
		c.Team = v
	}
	if v := os.Getenv(EnvPlayer); v != "" {
		c.PlayerID = v
	}
	if v := os.Getenv(EnvPointsCap); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer, got %q", EnvPointsCap, v)
		}
		c.PointsCap = n
	}
	if v := os.Getenv(EnvStrictFinish); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s must be a boolean, got %q", EnvStrictFinish, v)
		}
		c.StrictFinish = b
	}
	return nil
}

func (c *Config) applyDefaults() error {
	if c.DBPath == "" {
		path, err := DefaultDBPath()
		if err != nil {
			return err
		}
		c.DBPath = path
	}
	return nil
}

// DefaultDBPath returns ~/.veganaut/veganaut.db.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".veganaut", "veganaut.db"), nil
}
