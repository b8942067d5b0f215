// internal/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

const (
	SplitFirstParent = "first-parent"
	SplitGeneration  = "generation"
)

// Environments. Development switches the CLI to zap's console logger at
// debug level.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// FileName is the config file inside the repository metadata directory.
const FileName = "config.json"

type Config struct {
	Environment string `json:"environment"` // production, development
	LogLevel    string `json:"log_level"`   // debug, info, warn, error

	Objects struct {
		CacheSize int `json:"cache_size"`
	} `json:"objects"`

	Merge struct {
		SplitPoint string `json:"split_point"` // first-parent, generation
	} `json:"merge"`
}

func Default() *Config {
	var cfg Config
	cfg.Environment = EnvProduction
	cfg.LogLevel = "warn"
	cfg.Objects.CacheSize = 512
	cfg.Merge.SplitPoint = SplitFirstParent
	return &cfg
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	config := Default()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config.applyEnv()
			if err := config.Validate(); err != nil {
				return nil, err
			}
			return config, nil
		}
		return nil, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	config.applyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.Environment {
	case EnvProduction, EnvDevelopment:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	switch c.Merge.SplitPoint {
	case SplitFirstParent, SplitGeneration:
	default:
		return fmt.Errorf("unknown merge.split_point %q", c.Merge.SplitPoint)
	}
	if c.Objects.CacheSize <= 0 {
		return fmt.Errorf("objects.cache_size must be positive, got %d", c.Objects.CacheSize)
	}
	return nil
}

func (c *Config) applyEnv() {
	if level := os.Getenv("GITLET_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if env := os.Getenv("GITLET_ENV"); env != "" {
		c.Environment = env
	}
}
