package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables. Env keys map NEURASCORE_DATA_DIR -> data_dir.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("NEURASCORE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("NEURASCORE_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "neurascore_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := *Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if c.IdentityBucketHours < 1 || c.IdentityBucketHours > 24 {
		return fmt.Errorf("identity_bucket_hours must be in [1,24], got %d", c.IdentityBucketHours)
	}
	if c.MinClusterPopulation < 2 {
		return fmt.Errorf("min_cluster_population must be >= 2, got %d", c.MinClusterPopulation)
	}
	if c.MaxRecords <= 0 {
		return fmt.Errorf("max_records must be positive, got %d", c.MaxRecords)
	}
	return nil
}
