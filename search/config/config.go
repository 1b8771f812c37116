package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/larose/lynxq/search/query"
)

const EnvPrefix = "LYNXQ"

type Config struct {
	Directory   string `mapstructure:"directory"`
	IndexId     string `mapstructure:"index_id"`
	StoredField string `mapstructure:"stored_field"`
	BatchSize   int    `mapstructure:"batch_size"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("directory", "directory")
	v.SetDefault("index_id", "default")
	v.SetDefault("stored_field", "")
	v.SetDefault("batch_size", query.DefaultBatchSize)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load reads the configuration from configFile, when not empty, and from
// environment variables such as LYNXQ_BATCH_SIZE. The environment wins.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.Directory == "" {
		return errors.New("directory must be set")
	}
	return nil
}
