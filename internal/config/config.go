package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// Bootstrap server
	BaseURL string `mapstructure:"base-url"`

	// Optional S3 mirror; when Bucket is set the boot image is fetched
	// from the mirror instead of the bootstrap server.
	MirrorBucket string `mapstructure:"mirror-bucket"`
	MirrorRegion string `mapstructure:"mirror-region"`

	// Working directory and the fixed temporary mount point
	WorkDir   string `mapstructure:"work-dir"`
	MountPath string `mapstructure:"mount-path"`

	// Pipeline journal location
	FSMDBPath string `mapstructure:"fsm-db-path"`
}

// Load reads configuration from environment, config file, and defaults.
func Load() (*Config, error) {
	viper.SetDefault("base-url", "https://bootstrap.grid.tf")
	viper.SetDefault("mirror-bucket", "")
	viper.SetDefault("mirror-region", "us-east-1")
	viper.SetDefault("work-dir", "/tmp/tfbootmaker")
	viper.SetDefault("mount-path", "/tmp/tfbootmaker/mnt")
	viper.SetDefault("fsm-db-path", "/tmp/tfbootmaker/fsm.db")

	// Environment variables (TFBOOTMAKER_BASE_URL, etc.)
	viper.SetEnvPrefix("TFBOOTMAKER")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Config file (optional)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.tfbootmaker")

	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration for errors.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base-url cannot be empty")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base-url must be an http(s) URL")
	}
	if c.WorkDir == "" {
		return fmt.Errorf("work-dir cannot be empty")
	}
	if c.MountPath == "" {
		return fmt.Errorf("mount-path cannot be empty")
	}
	if c.FSMDBPath == "" {
		return fmt.Errorf("fsm-db-path cannot be empty")
	}
	if c.MirrorBucket != "" && c.MirrorRegion == "" {
		return fmt.Errorf("mirror-region cannot be empty when mirror-bucket is set")
	}
	return nil
}
