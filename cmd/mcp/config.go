package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/elC0mpa/cost-explorer-mcp/logging"
	awsconfig "github.com/elC0mpa/cost-explorer-mcp/service/aws/config"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "COST_EXPLORER_MCP"

// Config holds the server configuration resolved from flags, environment,
// an optional config file and defaults, in that order of precedence.
type Config struct {
	// AWS configuration
	Region     string `mapstructure:"region"`
	Profile    string `mapstructure:"profile"`
	MaxRetries int    `mapstructure:"max_retries"`

	Log logging.Config `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	logDefaults := logging.DefaultConfig()

	v.SetDefault("region", awsconfig.DefaultRegion)
	v.SetDefault("profile", "")
	v.SetDefault("max_retries", awsconfig.DefaultMaxRetries)
	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.format", logDefaults.Format)
	v.SetDefault("log.output", logDefaults.Output)
}

// LoadConfig resolves configuration into v. Flags must already be bound.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The standard AWS variables are honored after the prefixed ones.
	if err := v.BindEnv("region", envPrefix+"_REGION", "AWS_REGION", "AWS_DEFAULT_REGION"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("profile", envPrefix+"_PROFILE", "AWS_PROFILE"); err != nil {
		return nil, err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Region = strings.TrimSpace(cfg.Region)
	cfg.Profile = strings.TrimSpace(cfg.Profile)

	if cfg.Region == "" {
		cfg.Region = awsconfig.DefaultRegion
	}
	if cfg.MaxRetries < 1 {
		return nil, fmt.Errorf("max_retries must be at least 1, got %d", cfg.MaxRetries)
	}

	return &cfg, nil
}

// loadDotEnv loads path into the environment if it exists. Variables that are
// already set win over the file.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}
