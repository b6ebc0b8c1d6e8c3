package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. MARKETPLACE_SERVER_PORT.
const EnvPrefix = "MARKETPLACE"

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	Log    LogConfig
	Seed   SeedConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// SeedConfig controls what the mock activity table starts with.
type SeedConfig struct {
	// Demo loads the built-in demo records.
	Demo bool
	// Path is an optional JSON file of raw records loaded after the demo set.
	Path string
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is loaded into the environment first when present. An empty
// configPath means no file.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: read .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config.Load: failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{Port: v.GetString("server.port")},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Seed: SeedConfig{
			Demo: v.GetBool("seed.demo"),
			Path: v.GetString("seed.path"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("seed.demo", true)
	v.SetDefault("seed.path", "")
}
