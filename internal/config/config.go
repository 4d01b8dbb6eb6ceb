// Package config loads server settings from defaults, an optional config
// file, a .env file and ARENA_* environment variables, in rising order of
// precedence. Command-line flags bound to the returned viper win over all
// of them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "ARENA"

type Config struct {
	Addr           string        `mapstructure:"addr"`
	TickDuration   time.Duration `mapstructure:"tick_duration"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
	DatabaseURL    string        `mapstructure:"database_url"`
	ContentPath    string        `mapstructure:"content_path"`
	OutboxSize     int           `mapstructure:"outbox_size"`
	AutoStart      bool          `mapstructure:"auto_start"`
	OriginPatterns []string      `mapstructure:"origin_patterns"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("tick_duration", "4s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("database_url", "")
	v.SetDefault("content_path", "")
	v.SetDefault("outbox_size", 16)
	v.SetDefault("auto_start", false)
	v.SetDefault("origin_patterns", []string{})
}

// NewViper returns a viper with defaults and environment binding set up,
// ready for flags to be bound to it.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file, when given, and decodes the merged settings. .env in
// the working directory is loaded first when present; variables already
// set in the environment are left alone.
func Load(v *viper.Viper, file string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var ErrInvalid = errors.New("invalid config")

func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr is empty", ErrInvalid)
	case c.TickDuration < 0:
		return fmt.Errorf("%w: tick_duration must not be negative", ErrInvalid)
	case c.OutboxSize < 1:
		return fmt.Errorf("%w: outbox_size must be at least 1", ErrInvalid)
	case c.LogFormat != "json" && c.LogFormat != "console":
		return fmt.Errorf("%w: log_format must be json or console", ErrInvalid)
	}
	return nil
}
