// Package config loads settings for the tm command.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/turing/internal/logs"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Log LogConfig `mapstructure:"log"`
	Run RunConfig `mapstructure:"run"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RunConfig holds defaults for tm run.
type RunConfig struct {
	// MaxSteps bounds every run; 0 means unbounded.
	MaxSteps int  `mapstructure:"max_steps"`
	Color    bool `mapstructure:"color"`
}

// New returns a viper instance with defaults, the config file if present,
// and env overrides. Env var overrides use prefix TM_, e.g. TM_RUN_MAX_STEPS.
func New() (*viper.Viper, error) {
	v := viper.New()

	// default values
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("run.max_steps", 0)
	v.SetDefault("run.color", true)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TM_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "tm"))
		v.SetConfigName("tm")
	}

	v.SetEnvPrefix("TM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return Config{}, err
	}
	if _, err := logs.ParseFormat(c.Log.Format); err != nil {
		return Config{}, err
	}
	if c.Run.MaxSteps < 0 {
		return Config{}, fmt.Errorf("config: run.max_steps must not be negative, got %d", c.Run.MaxSteps)
	}
	return c, nil
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("config: log.level: %w", err)
	}
	return l, nil
}

// Logger builds the logger these settings describe.
func (c LogConfig) Logger() (*slog.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	format, err := logs.ParseFormat(c.Format)
	if err != nil {
		return nil, err
	}
	return logs.New(os.Stderr, level, format), nil
}
