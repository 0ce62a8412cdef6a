package config

import (
	"fmt"
	"strings"

	"github.com/loykin/stationreg/internal/logger"
	"github.com/spf13/viper"
)

// DefaultRunDir is the conventional shared run-state directory where
// stations drop their records.
const DefaultRunDir = "/var/run/stationreg"

// Config represents the top-level TOML structure for the stationreg CLI
// and serve daemon.
type Config struct {
	RunDir     string       `toml:"run_dir" mapstructure:"run_dir"`
	HistoryDSN string       `toml:"history_dsn" mapstructure:"history_dsn"`
	Server     ServerConfig `toml:"server" mapstructure:"server"`
	Log        LogConfig    `toml:"log" mapstructure:"log"`
}

type ServerConfig struct {
	Listen   string `toml:"listen" mapstructure:"listen"`
	BasePath string `toml:"base_path" mapstructure:"base_path"`
	Metrics  bool   `toml:"metrics" mapstructure:"metrics"`
}

type LogConfig struct {
	Level      string `toml:"level" mapstructure:"level"`
	Path       string `toml:"path" mapstructure:"path"`
	MaxSizeMB  int    `toml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `toml:"compress" mapstructure:"compress"`
	NoColor    bool   `toml:"no_color" mapstructure:"no_color"`
}

// Default returns the built-in configuration used when no file is given.
func Default() Config {
	return Config{
		RunDir: DefaultRunDir,
		Server: ServerConfig{
			Listen:   "127.0.0.1:8899",
			BasePath: "/api",
			Metrics:  true,
		},
	}
}

// LoadConfig reads a TOML config file and merges it over the defaults.
// Keys can also be overridden via STATIONREG_* environment variables
// (e.g. STATIONREG_RUN_DIR, STATIONREG_SERVER_LISTEN).
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix("STATIONREG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("run_dir", def.RunDir)
	v.SetDefault("server.listen", def.Server.Listen)
	v.SetDefault("server.base_path", def.Server.BasePath)
	v.SetDefault("server.metrics", def.Server.Metrics)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.RunDir == "" {
		c.RunDir = def.RunDir
	}
	return c, nil
}

// LoggerConfig converts the log section into the logger package's config.
func (c Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		Path:       c.Log.Path,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
		NoColor:    c.Log.NoColor,
	}
}
