// Package config loads server configuration from config.yaml and the
// environment (REELIST_ prefix, e.g. REELIST_TMDB_TOKEN).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	DataDir        string   `mapstructure:"data_dir"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	SecureCookies  bool     `mapstructure:"secure_cookies"`
}

type TMDBConfig struct {
	Token    string `mapstructure:"token"`
	BaseURL  string `mapstructure:"base_url"`
	Language string `mapstructure:"language"`
}

// CacheConfig selects the response cache backend. "memory" needs nothing,
// "redis" needs Addr, "bolt" stores under the data dir.
type CacheConfig struct {
	Backend       string `mapstructure:"backend"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
}

type LoggingConfig struct {
	File string `mapstructure:"file"`
}

// DefaultConfig returns the defaults applied before file and environment
// overrides.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    ":8080",
			DataDir: "./data",
		},
		TMDB: TMDBConfig{
			Language: "en-US",
		},
		Cache: CacheConfig{
			Backend: "memory",
		},
	}
}

// Load reads config.yaml (from dir when given, else the working directory)
// and environment overrides. A missing file is fine; a missing TMDB token is
// not.
func Load(dir string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("REELIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper knows about.
	for _, key := range []string{
		"server.addr", "server.data_dir", "server.allowed_origins", "server.secure_cookies",
		"tmdb.token", "tmdb.base_url", "tmdb.language",
		"cache.backend", "cache.redis_addr", "cache.redis_password",
		"logging.file",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.TMDB.Token == "" {
		return nil, fmt.Errorf("tmdb.token is required (set REELIST_TMDB_TOKEN or config.yaml)")
	}
	switch cfg.Cache.Backend {
	case "memory", "redis", "bolt":
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
	return cfg, nil
}
