package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds application configuration shared by the server, historian and terminal client.
type Config struct {
	HTTP      HTTPConfig
	Log       LogConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	Historian HistorianConfig
	Auth      AuthConfig
	Board     BoardConfig
}

type HTTPConfig struct {
	Addr string
}

type LogConfig struct {
	Level string
	File  string
}

type RedisConfig struct {
	Addr  string
	DB    int
	Queue string
	// Enabled turns on move publishing from the server.
	Enabled bool
}

type PostgresConfig struct {
	URL string
}

type HistorianConfig struct {
	BatchSize     int `mapstructure:"batch_size"`
	FlushMs       int `mapstructure:"flush_ms"`
	InactivitySec int `mapstructure:"inactivity_sec"`
}

type AuthConfig struct {
	// TokenExpire is a duration string; "never" or "0" issues tokens without exp.
	TokenExpire string `mapstructure:"token_expire"`
}

type BoardConfig struct {
	CardWidth  float64 `mapstructure:"card_width"`
	CardHeight float64 `mapstructure:"card_height"`
	// IdleMinutes drops server board sessions with no moves for this long (0 disables).
	IdleMinutes int `mapstructure:"idle_minutes"`
}

// Load reads configuration from an optional TOML file and env. Env var overrides
// use prefix SOLITAIRE_, e.g. SOLITAIRE_HTTP_ADDR.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "solitaire.log")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.queue", "solitaire_moves")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("postgres.url", "")
	v.SetDefault("historian.batch_size", 20)
	v.SetDefault("historian.flush_ms", 500)
	v.SetDefault("historian.inactivity_sec", 600)
	v.SetDefault("auth.token_expire", "72h")
	v.SetDefault("board.card_width", 80)
	v.SetDefault("board.card_height", 120)
	v.SetDefault("board.idle_minutes", 30)

	v.SetConfigType("toml")
	if cfgPath := os.Getenv("SOLITAIRE_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("solitaire")
	}

	v.SetEnvPrefix("SOLITAIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// the config file is optional unless named explicitly
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := c.LogLevel(); err != nil {
		return Config{}, err
	}
	if _, err := c.TokenExpiry(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return lvl, nil
}

// TokenExpiry parses Auth.TokenExpire; zero means tokens never expire.
func (c Config) TokenExpiry() (time.Duration, error) {
	switch c.Auth.TokenExpire {
	case "", "0", "never":
		return 0, nil
	}
	d, err := time.ParseDuration(c.Auth.TokenExpire)
	if err != nil {
		return 0, fmt.Errorf("invalid token expire time %q: %w", c.Auth.TokenExpire, err)
	}
	return d, nil
}

// NewLogger builds the logrus logger every binary uses.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	lvl, _ := c.LogLevel()
	logger.SetLevel(lvl)
	return logger
}
