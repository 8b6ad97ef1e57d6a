package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"golang.org/x/text/language"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env                    string `env:"APP_ENV" env-default:"local"`
	LogLevel               string `env:"LOG_LEVEL" env-default:"info"`
	AppHost                string `env:"APP_HOST" env-default:"127.0.0.1"`
	AppPort                string `env:"APP_PORT" env-default:"8080"`
	DatabaseDSN            string `env:"DATABASE_DSN" env-default:"tasks.db"`
	RateLimit              int    `env:"RATE_LIMIT_PER_MINUTE" env-default:"120"`
	RedisAddr              string `env:"REDIS_ADDR"`
	RedisFeedChannel       string `env:"REDIS_FEED_CHANNEL" env-default:"task_board_changes"`
	TimerTickMs            int    `env:"TIMER_TICK_MS" env-default:"1000"`
	Locale                 string `env:"BOARD_LOCALE" env-default:"en"`
	OwnerID                string `env:"OWNER_ID"`
	ShutdownTimeoutSeconds int    `env:"SHUTDOWN_TIMEOUT_SECONDS" env-default:"20"`
}

func (c Config) AppURL() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TimerTickMs) * time.Millisecond
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Language parses Locale. Validate has already rejected malformed tags.
func (c Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	switch cfg.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("APP_ENV must be one of local, dev, prod (got %q)", cfg.Env)
	}
	if cfg.AppHost == "" || cfg.AppPort == "" {
		return errors.New("APP_HOST and APP_PORT must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN must not be empty")
	}
	if cfg.RateLimit <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.TimerTickMs <= 0 {
		return errors.New("TIMER_TICK_MS must be greater than 0")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	if cfg.RedisAddr != "" && cfg.RedisFeedChannel == "" {
		return errors.New("REDIS_FEED_CHANNEL must not be empty when REDIS_ADDR is set")
	}
	if _, err := language.Parse(cfg.Locale); err != nil {
		return fmt.Errorf("BOARD_LOCALE is not a valid language tag: %w", err)
	}
	return nil
}
