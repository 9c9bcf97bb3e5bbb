package config

import "github.com/caarlos0/env/v11"

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// SQLitePath locates the backing database. ":memory:" gives a
	// session-only store.
	SQLitePath string `env:"SQLITE_PATH" envDefault:"storefront.db"`

	AuthSecret string `env:"AUTH_SECRET" envDefault:"dev-secret-change-me"`

	ProfileWaitAttempts int `env:"PROFILE_WAIT_ATTEMPTS" envDefault:"5"`
	ProfileWaitDelayMS  int `env:"PROFILE_WAIT_DELAY_MS" envDefault:"200"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
