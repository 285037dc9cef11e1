package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"3000"`
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`
	Env     string `env:"APP_ENV" envDefault:"dev"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"postgres"`
	DatabaseDSN    string `env:"DATABASE_URL"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	SessionMaxAge    time.Duration `env:"SESSION_MAX_AGE" envDefault:"720h"`
	SessionUpdateAge time.Duration `env:"SESSION_UPDATE_AGE" envDefault:"24h"`

	Google         GoogleConfig         `envPrefix:"GOOGLE_"`
	MicrosoftEntra MicrosoftEntraConfig `envPrefix:"MICROSOFT_ENTRA_"`
}

type GoogleConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
}

// Configured reports whether every Google credential is set. A variable
// that is set but empty counts as absent.
func (c GoogleConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type MicrosoftEntraConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	// Issuer is the WS-Federation sign-on endpoint shown in the app registration.
	Issuer string `env:"ISSUER"`
}

// Configured reports whether every Entra credential is set. A variable
// that is set but empty counts as absent.
func (c MicrosoftEntraConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.Issuer != ""
}

// Load reads an optional .env file and parses the environment.
// Variables already present in the environment win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
