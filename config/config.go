package config

import (
	"github.com/advisorhub/advisorhub-server/utils"
	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port            string `env:"LISTEN_ADDR" envDefault:":5000"`
	Timeout         uint64 `env:"TIMEOUT" envDefault:"10"`
	ReadBufferSize  int    `env:"READ_BUFFER_SIZE" envDefault:"4096"`
	BodyLimit       int    `env:"BODY_LIMIT" envDefault:"1048576"`
	AppName         string `env:"APP_NAME" envDefault:"Advisorhub"`
	IsProduction    bool   `env:"PRODUCTION"`
	Dsn             string `env:"DSN"`
	JwtSecret       string `env:"JWT_SECRET"`
	WealthboxApiUrl string `env:"WEALTHBOX_API_URL" envDefault:"https://api.crmworkspace.com/v1"`
}

func Parse() (*Config, error) {
	cfg := Config{
		IsProduction: utils.ParseFlags(),
	}

	if err := env.Parse(&cfg); err != nil {
		log.Panic().Err(err).Msg("Failed to parse env config")
	}

	// Tokens are HMAC-signed with this secret; there is no fallback value.
	if cfg.JwtSecret == "" {
		log.Panic().Msg("JWT_SECRET must be set")
	}

	return &cfg, nil
}
