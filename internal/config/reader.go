package config

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

var errUnknownEnv = errors.New("unknown env")

// Validate checks values cleanenv cannot express with tags.
func (cfg *Config) Validate() error {
	switch cfg.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("%w: %s", errUnknownEnv, cfg.Env)
	}

	if cfg.Sync.MaxDelay < cfg.Sync.BaseDelay {
		return fmt.Errorf("sync max delay %s is below base delay %s",
			cfg.Sync.MaxDelay, cfg.Sync.BaseDelay)
	}
	if cfg.Auth.Header == "" {
		return errors.New("auth header name is empty")
	}
	return nil
}
