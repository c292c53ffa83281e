package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-taskboard/internal/config"
)

func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Bool("auth_configured", cfg.Auth.SharedSecret != "").
		Str("views_file", cfg.Board.ViewsFile).
		Msg("read env")

	if cfg.Auth.SharedSecret == "" {
		globalLogger.Warn().Msg("shared secret is empty, mutating requests will be rejected")
	}

	config.SetGlobal(cfg)
}
