package services

import (
	"crypto/subtle"

	"github.com/rs/zerolog"
)

type authServiceImpl struct {
	logger       zerolog.Logger
	sharedSecret []byte
}

func NewAuthService(
	logger zerolog.Logger,
	sharedSecret string,
) AuthService {
	return &authServiceImpl{
		logger:       logger,
		sharedSecret: []byte(sharedSecret),
	}
}

func (s *authServiceImpl) Authorize(secret string) error {
	if len(s.sharedSecret) == 0 {
		s.logger.Error().Msg("shared secret is not configured")
		return ErrAuthNotConfigured
	}

	if secret == "" {
		s.logger.Warn().Msg("no secret presented")
		return ErrUnauthorized
	}

	if subtle.ConstantTimeCompare([]byte(secret), s.sharedSecret) != 1 {
		s.logger.Warn().Msg("secret mismatch")
		return ErrUnauthorized
	}
	return nil
}
