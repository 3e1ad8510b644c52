package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/menuhub/menu-api/internal/core/domain"
)

// AuthService implements login: credential check followed by token issuance.
type AuthService struct {
	auth     *Authenticator
	issuer   *TokenIssuer
	tokenTTL time.Duration
	logger   zerolog.Logger
}

func NewAuthService(auth *Authenticator, issuer *TokenIssuer, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	return &AuthService{auth: auth, issuer: issuer, tokenTTL: tokenTTL, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Token, error) {
	user, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		s.logger.Info().Err(err).Str("username", username).Msg("login rejected")
		return nil, err
	}

	token, err := s.issuer.Issue(user.Username, s.tokenTTL)
	if err != nil {
		s.logger.Error().Err(err).Str("username", user.Username).Msg("failed to issue token")
		return nil, err
	}

	s.logger.Info().Str("username", user.Username).Time("expires_at", token.ExpiresAt).Msg("token issued")
	return token, nil
}
