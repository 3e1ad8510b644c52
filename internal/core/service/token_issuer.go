package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/menuhub/menu-api/internal/core/domain"
)

// FallbackTokenTTL applies when neither the caller nor the configuration
// supplies a lifetime.
const FallbackTokenTTL = 15 * time.Minute

// TokenConfig is the process-wide signing configuration. It is built once at
// startup and shared read-only by the issuer and the validator.
type TokenConfig struct {
	Secret     []byte
	Algorithm  string
	DefaultTTL time.Duration
}

func (c TokenConfig) method() (*jwt.SigningMethodHMAC, error) {
	if len(c.Secret) == 0 {
		return nil, errors.New("token config: empty signing secret")
	}
	m, ok := jwt.GetSigningMethod(c.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("token config: unsupported algorithm %q", c.Algorithm)
	}
	return m, nil
}

// TokenIssuer mints signed access tokens.
type TokenIssuer struct {
	method     *jwt.SigningMethodHMAC
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	m, err := cfg.method()
	if err != nil {
		return nil, err
	}
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = FallbackTokenTTL
	}
	return &TokenIssuer{method: m, secret: cfg.Secret, defaultTTL: ttl, now: time.Now}, nil
}

// Issue signs a token for subject that expires ttl from now. A non-positive
// ttl means none was supplied and the configured default is used.
func (i *TokenIssuer) Issue(subject string, ttl time.Duration) (*domain.Token, error) {
	if subject == "" {
		return nil, errors.New("issue token: empty subject")
	}
	if ttl <= 0 {
		ttl = i.defaultTTL
	}

	now := i.now()
	// exp has second precision on the wire; round up so it stays after now.
	exp := now.Add(ttl).Add(time.Second - 1).Truncate(time.Second)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &domain.Token{
		AccessToken: signed,
		TokenType:   domain.TokenTypeBearer,
		ExpiresAt:   exp,
	}, nil
}
