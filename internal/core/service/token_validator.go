package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/menuhub/menu-api/internal/core/domain"
)

// TokenValidator checks tokens minted by TokenIssuer. Checks run in a fixed
// order: structure, then signature, then expiry. Each stage fails closed.
type TokenValidator struct {
	method *jwt.SigningMethodHMAC
	secret []byte
	parser *jwt.Parser
	now    func() time.Time
}

func NewTokenValidator(cfg TokenConfig) (*TokenValidator, error) {
	m, err := cfg.method()
	if err != nil {
		return nil, err
	}
	return &TokenValidator{
		method: m,
		secret: cfg.Secret,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{m.Alg()}),
			jwt.WithStrictDecoding(),
			jwt.WithoutClaimsValidation(),
		),
		now: time.Now,
	}, nil
}

// Validate returns the subject of a well-formed, correctly signed and
// unexpired token. Failures wrap one of domain.ErrTokenMalformed,
// domain.ErrTokenSignatureInvalid or domain.ErrTokenExpired.
func (v *TokenValidator) Validate(token string) (string, error) {
	claims, err := v.Parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Parse is Validate returning the full claim set.
func (v *TokenValidator) Parse(token string) (*domain.Claims, error) {
	parts := strings.SplitN(token, ".", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected three segments", domain.ErrTokenMalformed)
	}
	signingString := parts[0] + "." + parts[1]

	var rc jwt.RegisteredClaims
	parsed, _, err := v.parser.ParseUnverified(signingString+".", &rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
	if rc.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub claim", domain.ErrTokenMalformed)
	}
	if rc.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp claim", domain.ErrTokenMalformed)
	}

	if parsed.Method == nil || parsed.Method.Alg() != v.method.Alg() {
		return nil, fmt.Errorf("%w: unexpected signing method", domain.ErrTokenSignatureInvalid)
	}
	sig, err := v.parser.DecodeSegment(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenSignatureInvalid, err)
	}
	if err := v.method.Verify(signingString, sig, v.secret); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenSignatureInvalid, err)
	}

	if !v.now().Before(rc.ExpiresAt.Time) {
		return nil, domain.ErrTokenExpired
	}

	out := &domain.Claims{
		Subject:   rc.Subject,
		ExpiresAt: rc.ExpiresAt.Time,
		ID:        rc.ID,
	}
	if rc.IssuedAt != nil {
		out.IssuedAt = rc.IssuedAt.Time
	}
	return out, nil
}
