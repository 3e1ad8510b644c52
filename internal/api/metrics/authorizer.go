package metrics

import (
	"context"
	"errors"

	"github.com/menuhub/menu-api/internal/core/domain"
	"github.com/menuhub/menu-api/internal/core/ports"
)

// Authorizer decorates a ports.Authorizer with AuthorizationsTotal.
type Authorizer struct {
	next ports.Authorizer
}

func NewAuthorizer(next ports.Authorizer) *Authorizer {
	return &Authorizer{next: next}
}

func (a *Authorizer) Authorize(ctx context.Context, token string) (*domain.AuthenticatedUser, error) {
	user, err := a.next.Authorize(ctx, token)
	AuthorizationsTotal.WithLabelValues(outcome(err)).Inc()
	return user, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "allowed"
	case errors.Is(err, domain.ErrUserDisabled):
		return "disabled"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, domain.ErrSubjectUnresolved):
		return "subject_unresolved"
	default:
		return "error"
	}
}

// ObserveLogin records the outcome of a login attempt.
func ObserveLogin(err error) {
	switch {
	case err == nil:
		LoginsTotal.WithLabelValues("success").Inc()
		TokensIssuedTotal.Inc()
	case errors.Is(err, domain.ErrInvalidCredentials):
		LoginsTotal.WithLabelValues("invalid_credentials").Inc()
	default:
		LoginsTotal.WithLabelValues("error").Inc()
	}
}

// ObserveMenu records a menu operation. Authorization failures are counted by
// Authorizer and are not repeated here.
func ObserveMenu(op string, err error) {
	if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrUserDisabled) {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	MenuOperationsTotal.WithLabelValues(op, result).Inc()
}
