package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/menuhub/menu-api/internal/core/domain"
)

// errorResponse is the {"detail": "..."} body of every failed request.
type errorResponse struct {
	Detail string `json:"detail"`
}

const bearerChallenge = "Bearer"

// domainErrors maps core sentinels to responses, first match wins.
var domainErrors = []struct {
	target error
	code   int
	detail string
}{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect username or password"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "Could not validate credentials"},
	{domain.ErrTokenMalformed, http.StatusUnauthorized, "Could not validate credentials"},
	{domain.ErrTokenSignatureInvalid, http.StatusUnauthorized, "Could not validate credentials"},
	{domain.ErrTokenExpired, http.StatusUnauthorized, "Could not validate credentials"},
	{domain.ErrUserDisabled, http.StatusBadRequest, "Inactive user"},
	{domain.ErrMenuItemNotFound, http.StatusNotFound, "Item not found"},
	{domain.ErrMenuItemExists, http.StatusConflict, "Item already exists"},
	{domain.ErrDuplicateRequest, http.StatusConflict, "Duplicate request"},
}

// NewHTTPErrorHandler renders errors returned by handlers. Every 401 carries
// a WWW-Authenticate: Bearer challenge. Errors it does not recognise are
// logged and answered with a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, detail := resolveError(err, log, c)
		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, bearerChallenge)
		}
		_ = c.JSON(code, errorResponse{Detail: detail})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range domainErrors {
		if errors.Is(err, m.target) {
			if m.code == http.StatusUnauthorized {
				// The cause stays server-side; clients only see the detail.
				log.Debug().Err(err).Str("path", c.Path()).Msg("authentication rejected")
			}
			return m.code, m.detail
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
