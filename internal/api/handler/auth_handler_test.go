package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/menuhub/menu-api/internal/core/domain"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, username, password string) (*domain.Token, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*domain.Token, error) {
	return s.loginFn(ctx, username, password)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func formRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func expectHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d (%v)", code, he.Code, he.Message)
	}
	return he
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*domain.Token, error) {
			if username != "asdf" || password != "s3cret" {
				t.Fatalf("unexpected credentials %q/%q", username, password)
			}
			return &domain.Token{AccessToken: "signed.jwt.value", TokenType: domain.TokenTypeBearer}, nil
		},
	}
	h := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("username=asdf&password=s3cret"), rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "signed.jwt.value" || resp["token_type"] != "bearer" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if len(resp) != 2 {
		t.Fatalf("unexpected extra fields: %v", resp)
	}
}

func TestAuthHandler_Login_MissingField(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (*domain.Token, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	})

	c := e.NewContext(formRequest("username=asdf"), httptest.NewRecorder())
	he := expectHTTPError(t, h.Login(c), http.StatusUnprocessableEntity)
	if !strings.Contains(he.Message.(string), "password is required") {
		t.Fatalf("unexpected message %v", he.Message)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (*domain.Token, error) {
			return nil, domain.ErrInvalidCredentials
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("username=asdf&password=wrong"), rec)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("handler must leave rendering to the error handler")
	}
}
