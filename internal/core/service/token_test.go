package service

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/menuhub/menu-api/internal/core/domain"
)

func signClaims(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	cfg := testTokenConfig()
	issuer := newTestIssuer(t, cfg, nil)
	validator := newTestValidator(t, cfg, nil)

	tok, err := issuer.Issue("asdf", 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tok.TokenType != domain.TokenTypeBearer {
		t.Fatalf("expected bearer token type, got %q", tok.TokenType)
	}

	sub, err := validator.Validate(tok.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if sub != "asdf" {
		t.Fatalf("expected subject asdf, got %q", sub)
	}
}

func TestTokenIssuer_ClaimsAndExpiry(t *testing.T) {
	cfg := testTokenConfig()
	now := time.Date(2026, 3, 1, 12, 0, 0, 500_000_000, time.UTC)
	issuer := newTestIssuer(t, cfg, fixedClock(now))
	validator := newTestValidator(t, cfg, fixedClock(now))

	tok, err := issuer.Issue("asdf", 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := validator.Parse(tok.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	wantExp := time.Date(2026, 3, 1, 12, 30, 1, 0, time.UTC)
	if !claims.ExpiresAt.Equal(wantExp) {
		t.Fatalf("expected exp %v, got %v", wantExp, claims.ExpiresAt)
	}
	if !tok.ExpiresAt.Equal(wantExp) {
		t.Fatalf("token ExpiresAt %v does not match claim %v", tok.ExpiresAt, wantExp)
	}
	if !claims.ExpiresAt.After(now) {
		t.Fatalf("exp must be after issuance")
	}
	if claims.ID == "" {
		t.Fatalf("expected jti claim")
	}
	if claims.IssuedAt.IsZero() {
		t.Fatalf("expected iat claim")
	}
}

func TestTokenIssuer_DefaultTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cfg := testTokenConfig()
	cfg.DefaultTTL = 0
	issuer := newTestIssuer(t, cfg, fixedClock(now))

	tok, err := issuer.Issue("asdf", 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if want := now.Add(FallbackTokenTTL); !tok.ExpiresAt.Equal(want) {
		t.Fatalf("expected fallback expiry %v, got %v", want, tok.ExpiresAt)
	}

	cfg.DefaultTTL = 5 * time.Minute
	issuer = newTestIssuer(t, cfg, fixedClock(now))
	tok, err = issuer.Issue("asdf", -time.Second)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if want := now.Add(5 * time.Minute); !tok.ExpiresAt.Equal(want) {
		t.Fatalf("expected configured default expiry %v, got %v", want, tok.ExpiresAt)
	}
}

func TestTokenIssuer_DistinctTokensSameSecond(t *testing.T) {
	cfg := testTokenConfig()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, cfg, fixedClock(now))
	validator := newTestValidator(t, cfg, fixedClock(now))

	a, err := issuer.Issue("asdf", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	b, err := issuer.Issue("asdf", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if a.AccessToken == b.AccessToken {
		t.Fatalf("expected distinct tokens")
	}
	for _, tok := range []string{a.AccessToken, b.AccessToken} {
		if _, err := validator.Validate(tok); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}
}

func TestTokenIssuer_RejectsEmptySubject(t *testing.T) {
	issuer := newTestIssuer(t, testTokenConfig(), nil)
	if _, err := issuer.Issue("", time.Minute); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}

func TestTokenConfig_Rejected(t *testing.T) {
	cases := map[string]TokenConfig{
		"empty secret": {Algorithm: "HS256"},
		"rsa":          {Secret: []byte(testSecret), Algorithm: "RS256"},
		"none":         {Secret: []byte(testSecret), Algorithm: "none"},
		"unknown":      {Secret: []byte(testSecret), Algorithm: "HS1024"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewTokenIssuer(cfg); err == nil {
				t.Fatalf("issuer: expected error")
			}
			if _, err := NewTokenValidator(cfg); err == nil {
				t.Fatalf("validator: expected error")
			}
		})
	}
}

func TestTokenValidator_Expiry(t *testing.T) {
	cfg := testTokenConfig()
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tok, err := newTestIssuer(t, cfg, fixedClock(issuedAt)).Issue("asdf", 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	deadline := issuedAt.Add(30 * time.Minute)

	if _, err := newTestValidator(t, cfg, fixedClock(deadline.Add(-time.Second))).Validate(tok.AccessToken); err != nil {
		t.Fatalf("expected valid before deadline, got %v", err)
	}
	_, err = newTestValidator(t, cfg, fixedClock(deadline)).Validate(tok.AccessToken)
	expectErr(t, err, domain.ErrTokenExpired)
	_, err = newTestValidator(t, cfg, fixedClock(deadline.Add(time.Hour))).Validate(tok.AccessToken)
	expectErr(t, err, domain.ErrTokenExpired)
}

func TestTokenValidator_FlippedSignatureByte(t *testing.T) {
	cfg := testTokenConfig()
	tok, err := newTestIssuer(t, cfg, nil).Issue("asdf", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	validator := newTestValidator(t, cfg, nil)

	sigStart := strings.LastIndex(tok.AccessToken, ".") + 1
	for i := sigStart; i < len(tok.AccessToken); i++ {
		b := []byte(tok.AccessToken)
		b[i] ^= 0x01
		_, err := validator.Validate(string(b))
		if err == nil {
			t.Fatalf("byte %d flipped: token still validated", i)
		}
		expectErr(t, err, domain.ErrTokenSignatureInvalid)
	}
}

func TestTokenValidator_FlippedPayloadByte(t *testing.T) {
	cfg := testTokenConfig()
	tok, err := newTestIssuer(t, cfg, nil).Issue("asdf", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	validator := newTestValidator(t, cfg, nil)

	parts := strings.Split(tok.AccessToken, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	tampered := strings.Replace(string(payload), `"asdf"`, `"root"`, 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(tampered))

	_, err = validator.Validate(strings.Join(parts, "."))
	expectErr(t, err, domain.ErrTokenSignatureInvalid)
}

func TestTokenValidator_ForeignSecret(t *testing.T) {
	cfg := testTokenConfig()
	foreign := cfg
	foreign.Secret = []byte("a-completely-different-secret-of-32-bytes")

	tok, err := newTestIssuer(t, foreign, nil).Issue("asdf", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, err = newTestValidator(t, cfg, nil).Validate(tok.AccessToken)
	expectErr(t, err, domain.ErrTokenSignatureInvalid)
}

func TestTokenValidator_AlgorithmMismatch(t *testing.T) {
	cfg := testTokenConfig()
	validator := newTestValidator(t, cfg, nil)
	claims := jwt.MapClaims{"sub": "asdf", "exp": time.Now().Add(time.Hour).Unix()}

	hs512 := signClaims(t, jwt.SigningMethodHS512, cfg.Secret, claims)
	_, err := validator.Validate(hs512)
	expectErr(t, err, domain.ErrTokenSignatureInvalid)

	none := signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claims)
	_, err = validator.Validate(none)
	expectErr(t, err, domain.ErrTokenSignatureInvalid)
}

func TestTokenValidator_Malformed(t *testing.T) {
	cfg := testTokenConfig()
	validator := newTestValidator(t, cfg, nil)
	future := time.Now().Add(time.Hour).Unix()

	cases := map[string]string{
		"empty":         "",
		"one segment":   "abc",
		"two segments":  "abc.def",
		"bad header":    "!!!.e30.sig",
		"bad payload":   "eyJhbGciOiJIUzI1NiJ9.!!!.sig",
		"missing sub":   signClaims(t, jwt.SigningMethodHS256, cfg.Secret, jwt.MapClaims{"exp": future}),
		"empty sub":     signClaims(t, jwt.SigningMethodHS256, cfg.Secret, jwt.MapClaims{"sub": "", "exp": future}),
		"missing exp":   signClaims(t, jwt.SigningMethodHS256, cfg.Secret, jwt.MapClaims{"sub": "asdf"}),
		"string exp":    signClaims(t, jwt.SigningMethodHS256, cfg.Secret, jwt.MapClaims{"sub": "asdf", "exp": "tomorrow"}),
		"numeric sub":   signClaims(t, jwt.SigningMethodHS256, cfg.Secret, jwt.MapClaims{"sub": 42, "exp": future}),
		"unknown alg":   "eyJhbGciOiJYWVoiLCJ0eXAiOiJKV1QifQ.eyJzdWIiOiJhc2RmIiwiZXhwIjo0MTAyNDQ0ODAwfQ.c2ln",
		"four segments": "a.b.c.d",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := validator.Validate(tok)
			expectErr(t, err, domain.ErrTokenMalformed)
		})
	}
}

func TestTokenValidator_MalformedBeforeSignature(t *testing.T) {
	cfg := testTokenConfig()
	foreign := []byte("another-secret-entirely-32-bytes-long!")
	tok := signClaims(t, jwt.SigningMethodHS256, foreign, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})

	_, err := newTestValidator(t, cfg, nil).Validate(tok)
	expectErr(t, err, domain.ErrTokenMalformed)
}

func TestTokenValidator_SignatureBeforeExpiry(t *testing.T) {
	cfg := testTokenConfig()
	foreign := []byte("another-secret-entirely-32-bytes-long!")
	tok := signClaims(t, jwt.SigningMethodHS256, foreign, jwt.MapClaims{"sub": "asdf", "exp": time.Now().Add(-time.Hour).Unix()})

	_, err := newTestValidator(t, cfg, nil).Validate(tok)
	expectErr(t, err, domain.ErrTokenSignatureInvalid)
}
