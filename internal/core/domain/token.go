package domain

import "time"

// TokenTypeBearer is the only token type the service issues.
const TokenTypeBearer = "bearer"

// Claims is the payload carried inside a signed access token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
	ID        string
}

// Token is a freshly issued access token.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}
