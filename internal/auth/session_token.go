package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionTokenIssuer = "i2p"

var ErrTokensDisabled = errors.New("session tokens are disabled: no signing secret configured")

// SessionTokenIssuer signs and verifies HS256 tokens whose subject is a
// session ID.
type SessionTokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionTokenIssuer returns nil when secret is empty.
func NewSessionTokenIssuer(secret string, ttl time.Duration) *SessionTokenIssuer {
	if secret == "" {
		return nil
	}

	return &SessionTokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (i *SessionTokenIssuer) Issue(sessionID string) (string, error) {
	if i == nil {
		return "", ErrTokensDisabled
	}

	now := i.now()
	claims := jwt.RegisteredClaims{
		Issuer:   sessionTokenIssuer,
		Subject:  sessionID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// SessionID verifies tokenString and returns its subject.
func (i *SessionTokenIssuer) SessionID(tokenString string) (string, error) {
	if i == nil {
		return "", ErrTokensDisabled
	}

	claims := jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionTokenIssuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("token has no session subject")
	}

	return claims.Subject, nil
}
