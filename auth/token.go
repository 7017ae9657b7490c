package auth

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"party-lab/domain"
	"party-lab/errors"
)

// TokenManager issues and resolves the opaque bearer credentials the
// transport layer carries. The signing key is generated per process:
// tokens do not outlive the server, which matches the in-memory
// lifetime of everything they point at.
type TokenManager struct {
	log *slog.Logger
	key []byte
	ttl time.Duration
}

// CustomClaims defines the structure of the data stored inside the JWT.
type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func NewTokenManager(log *slog.Logger, ttl time.Duration) (*TokenManager, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrTokenGeneration, err)
	}
	return &TokenManager{log: log, key: key, ttl: ttl}, nil
}

// IssueToken creates a signed JWT for a specific user. Called only
// at registration.
func (m *TokenManager) IssueToken(userID domain.UserID) (string, error) {
	claims := &CustomClaims{
		UserID: string(userID),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "party-lab",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return signed, nil
}

// ResolveIdentity validates the credential and yields the user id it
// was issued for. Failures never propagate into the engine: a bad
// token is logged and resolves to absent.
func (m *TokenManager) ResolveIdentity(tokenString string) (domain.UserID, bool) {
	if tokenString == "" {
		return "", false
	}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.key, nil
	})
	if err != nil {
		m.log.Warn("bad token received", "error", err)
		return "", false
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		m.log.Warn("bad token received")
		return "", false
	}
	return domain.UserID(claims.UserID), true
}
