package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/bill-tracking/internal"
	"github.com/frahmantamala/bill-tracking/internal/session"
)

// Claims carried by the session bearer token.
type Claims struct {
	Email    string `json:"email"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// TokenManager mints and verifies the bearer tokens the gateway client
// attaches to every request. Tokens are HMAC-signed with a shared secret;
// there is no password flow, identity provisioning happens at login.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Mint issues a signed token for the given identity.
func (m *TokenManager) Mint(user session.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email:    user.Email,
		UserType: user.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies the signature and expiry and returns the claims.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, internal.NewUnauthorizedError("invalid or expired token", internal.ErrCodeInvalidToken).WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, internal.NewUnauthorizedError("invalid or expired token", internal.ErrCodeInvalidToken)
	}

	return claims, nil
}
