package security

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// VerificationTokenManager issues and validates the signed tokens embedded
// in verification emails. Tokens carry the provider id and email and expire
// after the configured TTL; nothing is stored server-side.
type VerificationTokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewVerificationTokenManager builds a new manager.
func NewVerificationTokenManager(secret string, ttl time.Duration) *VerificationTokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &VerificationTokenManager{secret: []byte(secret), ttl: ttl}
}

// VerificationClaims describes the verification token payload.
type VerificationClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Generate builds and signs a verification token for a provider.
func (tm *VerificationTokenManager) Generate(providerID, email string) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.ttl)
	claims := &VerificationClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   providerID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates a verification token and returns its claims.
func (tm *VerificationTokenManager) Parse(tokenStr string) (*VerificationClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &VerificationClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*VerificationClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
