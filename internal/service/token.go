package service

import (
	"errors"
	"time"

	"powermed-api/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: malformed token, bad
// signature, wrong algorithm, expiry. Callers must not distinguish between
// them; clients only ever see a generic 401.
var ErrInvalidToken = errors.New("invalid token")

// TokenClaims are the JWT claims carried by issued tokens. Subject holds
// the account identifier; Kind tags the identity source.
type TokenClaims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies bearer tokens with a single shared
// secret. Tokens are stateless: revocation before expiry is impossible and
// logout is purely client-side.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a TokenIssuer with the given secret and expiry in
// days.
func NewTokenIssuer(secret string, expiryDays int) *TokenIssuer {
	if expiryDays <= 0 {
		expiryDays = 30
	}
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    time.Duration(expiryDays) * 24 * time.Hour,
	}
}

// Issue signs a token carrying the account identifier and identity kind.
func (i *TokenIssuer) Issue(id uuid.UUID, kind domain.PrincipalKind) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		Kind: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify checks signature and expiry and returns the identity the token
// carries. Any violation yields ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString string) (uuid.UUID, domain.PrincipalKind, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return uuid.Nil, "", ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}

	kind := domain.PrincipalKind(claims.Kind)
	if kind == "" {
		kind = domain.PrincipalAdminAccount
	}

	return id, kind, nil
}
