package rest

import (
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/office_hours/internal/model"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrTokenInvalid = errors.New("invalid or expired token")

// Claims carry the caller identity. The handlers trust them once the
// signature checks out.
type Claims struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwtv5.RegisteredClaims
}

// Identity is the verified caller attached to the request context.
type Identity struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  model.Role
}

// TokenManager signs and verifies HS256 tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Issue(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (m *TokenManager) Parse(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwtv5.ParseWithClaims(tokenString, claims, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	return &Identity{
		ID:    id,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  model.Role(claims.Role),
	}, nil
}
