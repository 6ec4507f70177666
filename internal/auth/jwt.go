package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/domain"
)

// TokenTTL is how long an admin session token stays valid.
const TokenTTL = 12 * time.Hour

var ErrInvalidToken = errors.New("auth: invalid or expired token")

// Claims carries the team member identity inside the signed token.
type Claims struct {
	MemberID uuid.UUID       `json:"member_id"`
	Email    string          `json:"email"`
	Role     domain.TeamRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies admin API tokens with HS256.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Generate signs a token for the team member.
func (m *TokenManager) Generate(member *domain.TeamMember) (string, error) {
	now := time.Now()
	claims := Claims{
		MemberID: member.ID,
		Email:    member.Email,
		Role:     member.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies the signature and expiry and returns the claims.
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
