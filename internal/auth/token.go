package auth

import (
	"errors"
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/support-portal/internal/domain"
)

// Role values carried in token claims.
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// Claims describes the JWT payload minted by the portal's session
// service. This service only verifies tokens, it never issues them.
type Claims struct {
	UserID int    `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Region string `json:"region,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier validates bearer tokens against the shared secret.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier builds a verifier.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// ParseToken validates the token and returns its claims.
func (tv *TokenVerifier) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tv.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ActorFromClaims maps verified claims onto the actor variant for their
// role.
func ActorFromClaims(claims *Claims) (domain.Actor, error) {
	switch claims.Role {
	case RoleAdmin:
		return domain.Admin{ID: claims.UserID, Email: claims.Email}, nil
	case RoleStaff:
		return domain.Staff{ID: claims.UserID, Email: claims.Email, Region: domain.Region(claims.Region)}, nil
	case RoleCustomer:
		return domain.Customer{ID: claims.UserID, Email: claims.Email, Region: domain.Region(claims.Region)}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", claims.Role)
	}
}
