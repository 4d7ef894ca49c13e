package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/support-portal/internal/domain"
)

func signToken(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestParseTokenRoundTrip(t *testing.T) {
	verifier := NewTokenVerifier("test-secret")
	token := signToken(t, "test-secret", &Claims{
		UserID: 7,
		Email:  "ap@example.com",
		Role:   RoleStaff,
		Region: "asia-pacific",
	})

	claims, err := verifier.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 7 || claims.Role != RoleStaff || claims.Region != "asia-pacific" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	verifier := NewTokenVerifier("test-secret")
	token := signToken(t, "other-secret", &Claims{UserID: 7, Role: RoleAdmin})

	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("token signed with a different secret must be rejected")
	}
}

func TestActorFromClaims(t *testing.T) {
	cases := []struct {
		name   string
		claims Claims
		check  func(t *testing.T, actor domain.Actor)
	}{
		{
			"admin",
			Claims{UserID: 1, Email: "root@example.com", Role: RoleAdmin},
			func(t *testing.T, actor domain.Actor) {
				if _, ok := actor.(domain.Admin); !ok {
					t.Errorf("actor = %T, want Admin", actor)
				}
			},
		},
		{
			"staff with region",
			Claims{UserID: 2, Email: "ap@example.com", Role: RoleStaff, Region: "asia-pacific"},
			func(t *testing.T, actor domain.Actor) {
				staff, ok := actor.(domain.Staff)
				if !ok || staff.Region != "asia-pacific" {
					t.Errorf("actor = %#v", actor)
				}
			},
		},
		{
			"legacy customer without region",
			Claims{UserID: 3, Email: "legacy@example.com", Role: RoleCustomer},
			func(t *testing.T, actor domain.Actor) {
				customer, ok := actor.(domain.Customer)
				if !ok || customer.Region != "" {
					t.Errorf("actor = %#v", actor)
				}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actor, err := ActorFromClaims(&tc.claims)
			if err != nil {
				t.Fatalf("ActorFromClaims: %v", err)
			}
			tc.check(t, actor)
		})
	}

	if _, err := ActorFromClaims(&Claims{Role: "robot"}); err == nil {
		t.Error("unknown role must be rejected")
	}
}
