package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Innovatio-dev/tof-checkout/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

func newTokenService(secret string, hours int) *OrderTokenService {
	return NewOrderTokenService(config.TokenConfig{Secret: secret, ExpireHours: hours})
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := newTokenService("unit-test-signing-secret-0123456789", 72)

	token, expiresAt, err := svc.Issue([]int64{101, 102, 103}, " Buyer@Example.com ")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if token == "" {
		t.Fatalf("empty token")
	}
	if expiresAt.IsZero() {
		t.Fatalf("zero expiry")
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if len(claims.OrderIDs) != 3 || claims.OrderIDs[0] != 101 {
		t.Fatalf("order ids = %v", claims.OrderIDs)
	}
	if claims.Email != "buyer@example.com" {
		t.Fatalf("email = %q, want trimmed and lowercased", claims.Email)
	}
}

func TestIssueRejectsEmptyOrderSet(t *testing.T) {
	svc := newTokenService("unit-test-signing-secret-0123456789", 72)

	if _, _, err := svc.Issue(nil, "buyer@example.com"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	secret := "unit-test-signing-secret-0123456789"
	svc := newTokenService(secret, 72)

	claims := OrderTokenClaims{
		OrderIDs: []int64{1},
		Email:    "buyer@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuing := newTokenService("unit-test-signing-secret-0123456789", 72)
	token, _, err := issuing.Issue([]int64{1}, "buyer@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	other := newTokenService("another-signing-secret-9876543210abcd", 72)
	if _, err := other.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	svc := newTokenService("unit-test-signing-secret-0123456789", 72)

	if _, err := svc.Verify("not.a.jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
	if _, err := svc.Verify(""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("empty: err = %v, want ErrTokenInvalid", err)
	}
}

func TestAuthorizeCoverage(t *testing.T) {
	svc := newTokenService("unit-test-signing-secret-0123456789", 72)

	token, _, err := svc.Issue([]int64{101, 102}, "buyer@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := svc.Authorize(token, 102); err != nil {
		t.Fatalf("Authorize(covered) error: %v", err)
	}
	if _, err := svc.Authorize(token, 999); !errors.Is(err, ErrTokenForbidden) {
		t.Fatalf("Authorize(uncovered): err = %v, want ErrTokenForbidden", err)
	}
}
