package runtoken

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerifyToken(t *testing.T) {
	secret := []byte("test-secret")
	tok, err := IssueToken(secret, "ops", 2*time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	claims, err := VerifyToken(secret, tok)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.ExpiresAt == nil {
		t.Fatalf("expected ExpiresAt to be set")
	}
	if time.Until(claims.ExpiresAt.Time) <= 0 {
		t.Fatalf("token already expired")
	}
	if claims.Subject != "ops" || claims.ID == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	tok, err := IssueToken([]byte("one"), "ops", time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := VerifyToken([]byte("two"), tok); !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Fatalf("expected signature error, got %v", err)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	secret := []byte("test-secret")
	past := time.Now().Add(-time.Hour)
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{Audience},
		IssuedAt:  jwt.NewNumericDate(past),
		ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyToken(secret, tok); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestEmptySecret(t *testing.T) {
	if _, err := IssueToken(nil, "ops", time.Minute); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
	if _, err := VerifyToken(nil, "x"); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
}
