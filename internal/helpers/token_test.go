package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signToken(t *testing.T, secret string, claims *CustomClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func claimsFor(userID uuid.UUID, email string, ttl time.Duration) *CustomClaims {
	return &CustomClaims{
		Role:  "authenticated",
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
}

func TestHMACVerifier(t *testing.T) {
	v := NewHMACVerifier(testSecret)
	userID := uuid.New()

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid", signToken(t, testSecret, claimsFor(userID, "ana@example.com", time.Hour)), false},
		{"expired", signToken(t, testSecret, claimsFor(userID, "ana@example.com", -time.Hour)), true},
		{"wrong secret", signToken(t, "another-secret-another-secret-another", claimsFor(userID, "ana@example.com", time.Hour)), true},
		{"garbage", "not.a.token", true},
		{"no expiry", signToken(t, testSecret, &CustomClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()}}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.ValidateToken(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && claims.Subject != userID.String() {
				t.Errorf("subject = %s", claims.Subject)
			}
		})
	}
}

func TestNewIdentity(t *testing.T) {
	userID := uuid.New()
	claims := claimsFor(userID, "ana.souza@example.com", time.Hour)

	id, err := NewIdentity(claims, "tok")
	if err != nil {
		t.Fatalf("NewIdentity() error = %v", err)
	}
	if id.UserID != userID || id.DisplayName != "ana.souza" || id.AccessToken != "tok" {
		t.Errorf("unexpected identity %+v", id)
	}

	claims.UserMetadata = map[string]interface{}{"display_name": "Ana"}
	id, _ = NewIdentity(claims, "tok")
	if id.DisplayName != "Ana" {
		t.Errorf("display name = %q", id.DisplayName)
	}

	claims.Subject = "not-a-uuid"
	if _, err := NewIdentity(claims, "tok"); err == nil {
		t.Error("expected error for invalid subject")
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":  "abc",
		"bearer  abc": "abc",
		"Basic abc":   "",
		"":            "",
		"Bearer":      "",
	}
	for in, want := range tests {
		if got := BearerToken(in); got != want {
			t.Errorf("BearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}
