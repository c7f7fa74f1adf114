package helpers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type CustomClaims struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// TokenVerifier checks Supabase access tokens, either with the project JWT
// secret (HS256) or against the project JWKS.
type TokenVerifier struct {
	keyfunc jwt.Keyfunc
	jwks    *keyfunc.JWKS
	methods []string
}

// NewHMACVerifier verifies tokens signed with the project JWT secret.
func NewHMACVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{
		keyfunc: func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		methods: []string{jwt.SigningMethodHS256.Alg()},
	}
}

// NewJWKSVerifier loads the project JWKS and keeps it refreshed in the
// background until Close is called.
func NewJWKSVerifier(ctx context.Context, supabaseURL string, logger *slog.Logger) (*TokenVerifier, error) {
	if supabaseURL == "" {
		return nil, errors.New("SUPABASE_URL not set")
	}
	jwksURL := strings.TrimRight(supabaseURL, "/") + "/auth/v1/.well-known/jwks.json"

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Error("Failed to refresh JWKS", "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
	}

	return &TokenVerifier{
		keyfunc: jwks.Keyfunc,
		jwks:    jwks,
		methods: []string{"ES256", "RS256"},
	}, nil
}

func (v *TokenVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// ValidateToken parses and verifies tokenStr. Unverifiable tokens are
// always rejected.
func (v *TokenVerifier) ValidateToken(tokenStr string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, v.keyfunc,
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

// Identity is the authenticated caller, passed explicitly through the
// request context.
type Identity struct {
	UserID      uuid.UUID `json:"id"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Role        string    `json:"role"`
	AccessToken string    `json:"-"`
}

func NewIdentity(claims *CustomClaims, accessToken string) (*Identity, error) {
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %v", err)
	}
	return &Identity{
		UserID:      userID,
		Email:       claims.Email,
		DisplayName: DisplayName(claims.UserMetadata, claims.Email),
		Role:        claims.Role,
		AccessToken: accessToken,
	}, nil
}

// DisplayName prefers the display_name metadata and falls back to the part
// of the email before the @.
func DisplayName(metadata map[string]interface{}, email string) string {
	if name, ok := metadata["display_name"].(string); ok && strings.TrimSpace(name) != "" {
		return name
	}
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
