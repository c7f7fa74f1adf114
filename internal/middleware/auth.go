package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/patinhas/internal/helpers"
	"github.com/joshua-takyi/patinhas/internal/services"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	RefreshTokenMaxAge = 3600 * 24 * 30
	identityKey        = "user"
)

// CurrentIdentity returns the caller set by AuthMiddleware or OptionalAuth.
func CurrentIdentity(c *gin.Context) *helpers.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*helpers.Identity)
	return identity
}

// SetAuthCookies stores the session tokens as http-only cookies.
func SetAuthCookies(c *gin.Context, accessToken, refreshToken string, expiresIn int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, accessToken, expiresIn, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, refreshToken, RefreshTokenMaxAge, "/", "", secure, true)
}

func ClearAuthCookies(c *gin.Context, secure bool) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", secure, true)
}

func tokenFromRequest(c *gin.Context) (token string, fromCookie bool) {
	if token := helpers.BearerToken(c.GetHeader("Authorization")); token != "" {
		return token, false
	}
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token, true
	}
	return "", false
}

// resolveIdentity validates the request token. Cookie sessions with an
// expired access token are refreshed once through the auth provider.
func resolveIdentity(c *gin.Context, verifier *helpers.TokenVerifier, userService *services.UserService, logger *slog.Logger, secure bool) (*helpers.Identity, error) {
	token, fromCookie := tokenFromRequest(c)
	if token == "" {
		return nil, services.ErrUnauthenticated
	}

	claims, err := verifier.ValidateToken(token)
	if err != nil {
		refreshToken, refreshErr := c.Cookie(RefreshTokenCookie)
		if !fromCookie || refreshErr != nil || userService == nil {
			return nil, err
		}

		refreshed, refreshErr := userService.RefreshToken(c.Request.Context(), refreshToken)
		if refreshErr != nil {
			logger.Error("Token refresh failed", "error", refreshErr)
			return nil, refreshErr
		}
		logger.Info("Token refreshed successfully",
			"user_id", refreshed.User.ID,
			"expires_in", refreshed.ExpiresIn,
		)
		SetAuthCookies(c, refreshed.AccessToken, refreshed.RefreshToken, refreshed.ExpiresIn, secure)

		token = refreshed.AccessToken
		claims, err = verifier.ValidateToken(token)
		if err != nil {
			return nil, err
		}
	}

	return helpers.NewIdentity(claims, token)
}

// AuthMiddleware rejects requests without a valid session.
func AuthMiddleware(verifier *helpers.TokenVerifier, userService *services.UserService, logger *slog.Logger, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := resolveIdentity(c, verifier, userService, logger, secure)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized access",
				"error":   err.Error(),
			})
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets
// anonymous requests through. Expired cookie sessions are refreshed like in
// AuthMiddleware; a token that still fails is treated as anonymous.
func OptionalAuth(verifier *helpers.TokenVerifier, userService *services.UserService, logger *slog.Logger, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.Next()
			return
		}

		identity, err := resolveIdentity(c, verifier, userService, logger, secure)
		if err != nil {
			if !errors.Is(err, services.ErrUnauthenticated) {
				logger.Debug("Ignoring invalid token on public route", "error", err)
			}
			c.Next()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}
