package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/patinhas/internal/helpers"
	"github.com/joshua-takyi/patinhas/internal/middleware"
	"github.com/joshua-takyi/patinhas/internal/models"
	"github.com/joshua-takyi/patinhas/internal/services"
)

type sessionResponse struct {
	User         interface{} `json:"user"`
	DisplayName  string      `json:"display_name"`
	AccessToken  string      `json:"access_token,omitempty"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	ExpiresIn    int         `json:"expires_in,omitempty"`
}

func SignUp(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.SignUpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		res, err := u.SignUp(c.Request.Context(), &req)
		if err != nil {
			var vErr *services.ValidationError
			if errors.As(err, &vErr) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid sign up", "fields": vErr.Fields})
				return
			}
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(gin.H{"id": res.User.ID, "email": res.User.Email}, "Conta criada"))
	}
}

// Login signs in with email and password. Tokens are set as cookies and
// also returned for clients that send them as bearer tokens.
func Login(u *services.UserService, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "message": "invalid request payload"})
			return
		}

		tokenRes, err := u.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
		if err != nil || tokenRes.AccessToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid email or password"})
			return
		}

		middleware.SetAuthCookies(c, tokenRes.AccessToken, tokenRes.RefreshToken, tokenRes.ExpiresIn, secure)

		c.JSON(http.StatusOK, models.SuccessResponse(sessionResponse{
			User:         tokenRes.User,
			DisplayName:  helpers.DisplayName(tokenRes.User.UserMetadata, tokenRes.User.Email),
			AccessToken:  tokenRes.AccessToken,
			RefreshToken: tokenRes.RefreshToken,
			ExpiresIn:    tokenRes.ExpiresIn,
		}, ""))
	}
}

// Logout revokes the session when a token is present and clears cookies.
func Logout(u *services.UserService, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := helpers.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(middleware.AccessTokenCookie)
		}
		if token != "" {
			if err := u.SignOut(c.Request.Context(), token); err != nil {
				_ = c.Error(err)
			}
		}

		middleware.ClearAuthCookies(c, secure)
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Logged out successfully"))
	}
}

// Me returns the authenticated identity.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := middleware.CurrentIdentity(c)
		if identity == nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(identity, ""))
	}
}
