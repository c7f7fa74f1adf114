package services

import (
	"context"
	"fmt"

	"github.com/joshua-takyi/patinhas/internal/models"
	"github.com/supabase-community/gotrue-go/types"
)

type UserService struct {
	authRepo models.AuthRepo
}

func NewUserService(authRepo models.AuthRepo) *UserService {
	return &UserService{
		authRepo: authRepo,
	}
}

type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"displayName,omitempty"`
}

func (us *UserService) SignUp(ctx context.Context, req *SignUpRequest) (*types.SignupResponse, error) {
	if err := models.Validate.Struct(req); err != nil {
		return nil, &ValidationError{Fields: models.FormatValidationErrors(err)}
	}
	return us.authRepo.SignUp(ctx, req.Email, req.Password, req.DisplayName)
}

func (us *UserService) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("invalid email format: %v", err)
	}
	if err := models.Validate.Var(password, "required"); err != nil {
		return nil, fmt.Errorf("invalid password format: %v", err)
	}
	response, err := us.authRepo.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %v", err)
	}
	return response, nil
}

func (us *UserService) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	response, err := us.authRepo.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %v", err)
	}
	return response, nil
}

func (us *UserService) SignOut(ctx context.Context, accessToken string) error {
	if err := us.authRepo.SignOut(ctx, accessToken); err != nil {
		return fmt.Errorf("sign out failed: %v", err)
	}
	return nil
}
