package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/supabase-community/gotrue-go/types"
)

type AuthRepo interface {
	SignUp(ctx context.Context, email, password, displayName string) (*types.SignupResponse, error)
	SignIn(ctx context.Context, email, password string) (*types.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	SignOut(ctx context.Context, accessToken string) error
}

func (su *SupabaseRepo) SignUp(ctx context.Context, email, password, displayName string) (*types.SignupResponse, error) {
	req := types.SignupRequest{
		Email:    email,
		Password: password,
	}
	if displayName != "" {
		req.Data = map[string]interface{}{"display_name": displayName}
	}

	res, err := su.supabaseClient.Auth.Signup(req)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already registered") {
			return nil, fmt.Errorf("email already in use")
		}
		return nil, fmt.Errorf("failed to create user: %v", err)
	}
	return res, nil
}

func (su *SupabaseRepo) SignIn(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	res, err := su.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (su *SupabaseRepo) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	res, err := su.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (su *SupabaseRepo) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return su.supabaseClient.Auth.WithToken(accessToken).Logout()
}
