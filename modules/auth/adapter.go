package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	domain "github.com/example/chat-app/domain/chat"
)

// AuthPort is the interface other modules use to reach the identity layer.
type AuthPort interface {
	Signup(ctx context.Context, fullName, email, password string) (*SessionResponse, error)
	Login(ctx context.Context, email, password string) (*SessionResponse, error)
	ValidateToken(ctx context.Context, token string) (string, error)
	GetUser(ctx context.Context, userID string) (*domain.Profile, error)
	ListUsers(ctx context.Context, excludeID string) ([]domain.Profile, error)
	UpdateProfile(ctx context.Context, userID, image string) (*domain.Profile, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	if container == nil {
		panic("auth adapter requires non-nil ServiceContainer")
	}
	return &AuthAdapter{
		container: container,
	}
}

// Signup creates an account via the signup service.
func (a *AuthAdapter) Signup(ctx context.Context, fullName, email, password string) (*SessionResponse, error) {
	req := SignupRequest{FullName: fullName, Email: email, Password: password}
	var resp SessionResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"signup",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("signup failed: %w", err)
	}
	return &resp, nil
}

// Login authenticates via the login service.
func (a *AuthAdapter) Login(ctx context.Context, email, password string) (*SessionResponse, error) {
	req := LoginRequest{Email: email, Password: password}
	var resp SessionResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"login",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return &resp, nil
}

// ValidateToken validates a session token and returns the bound user id.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (string, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return "", fmt.Errorf("validate-token request failed: %w", err)
	}
	if !resp.Valid {
		return "", fmt.Errorf("token validation failed: %s", resp.Error)
	}
	return resp.UserID, nil
}

// GetUser retrieves a public profile by user id.
func (a *AuthAdapter) GetUser(ctx context.Context, userID string) (*domain.Profile, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-user",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-user request failed: %w", err)
	}
	return &resp.User, nil
}

// ListUsers retrieves the roster, excluding the requesting user.
func (a *AuthAdapter) ListUsers(ctx context.Context, excludeID string) ([]domain.Profile, error) {
	req := ListUsersRequest{ExcludeID: excludeID}
	var resp ListUsersResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-users",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-users request failed: %w", err)
	}
	return resp.Users, nil
}

// UpdateProfile uploads a new profile image and returns the updated profile.
func (a *AuthAdapter) UpdateProfile(ctx context.Context, userID, image string) (*domain.Profile, error) {
	req := UpdateProfileRequest{UserID: userID, Image: image}
	var resp UpdateProfileResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"update-profile",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("update-profile request failed: %w", err)
	}
	return &resp.User, nil
}
