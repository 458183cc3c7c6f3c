package auth

import (
	domain "github.com/example/chat-app/domain/chat"
)

// SignupRequest is the signup service request.
type SignupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login service request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by signup and login: the public profile plus
// the session token the API layer turns into a cookie.
type SessionResponse struct {
	User  domain.Profile `json:"user"`
	Token string         `json:"token"`
}

// ValidateTokenRequest is the validate-token service request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse is the validate-token service response.
type ValidateTokenResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// GetUserRequest is the get-user service request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUserResponse is the get-user service response.
type GetUserResponse struct {
	User domain.Profile `json:"user"`
}

// ListUsersRequest is the list-users service request. ExcludeID is the
// requesting user, who never appears in their own roster.
type ListUsersRequest struct {
	ExcludeID string `json:"exclude_id"`
}

// ListUsersResponse is the list-users service response.
type ListUsersResponse struct {
	Users []domain.Profile `json:"users"`
}

// UpdateProfileRequest is the update-profile service request. Image is an
// inline payload: a data URI or bare base64.
type UpdateProfileRequest struct {
	UserID string `json:"user_id"`
	Image  string `json:"image"`
}

// UpdateProfileResponse is the update-profile service response.
type UpdateProfileResponse struct {
	User domain.Profile `json:"user"`
}
