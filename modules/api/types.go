package api

import "time"

// ErrorResponse is the JSON error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SignupRequest is the signup HTTP request body.
type SignupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login HTTP request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the update-profile HTTP request body. ProfilePic
// is an inline image payload (data URI or bare base64).
type UpdateProfileRequest struct {
	ProfilePic string `json:"profilePic"`
}

// SendMessageRequest is the send-message HTTP request body.
type SendMessageRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// MessageResponse is a plain acknowledgment payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	Status      string         `json:"status"`
	Environment string         `json:"environment"`
	Timestamp   time.Time      `json:"timestamp"`
	Details     map[string]any `json:"details,omitempty"`
}
