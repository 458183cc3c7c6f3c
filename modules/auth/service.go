package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/example/chat-app/domain/chat"
	"github.com/example/chat-app/modules/files"
)

const (
	// MinPasswordLength matches the signup contract.
	MinPasswordLength = 6
	// MaxPasswordLength is bcrypt's 72-byte input limit.
	MaxPasswordLength = 72
	// MaxProfilePicBytes bounds the inline profile image payload.
	MaxProfilePicBytes = 5 * 1024 * 1024
)

var (
	// ErrMissingFields is returned when a required signup field is empty.
	ErrMissingFields = errors.New("all fields are required")
	// ErrInvalidEmail is returned when the email shape is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrWeakPassword is returned when the password is too short.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
	// ErrPasswordTooLong is returned when the password exceeds bcrypt's limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
	// ErrInvalidCredentials is returned for any failed login. Unknown email
	// and wrong password produce this same error so a caller cannot probe
	// which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrProfilePicMissing is returned when the profile update has no image.
	ErrProfilePicMissing = errors.New("profile picture is required")
	// ErrProfilePicTooLarge is returned when the inline image exceeds the bound.
	ErrProfilePicTooLarge = errors.New("file size must be less than 5MB")
	// ErrUploadFailed is returned when the blob store rejects the image.
	ErrUploadFailed = errors.New("failed to upload image")
)

// emailPattern accepts the simple local@domain.tld shape.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service handles signup, login, token verification and profile updates.
type Service struct {
	repo   *UserRepository
	hasher *PasswordHasher
	tokens *TokenManager
	files  files.FilesPort
}

// NewService creates a new auth Service. The files port may be nil until
// the module wiring injects it; UpdateProfilePic fails cleanly in that case.
func NewService(repo *UserRepository, hasher *PasswordHasher, tokens *TokenManager) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
	}
}

// SetFiles injects the blob store port used for profile images.
func (s *Service) SetFiles(port files.FilesPort) {
	s.files = port
}

// Signup creates a new account and issues a session token.
func (s *Service) Signup(_ context.Context, fullName, email, password string) (*domain.User, string, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))

	if fullName == "" || email == "" || password == "" {
		return nil, "", ErrMissingFields
	}
	if len(password) < MinPasswordLength {
		return nil, "", ErrWeakPassword
	}
	if len(password) > MaxPasswordLength {
		return nil, "", ErrPasswordTooLong
	}
	if !emailPattern.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}

	exists, err := s.repo.EmailExists(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, "", ErrEmailExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, "", ErrEmailExists
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(_ context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// ValidateToken verifies a session token and returns its claims.
func (s *Service) ValidateToken(_ context.Context, token string) (*SessionClaims, error) {
	return s.tokens.Validate(token)
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(_ context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(userID)
}

// ListOthers returns the roster of all users except the given one.
func (s *Service) ListOthers(_ context.Context, userID string) ([]domain.User, error) {
	return s.repo.ListOthers(userID)
}

// UpdateProfilePic uploads an inline image payload to the blob store and
// persists the resulting URL on the user.
func (s *Service) UpdateProfilePic(ctx context.Context, userID, image string) (*domain.User, error) {
	if image == "" {
		return nil, ErrProfilePicMissing
	}
	if len(image) > MaxProfilePicBytes {
		return nil, ErrProfilePicTooLarge
	}
	if s.files == nil {
		return nil, ErrUploadFailed
	}

	data, contentType, err := files.DecodeImagePayload(image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	uploaded, err := s.files.UploadImage(ctx, data, contentType, MaxProfilePicBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	user, err := s.repo.UpdateProfilePic(userID, uploaded.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
