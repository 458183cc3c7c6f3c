package message

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/example/chat-app/domain/chat"
	"github.com/example/chat-app/modules/auth"
	"github.com/example/chat-app/modules/files"
)

// MaxImageBytes bounds the inline message image payload.
const MaxImageBytes = 10 * 1024 * 1024

var (
	// ErrEmptyMessage is returned when both text and image are empty.
	ErrEmptyMessage = errors.New("message must contain text or image")
	// ErrReceiverRequired is returned when the receiver id is missing.
	ErrReceiverRequired = errors.New("receiver ID is required")
	// ErrInvalidReceiver is returned when the receiver id is malformed.
	ErrInvalidReceiver = errors.New("invalid receiver ID format")
	// ErrReceiverNotFound is returned when the receiver does not exist.
	ErrReceiverNotFound = errors.New("receiver not found")
	// ErrImageTooLarge is returned when the image exceeds MaxImageBytes.
	ErrImageTooLarge = errors.New("image size must be less than 10MB")
	// ErrUploadFailed is returned when the blob store rejects the image.
	ErrUploadFailed = errors.New("failed to upload image")
	// ErrInvalidUserID is returned when a conversation partner id is malformed.
	ErrInvalidUserID = errors.New("invalid user ID")
)

// Service validates, persists and dispatches messages.
type Service struct {
	repo    *MessageRepository
	authSvc auth.AuthPort
	filesP  files.FilesPort
	publish func(domain.Message)
}

// NewService creates a new message Service.
func NewService(repo *MessageRepository, authPort auth.AuthPort, filesPort files.FilesPort) *Service {
	return &Service{
		repo:    repo,
		authSvc: authPort,
		filesP:  filesPort,
	}
}

// SetPublisher sets the callback invoked after a message is persisted.
// The callback must not block: the caller's HTTP response never waits on
// push delivery.
func (s *Service) SetPublisher(publish func(domain.Message)) {
	s.publish = publish
}

// Send validates and persists a message, then hands it to the publisher
// for best-effort realtime delivery. Validation is fail-fast: the first
// failure wins.
func (s *Service) Send(ctx context.Context, senderID, receiverID, text, image string) (*domain.Message, error) {
	if text == "" && image == "" {
		return nil, ErrEmptyMessage
	}
	if receiverID == "" {
		return nil, ErrReceiverRequired
	}
	if _, err := uuid.Parse(receiverID); err != nil {
		return nil, ErrInvalidReceiver
	}

	if _, err := s.authSvc.GetUser(ctx, receiverID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil, ErrReceiverNotFound
		}
		return nil, fmt.Errorf("failed to look up receiver: %w", err)
	}

	imageURL := ""
	if image != "" {
		if len(image) > MaxImageBytes {
			return nil, ErrImageTooLarge
		}
		data, contentType, err := files.DecodeImagePayload(image)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		uploaded, err := s.filesP.UploadImage(ctx, data, contentType, MaxImageBytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		imageURL = uploaded.URL
	}

	msg := &domain.Message{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Image:      imageURL,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.Create(msg); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	if s.publish != nil {
		s.publish(*msg)
	}
	return msg, nil
}

// Conversation returns the ordered message history between two users.
func (s *Service) Conversation(_ context.Context, userID, otherID string) ([]domain.Message, error) {
	if otherID == "" {
		return nil, ErrInvalidUserID
	}
	if _, err := uuid.Parse(otherID); err != nil {
		return nil, ErrInvalidUserID
	}
	messages, err := s.repo.Conversation(userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return messages, nil
}
