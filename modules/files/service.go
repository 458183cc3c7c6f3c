package files

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is where the API module serves stored images from.
const URLPrefix = "/api/files/"

var (
	// ErrEmptyImage is returned when the payload has no bytes.
	ErrEmptyImage = errors.New("image data is required")
	// ErrImageTooLarge is returned when the payload exceeds the caller's bound.
	ErrImageTooLarge = errors.New("image size exceeds limit")
	// ErrNotAnImage is returned when the payload is not image content.
	ErrNotAnImage = errors.New("payload is not an image")
	// ErrObjectNotFound is returned when the named object does not exist.
	ErrObjectNotFound = errors.New("object not found")
)

// DecodeImagePayload decodes an inline image payload: either a data URI
// ("data:image/png;base64,....") or bare base64. It returns the raw bytes
// and the declared or sniffed content type.
func DecodeImagePayload(payload string) ([]byte, string, error) {
	contentType := ""
	if strings.HasPrefix(payload, "data:") {
		meta, rest, ok := strings.Cut(payload[len("data:"):], ",")
		if !ok {
			return nil, "", errors.New("malformed data URI")
		}
		contentType = strings.TrimSuffix(meta, ";base64")
		payload = rest
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 payload: %w", err)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// ImageService stores images in the object store and hands back durable
// retrieval URLs.
type ImageService struct {
	store ObjectStore
}

// NewImageService creates a new ImageService.
func NewImageService(store ObjectStore) *ImageService {
	return &ImageService{
		store: store,
	}
}

// Upload validates and stores an image, returning its retrieval URL.
// maxBytes is the caller's size bound; zero means no bound.
func (s *ImageService) Upload(ctx context.Context, data []byte, contentType string, maxBytes int64) (*UploadImageResponse, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ErrImageTooLarge
	}

	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}

	name := uuid.New().String() + extensionFor(contentType)
	info, err := s.store.Put(ctx, name, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	return &UploadImageResponse{
		Name:        info.Name,
		URL:         URLPrefix + info.Name,
		Size:        int64(info.Size),
		ContentType: info.ContentType,
	}, nil
}

// Get retrieves a stored image by name.
func (s *ImageService) Get(ctx context.Context, name string) (*GetImageResponse, error) {
	data, info, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, name)
	}
	return &GetImageResponse{
		Data:        data,
		ContentType: info.ContentType,
	}, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
