package files

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// FilesPort is the interface other modules use to reach the blob store.
type FilesPort interface {
	UploadImage(ctx context.Context, data []byte, contentType string, maxBytes int64) (*UploadImageResponse, error)
	GetImage(ctx context.Context, name string) (*GetImageResponse, error)
}

// filesAdapter wraps ServiceContainer for type-safe cross-module calls.
type filesAdapter struct {
	container mono.ServiceContainer
}

// NewFilesAdapter creates a new adapter for files services.
func NewFilesAdapter(container mono.ServiceContainer) FilesPort {
	if container == nil {
		panic("files adapter requires non-nil ServiceContainer")
	}
	return &filesAdapter{container: container}
}

// UploadImage stores an image via the upload-image service.
func (a *filesAdapter) UploadImage(ctx context.Context, data []byte, contentType string, maxBytes int64) (*UploadImageResponse, error) {
	req := UploadImageRequest{
		Data:        data,
		ContentType: contentType,
		MaxBytes:    maxBytes,
	}
	var resp UploadImageResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"upload-image",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("upload-image service call failed: %w", err)
	}
	return &resp, nil
}

// GetImage retrieves a stored image via the get-image service.
func (a *filesAdapter) GetImage(ctx context.Context, name string) (*GetImageResponse, error) {
	req := GetImageRequest{Name: name}
	var resp GetImageResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-image",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-image service call failed: %w", err)
	}
	return &resp, nil
}
