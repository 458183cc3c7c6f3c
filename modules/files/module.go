package files

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

const defaultBucket = "chat-images"

// FilesModule provides blob storage for chat and profile images.
type FilesModule struct {
	store   *JetStreamObjectStore
	service *ImageService
	natsURL string
	bucket  string
}

// Compile-time interface checks.
var _ mono.Module = (*FilesModule)(nil)
var _ mono.ServiceProviderModule = (*FilesModule)(nil)
var _ mono.HealthCheckableModule = (*FilesModule)(nil)

// NewModule creates a new FilesModule.
func NewModule() *FilesModule {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}
	bucket := os.Getenv("FILES_BUCKET")
	if bucket == "" {
		bucket = defaultBucket
	}
	return &FilesModule{
		natsURL: natsURL,
		bucket:  bucket,
	}
}

// Name returns the module name.
func (m *FilesModule) Name() string {
	return "files"
}

// Start connects to the object store and initializes the bucket.
func (m *FilesModule) Start(ctx context.Context) error {
	store, err := NewJetStreamObjectStore(m.natsURL, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to create object store: %w", err)
	}
	if err := store.Init(ctx); err != nil {
		store.Close()
		return fmt.Errorf("failed to init object store: %w", err)
	}
	m.store = store
	m.service = NewImageService(store)

	log.Printf("[files] Module started (bucket: %s)", m.bucket)
	return nil
}

// Stop closes the object store connection.
func (m *FilesModule) Stop(_ context.Context) error {
	if m.store != nil {
		m.store.Close()
	}
	log.Println("[files] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *FilesModule) Health(_ context.Context) mono.HealthStatus {
	if m.store == nil || !m.store.IsConnected() {
		return mono.HealthStatus{
			Healthy: false,
			Message: "object store not connected",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"bucket": m.bucket,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *FilesModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"upload-image",
		json.Unmarshal,
		json.Marshal,
		m.handleUploadImage,
	); err != nil {
		return fmt.Errorf("failed to register upload-image service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"get-image",
		json.Unmarshal,
		json.Marshal,
		m.handleGetImage,
	); err != nil {
		return fmt.Errorf("failed to register get-image service: %w", err)
	}

	log.Printf("[files] Registered services: upload-image, get-image")
	return nil
}

func (m *FilesModule) handleUploadImage(ctx context.Context, req UploadImageRequest, _ *mono.Msg) (UploadImageResponse, error) {
	resp, err := m.service.Upload(ctx, req.Data, req.ContentType, req.MaxBytes)
	if err != nil {
		return UploadImageResponse{}, err
	}
	return *resp, nil
}

func (m *FilesModule) handleGetImage(ctx context.Context, req GetImageRequest, _ *mono.Msg) (GetImageResponse, error) {
	resp, err := m.service.Get(ctx, req.Name)
	if err != nil {
		return GetImageResponse{}, err
	}
	return *resp, nil
}
