package message

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/chat-app/domain/chat"
	"github.com/example/chat-app/events"
	"github.com/example/chat-app/modules/auth"
	"github.com/example/chat-app/modules/files"
)

// MessageModule provides the message delivery service.
type MessageModule struct {
	db        *gorm.DB
	service   *Service
	authPort  auth.AuthPort
	filesPort files.FilesPort
	eventBus  mono.EventBus
	dbPath    string
}

// Compile-time interface checks.
var _ mono.Module = (*MessageModule)(nil)
var _ mono.ServiceProviderModule = (*MessageModule)(nil)
var _ mono.DependentModule = (*MessageModule)(nil)
var _ mono.EventBusAwareModule = (*MessageModule)(nil)
var _ mono.EventEmitterModule = (*MessageModule)(nil)
var _ mono.HealthCheckableModule = (*MessageModule)(nil)

// NewModule creates a new MessageModule.
func NewModule() *MessageModule {
	dbPath := os.Getenv("CHAT_MESSAGES_DB_PATH")
	if dbPath == "" {
		dbPath = "chat_messages.db"
	}
	return &MessageModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *MessageModule) Name() string {
	return "message"
}

// Dependencies returns the list of module dependencies.
func (m *MessageModule) Dependencies() []string {
	return []string{"auth", "files"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *MessageModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authPort = auth.NewAuthAdapter(container)
	case "files":
		m.filesPort = files.NewFilesAdapter(container)
	}
}

// SetEventBus receives the EventBus from the framework.
func (m *MessageModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *MessageModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.MessageCreatedV1.ToBase(),
	}
}

// Start initializes the message module.
func (m *MessageModule) Start(_ context.Context) error {
	if m.authPort == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.filesPort == nil {
		return fmt.Errorf("files dependency not set")
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Message{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewService(NewMessageRepository(db), m.authPort, m.filesPort)
	m.service.SetPublisher(m.publishMessageCreated)

	log.Printf("[message] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *MessageModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[message] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *MessageModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}
	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *MessageModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"send-message",
		json.Unmarshal,
		json.Marshal,
		m.handleSendMessage,
	); err != nil {
		return fmt.Errorf("failed to register send-message service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"list-messages",
		json.Unmarshal,
		json.Marshal,
		m.handleListMessages,
	); err != nil {
		return fmt.Errorf("failed to register list-messages service: %w", err)
	}

	log.Printf("[message] Registered services: send-message, list-messages")
	return nil
}

func (m *MessageModule) handleSendMessage(ctx context.Context, req SendMessageRequest, _ *mono.Msg) (SendMessageResponse, error) {
	msg, err := m.service.Send(ctx, req.SenderID, req.ReceiverID, req.Text, req.Image)
	if err != nil {
		return SendMessageResponse{}, err
	}
	return SendMessageResponse{Message: *msg}, nil
}

func (m *MessageModule) handleListMessages(ctx context.Context, req ListMessagesRequest, _ *mono.Msg) (ListMessagesResponse, error) {
	messages, err := m.service.Conversation(ctx, req.UserID, req.OtherID)
	if err != nil {
		return ListMessagesResponse{}, err
	}
	return ListMessagesResponse{Messages: messages}, nil
}

// publishMessageCreated emits the event consumed by the presence module.
// The message is already durable; a publish failure only costs the live
// push, so it is logged and swallowed.
func (m *MessageModule) publishMessageCreated(msg domain.Message) {
	if m.eventBus == nil {
		return
	}
	event := events.MessageCreatedEvent{Message: msg}
	if err := events.MessageCreatedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[message] Failed to publish MessageCreated event: %v", err)
	}
}
