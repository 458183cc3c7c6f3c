package presence

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	domain "github.com/example/chat-app/domain/chat"
	"github.com/example/chat-app/events"
)

// PresenceModule owns the websocket hub and pushes persisted messages to
// their recipient's live connection.
type PresenceModule struct {
	hub *Hub
}

// Compile-time interface checks.
var _ mono.Module = (*PresenceModule)(nil)
var _ mono.EventConsumerModule = (*PresenceModule)(nil)
var _ mono.HealthCheckableModule = (*PresenceModule)(nil)

// NewModule creates a new PresenceModule.
func NewModule() *PresenceModule {
	return &PresenceModule{
		hub: NewHub(),
	}
}

// Name returns the module name.
func (m *PresenceModule) Name() string {
	return "presence"
}

// Start initializes the module.
func (m *PresenceModule) Start(_ context.Context) error {
	log.Println("[presence] Module started")
	return nil
}

// Stop closes all live connections.
func (m *PresenceModule) Stop(_ context.Context) error {
	count := m.hub.ClientCount()
	m.hub.CloseAll()
	log.Printf("[presence] Module stopped - %d clients were connected", count)
	return nil
}

// Health returns the health status.
func (m *PresenceModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
			"online_users":      len(m.hub.OnlineUserIDs()),
		},
	}
}

// RegisterEventConsumers registers event handlers.
func (m *PresenceModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.MessageCreatedV1, m.handleMessageCreated, m,
	); err != nil {
		return fmt.Errorf("failed to register MessageCreated consumer: %w", err)
	}
	log.Println("[presence] Registered event consumers: MessageCreated")
	return nil
}

// handleMessageCreated pushes a persisted message to the recipient if
// online. Best-effort: the message is durable, so a missed push only
// means the recipient sees it on their next history fetch.
func (m *PresenceModule) handleMessageCreated(_ context.Context, event events.MessageCreatedEvent, _ *mono.Msg) error {
	delivered := m.hub.SendToUser(event.Message.ReceiverID, domain.EventNewMessage, event.Message)
	if delivered {
		log.Printf("[presence] Pushed message %s to user %s", event.Message.ID, event.Message.ReceiverID)
	}
	return nil
}

// GetHub returns the websocket hub for the API module to use.
func (m *PresenceModule) GetHub() *Hub {
	return m.hub
}
