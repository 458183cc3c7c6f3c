package message

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	domain "github.com/example/chat-app/domain/chat"
)

// MessagePort is the interface the API module uses to reach the delivery
// service.
type MessagePort interface {
	Send(ctx context.Context, senderID, receiverID, text, image string) (*domain.Message, error)
	Conversation(ctx context.Context, userID, otherID string) ([]domain.Message, error)
}

// MessageAdapter implements MessagePort using the service container.
type MessageAdapter struct {
	container mono.ServiceContainer
}

// NewMessageAdapter creates a new MessageAdapter.
func NewMessageAdapter(container mono.ServiceContainer) *MessageAdapter {
	if container == nil {
		panic("message adapter requires non-nil ServiceContainer")
	}
	return &MessageAdapter{
		container: container,
	}
}

// Send delivers a message via the send-message service.
func (a *MessageAdapter) Send(ctx context.Context, senderID, receiverID, text, image string) (*domain.Message, error) {
	req := SendMessageRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Image:      image,
	}
	var resp SendMessageResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"send-message",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("send-message failed: %w", err)
	}
	return &resp.Message, nil
}

// Conversation fetches the ordered pair history via the list-messages service.
func (a *MessageAdapter) Conversation(ctx context.Context, userID, otherID string) ([]domain.Message, error) {
	req := ListMessagesRequest{UserID: userID, OtherID: otherID}
	var resp ListMessagesResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-messages",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-messages failed: %w", err)
	}
	return resp.Messages, nil
}
