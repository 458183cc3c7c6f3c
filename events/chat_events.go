package events

import (
	"github.com/go-monolith/mono/pkg/helper"

	domain "github.com/example/chat-app/domain/chat"
)

// MessageCreatedEvent is emitted after a message has been persisted.
// The presence module consumes it to push the message to the recipient's
// live connection; delivery is best-effort and never blocks the sender.
type MessageCreatedEvent struct {
	Message domain.Message `json:"message"`
}

// MessageCreatedV1 is the event definition for persisted messages.
var MessageCreatedV1 = helper.EventDefinition[MessageCreatedEvent](
	"message",
	"MessageCreated",
	"v1",
)
