package message

import (
	domain "github.com/example/chat-app/domain/chat"
)

// SendMessageRequest is the send-message service request. Image is an
// inline payload (data URI or bare base64); the service uploads it and
// stores the resulting URL.
type SendMessageRequest struct {
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Text       string `json:"text"`
	Image      string `json:"image"`
}

// SendMessageResponse is the send-message service response.
type SendMessageResponse struct {
	Message domain.Message `json:"message"`
}

// ListMessagesRequest is the list-messages service request.
type ListMessagesRequest struct {
	UserID  string `json:"user_id"`
	OtherID string `json:"other_id"`
}

// ListMessagesResponse is the list-messages service response.
type ListMessagesResponse struct {
	Messages []domain.Message `json:"messages"`
}
