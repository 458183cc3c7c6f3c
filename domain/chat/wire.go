package chat

import "encoding/json"

// Event names pushed over the websocket channel. These two events are the
// whole realtime contract: the online-id set goes to every connection on
// presence churn, newMessage goes to exactly the recipient.
const (
	EventNewMessage  = "newMessage"
	EventOnlineUsers = "getOnlineUsers"
)

// WireEvent is the envelope for server-to-client pushes.
type WireEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// NewWireEvent marshals payload into a WireEvent.
func NewWireEvent(event string, payload any) (WireEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return WireEvent{}, err
	}
	return WireEvent{Event: event, Data: data}, nil
}
