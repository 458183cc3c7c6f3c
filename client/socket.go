package client

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/fasthttp/websocket"

	domain "github.com/example/chat-app/domain/chat"
)

// Socket is the push channel: it dials /ws with the user id in the
// handshake query and feeds incoming events into a Store.
type Socket struct {
	conn  *websocket.Conn
	store *Store

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// Dial connects the websocket for userID against the server at baseURL
// and starts the read loop. Events are applied to store as they arrive.
func Dial(baseURL, userID string, store *Store) (*Socket, error) {
	wsURL, err := websocketURL(baseURL, userID)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket: %w", err)
	}

	s := &Socket{
		conn:  conn,
		store: store,
		done:  make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

// Close tears down the connection. The read loop exits on its own once
// the connection drops.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

// Done is closed when the read loop exits, whether by Close or because
// the server dropped the connection.
func (s *Socket) Done() <-chan struct{} {
	return s.done
}

// readLoop reads wire events until the connection closes. Malformed
// frames and unknown event names are logged and skipped; they must not
// kill the subscription.
func (s *Socket) readLoop() {
	defer close(s.done)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed {
				log.Printf("[client] websocket read: %v", err)
			}
			return
		}
		s.dispatch(data)
	}
}

// dispatch decodes one frame and applies it to the store.
func (s *Socket) dispatch(data []byte) {
	var event domain.WireEvent
	if err := json.Unmarshal(data, &event); err != nil {
		log.Printf("[client] malformed websocket frame: %v", err)
		return
	}

	switch event.Event {
	case domain.EventOnlineUsers:
		var ids []string
		if err := json.Unmarshal(event.Data, &ids); err != nil {
			log.Printf("[client] malformed %s payload: %v", event.Event, err)
			return
		}
		s.store.SetOnline(ids)
	case domain.EventNewMessage:
		var msg domain.Message
		if err := json.Unmarshal(event.Data, &msg); err != nil {
			log.Printf("[client] malformed %s payload: %v", event.Event, err)
			return
		}
		s.store.MergePush(msg)
	default:
		log.Printf("[client] unknown websocket event %q", event.Event)
	}
}

// websocketURL converts an http(s) base URL into the ws(s) endpoint
// with the user id as a query parameter.
func websocketURL(baseURL, userID string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/ws"
	q := u.Query()
	q.Set("userId", userID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
