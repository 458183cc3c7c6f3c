// Package client is a Go client for the chat service: a thin REST client,
// a websocket subscriber, and a Store that reconciles REST-fetched history
// with pushed events.
package client

import (
	"strconv"
	"sync"

	domain "github.com/example/chat-app/domain/chat"
)

// UnreadCeiling is the display ceiling for unread badges; counts beyond
// it render as "4+".
const UnreadCeiling = 4

// Store holds the client-side conversation state: the message list for
// the open conversation, the roster, the online-user set and per-user
// unread counters. All methods are safe for concurrent use; merges are
// serialized by the internal mutex so a push event and a history fetch
// cannot interleave mid-update.
type Store struct {
	mu       sync.Mutex
	selfID   string
	open     string // user id of the open conversation, "" when idle
	fetchGen uint64 // guards stale history fetches
	messages []domain.Message
	seen     map[string]struct{} // message ids present in messages
	users    []domain.Profile
	online   map[string]struct{}
	unread   map[string]int // saturates at UnreadCeiling+1
}

// NewStore creates a Store for the logged-in user.
func NewStore(selfID string) *Store {
	return &Store{
		selfID: selfID,
		seen:   make(map[string]struct{}),
		online: make(map[string]struct{}),
		unread: make(map[string]int),
	}
}

// SetUsers replaces the roster.
func (s *Store) SetUsers(users []domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append([]domain.Profile(nil), users...)
}

// Users returns a copy of the roster.
func (s *Store) Users() []domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Profile(nil), s.users...)
}

// SetOnline replaces the online-user set.
func (s *Store) SetOnline(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.online[id] = struct{}{}
	}
}

// IsOnline reports whether the user currently has a live connection.
func (s *Store) IsOnline(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.online[userID]
	return ok
}

// OpenConversation selects userID as the open conversation: the unread
// counter resets to zero and a new fetch generation starts. The caller
// fetches history and hands the result to ReplaceMessages with the
// returned generation; a fetch that resolves after a newer selection is
// dropped there.
func (s *Store) OpenConversation(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = userID
	s.fetchGen++
	delete(s.unread, userID)
	s.messages = nil
	s.seen = make(map[string]struct{})
	return s.fetchGen
}

// CloseConversation returns the view to the idle state.
func (s *Store) CloseConversation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = ""
	s.fetchGen++
	s.messages = nil
	s.seen = make(map[string]struct{})
}

// OpenUserID returns the user id of the open conversation, or "".
func (s *Store) OpenUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// ReplaceMessages installs a fetched history wholesale, but only if gen
// still matches the current fetch generation. The fetch result is
// authoritative: pushed messages merged in the interim are discarded
// (they are part of the fetched history anyway).
func (s *Store) ReplaceMessages(gen uint64, messages []domain.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.fetchGen {
		return false
	}
	s.messages = append([]domain.Message(nil), messages...)
	s.seen = make(map[string]struct{}, len(messages))
	for _, m := range messages {
		s.seen[m.ID] = struct{}{}
	}
	return true
}

// Messages returns a copy of the open conversation's message list.
func (s *Store) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message(nil), s.messages...)
}

// MergePush reconciles one pushed message. A message for the open
// conversation is appended unless already present (a message can arrive
// both over the push channel and in a later refetch); anything else
// increments that user's unread counter. Events not involving the
// logged-in user are discarded.
func (s *Store) MergePush(m domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var otherID string
	switch s.selfID {
	case m.ReceiverID:
		otherID = m.SenderID
	case m.SenderID:
		otherID = m.ReceiverID
	default:
		return
	}

	if otherID == s.open && s.open != "" {
		if _, dup := s.seen[m.ID]; dup {
			return
		}
		s.messages = append(s.messages, m)
		s.seen[m.ID] = struct{}{}
		return
	}

	if s.unread[otherID] <= UnreadCeiling {
		s.unread[otherID]++
	}
}

// AppendSent records the server-confirmed copy of a message this client
// just sent. There is no optimistic echo: the list grows only once the
// server response (with its assigned id) is in hand.
func (s *Store) AppendSent(m domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.seen[m.ID]; dup {
		return
	}
	s.messages = append(s.messages, m)
	s.seen[m.ID] = struct{}{}
}

// UnreadCount returns the unread count for a user, capped at the
// display ceiling.
func (s *Store) UnreadCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.unread[userID]
	if n > UnreadCeiling {
		return UnreadCeiling
	}
	return n
}

// Badge renders the unread badge for a user: "" for zero, the count up
// to the ceiling, and "4+" beyond it.
func (s *Store) Badge(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.unread[userID]
	switch {
	case n == 0:
		return ""
	case n > UnreadCeiling:
		return strconv.Itoa(UnreadCeiling) + "+"
	default:
		return strconv.Itoa(n)
	}
}
