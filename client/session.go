package client

import (
	"context"
	"fmt"

	domain "github.com/example/chat-app/domain/chat"
)

// Session ties the REST client, the push socket and the Store together
// for one logged-in user.
type Session struct {
	Client *Client
	Store  *Store
	Socket *Socket

	self domain.Profile
}

// Login authenticates against the server, connects the push socket and
// returns a ready Session.
func Login(ctx context.Context, baseURL, email, password string) (*Session, error) {
	c := New(baseURL)
	profile, err := c.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return newSession(c, *profile)
}

// Signup creates an account, connects the push socket and returns a
// ready Session.
func Signup(ctx context.Context, baseURL, fullName, email, password string) (*Session, error) {
	c := New(baseURL)
	profile, err := c.Signup(ctx, fullName, email, password)
	if err != nil {
		return nil, err
	}
	return newSession(c, *profile)
}

func newSession(c *Client, profile domain.Profile) (*Session, error) {
	store := NewStore(profile.ID)
	socket, err := Dial(c.BaseURL(), profile.ID, store)
	if err != nil {
		return nil, fmt.Errorf("connect push channel: %w", err)
	}
	return &Session{
		Client: c,
		Store:  store,
		Socket: socket,
		self:   profile,
	}, nil
}

// Self returns the logged-in user's profile.
func (s *Session) Self() domain.Profile {
	return s.self
}

// RefreshUsers fetches the roster and installs it in the store.
func (s *Session) RefreshUsers(ctx context.Context) error {
	users, err := s.Client.Users(ctx)
	if err != nil {
		return err
	}
	s.Store.SetUsers(users)
	return nil
}

// OpenConversation selects a conversation and loads its history. If a
// newer conversation was opened while the fetch was in flight, the
// fetched history is dropped and the newer selection wins.
func (s *Session) OpenConversation(ctx context.Context, userID string) error {
	gen := s.Store.OpenConversation(userID)
	messages, err := s.Client.Messages(ctx, userID)
	if err != nil {
		return err
	}
	s.Store.ReplaceMessages(gen, messages)
	return nil
}

// Send delivers a message to the open conversation partner and appends
// the server-confirmed copy to the store. Nothing is shown before the
// server acknowledges.
func (s *Session) Send(ctx context.Context, text, image string) (*domain.Message, error) {
	receiverID := s.Store.OpenUserID()
	if receiverID == "" {
		return nil, fmt.Errorf("no conversation selected")
	}
	msg, err := s.Client.Send(ctx, receiverID, text, image)
	if err != nil {
		return nil, err
	}
	s.Store.AppendSent(*msg)
	return msg, nil
}

// Close logs out and tears down the push socket.
func (s *Session) Close(ctx context.Context) error {
	if s.Socket != nil {
		_ = s.Socket.Close()
	}
	return s.Client.Logout(ctx)
}
