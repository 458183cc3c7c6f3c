package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domain "github.com/example/chat-app/domain/chat"
)

// newTestServer mimics the server's auth and message routes closely
// enough to exercise the client: JSON bodies, a session cookie on
// login, cookie-gated message routes.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		if req.Password != "secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{
				"error":   "unauthorized",
				"message": "Invalid email or password",
			})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "jwt", Value: "test-token", Path: "/"})
		json.NewEncoder(w).Encode(domain.Profile{ID: "alice-id", Email: req.Email, FullName: "Alice"})
	})

	requireSession := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("jwt")
			if err != nil || cookie.Value != "test-token" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{
					"error":   "unauthorized",
					"message": "No token provided",
				})
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("GET /api/messages/users", requireSession(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]domain.Profile{{ID: "bob-id", FullName: "Bob"}})
	}))

	mux.HandleFunc("GET /api/messages/{id}", requireSession(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]domain.Message{
			{ID: "m1", SenderID: "bob-id", ReceiverID: "alice-id", Text: "hi"},
		})
	}))

	mux.HandleFunc("POST /api/messages/send/{id}", requireSession(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text  string `json:"text"`
			Image string `json:"image"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Message{
			ID:         "m2",
			SenderID:   "alice-id",
			ReceiverID: r.PathValue("id"),
			Text:       req.Text,
		})
	}))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient_LoginEstablishesSession(t *testing.T) {
	server := newTestServer(t)
	c := New(server.URL)
	ctx := context.Background()

	// Before login the gated routes reject us.
	_, err := c.Users(ctx)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("Users() before login error = %v, want 401 APIError", err)
	}

	profile, err := c.Login(ctx, "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if profile.ID != "alice-id" {
		t.Errorf("profile.ID = %q, want alice-id", profile.ID)
	}

	// The cookie jar now carries the session.
	users, err := c.Users(ctx)
	if err != nil {
		t.Fatalf("Users() after login error = %v", err)
	}
	if len(users) != 1 || users[0].FullName != "Bob" {
		t.Errorf("Users() = %v, want [Bob]", users)
	}
}

func TestClient_LoginFailure(t *testing.T) {
	server := newTestServer(t)
	c := New(server.URL)

	_, err := c.Login(context.Background(), "alice@example.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login() error = %v, want APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want 401", apiErr.Status)
	}
	if apiErr.Message != "Invalid email or password" {
		t.Errorf("Message = %q, want server message", apiErr.Message)
	}
}

func TestClient_MessagesAndSend(t *testing.T) {
	server := newTestServer(t)
	c := New(server.URL)
	ctx := context.Background()

	if _, err := c.Login(ctx, "alice@example.com", "secret123"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	history, err := c.Messages(ctx, "bob-id")
	if err != nil {
		t.Fatalf("Messages() error = %v", err)
	}
	if len(history) != 1 || history[0].ID != "m1" {
		t.Errorf("Messages() = %v, want [m1]", history)
	}

	sent, err := c.Send(ctx, "bob-id", "hello bob", "")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if sent.ID != "m2" || sent.ReceiverID != "bob-id" {
		t.Errorf("Send() = %+v, want server-assigned copy", sent)
	}
}

func TestClient_Timeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(slow.Close)

	c := New(slow.URL)
	c.http.Timeout = 20 * time.Millisecond

	_, err := c.Users(context.Background())
	if err == nil {
		t.Fatal("Users() error = nil, want timeout")
	}
	if !IsTimeout(err) {
		t.Errorf("IsTimeout() = false for %v", err)
	}
}
