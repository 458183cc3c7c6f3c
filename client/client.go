package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	domain "github.com/example/chat-app/domain/chat"
)

// DefaultTimeout bounds every REST call.
const DefaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Client is the REST client. The session cookie issued at signup or
// login is held in an in-memory jar and sent on every subsequent call.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the server at baseURL (e.g.
// "http://localhost:5001").
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: DefaultTimeout,
		},
	}
}

// BaseURL returns the server base URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Signup creates an account and establishes a session.
func (c *Client) Signup(ctx context.Context, fullName, email, password string) (*domain.Profile, error) {
	body := map[string]string{
		"fullName": fullName,
		"email":    email,
		"password": password,
	}
	var profile domain.Profile
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", body, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Login authenticates and establishes a session.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Profile, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var profile domain.Profile
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Check returns the profile for the current session, or an error when
// the session is missing or expired.
func (c *Client) Check(ctx context.Context) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.do(ctx, http.MethodGet, "/api/auth/check", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile uploads a new profile picture. The image is a data URI
// or base64 payload.
func (c *Client) UpdateProfile(ctx context.Context, image string) (*domain.Profile, error) {
	body := map[string]string{"profilePic": image}
	var profile domain.Profile
	if err := c.do(ctx, http.MethodPut, "/api/auth/update-profile", body, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Users returns the roster: every registered user except the caller.
func (c *Client) Users(ctx context.Context) ([]domain.Profile, error) {
	var users []domain.Profile
	if err := c.do(ctx, http.MethodGet, "/api/messages/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Messages returns the conversation history with otherID, oldest first.
func (c *Client) Messages(ctx context.Context, otherID string) ([]domain.Message, error) {
	var messages []domain.Message
	if err := c.do(ctx, http.MethodGet, "/api/messages/"+otherID, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// Send delivers a message to receiverID and returns the stored copy
// with its server-assigned id and timestamp.
func (c *Client) Send(ctx context.Context, receiverID, text, image string) (*domain.Message, error) {
	body := map[string]string{
		"text":  text,
		"image": image,
	}
	var msg domain.Message
	if err := c.do(ctx, http.MethodPost, "/api/messages/send/"+receiverID, body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// do performs one JSON round trip. A non-2xx status decodes into an
// *APIError carrying the server's error payload.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
