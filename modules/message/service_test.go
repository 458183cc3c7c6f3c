package message

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/chat-app/domain/chat"
	"github.com/example/chat-app/modules/auth"
	"github.com/example/chat-app/modules/files"
)

// fakeAuthPort knows a fixed set of users.
type fakeAuthPort struct {
	known map[string]domain.Profile
}

func (f *fakeAuthPort) GetUser(_ context.Context, userID string) (*domain.Profile, error) {
	if p, ok := f.known[userID]; ok {
		return &p, nil
	}
	return nil, errors.New("get-user request failed: user not found")
}

func (f *fakeAuthPort) Signup(context.Context, string, string, string) (*auth.SessionResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthPort) Login(context.Context, string, string) (*auth.SessionResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthPort) ValidateToken(context.Context, string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeAuthPort) ListUsers(context.Context, string) ([]domain.Profile, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthPort) UpdateProfile(context.Context, string, string) (*domain.Profile, error) {
	return nil, errors.New("not implemented")
}

// fakeFilesPort returns a fixed URL for every upload.
type fakeFilesPort struct {
	uploads  int
	failWith error
}

func (f *fakeFilesPort) UploadImage(_ context.Context, data []byte, contentType string, _ int64) (*files.UploadImageResponse, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.uploads++
	return &files.UploadImageResponse{
		Name:        "msg-image.png",
		URL:         files.URLPrefix + "msg-image.png",
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

func (f *fakeFilesPort) GetImage(context.Context, string) (*files.GetImageResponse, error) {
	return nil, errors.New("not implemented")
}

func newTestService(t *testing.T, authPort auth.AuthPort, filesPort files.FilesPort) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "messages.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Message{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return NewService(NewMessageRepository(db), authPort, filesPort)
}

func TestService_SendValidationOrder(t *testing.T) {
	sender := uuid.New().String()
	receiver := uuid.New().String()
	authPort := &fakeAuthPort{known: map[string]domain.Profile{
		receiver: {ID: receiver, FullName: "Bob"},
	}}
	svc := newTestService(t, authPort, &fakeFilesPort{})
	ctx := context.Background()

	unknownReceiver := uuid.New().String()

	tests := []struct {
		name       string
		receiverID string
		text       string
		image      string
		wantErr    error
	}{
		{
			name:       "empty message wins over missing receiver",
			receiverID: "",
			text:       "",
			image:      "",
			wantErr:    ErrEmptyMessage,
		},
		{
			name:       "missing receiver",
			receiverID: "",
			text:       "hello",
			wantErr:    ErrReceiverRequired,
		},
		{
			name:       "malformed receiver id",
			receiverID: "not-a-uuid",
			text:       "hello",
			wantErr:    ErrInvalidReceiver,
		},
		{
			name:       "unknown receiver",
			receiverID: unknownReceiver,
			text:       "hello",
			wantErr:    ErrReceiverNotFound,
		},
		{
			name:       "valid text message",
			receiverID: receiver,
			text:       "hello",
			wantErr:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Send(ctx, sender, tt.receiverID, tt.text, tt.image)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Send() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_SendWithImage(t *testing.T) {
	sender := uuid.New().String()
	receiver := uuid.New().String()
	authPort := &fakeAuthPort{known: map[string]domain.Profile{
		receiver: {ID: receiver},
	}}
	filesPort := &fakeFilesPort{}
	svc := newTestService(t, authPort, filesPort)
	ctx := context.Background()

	msg, err := svc.Send(ctx, sender, receiver, "look", "data:image/png;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if msg.Image != files.URLPrefix+"msg-image.png" {
		t.Errorf("msg.Image = %q, want stored URL", msg.Image)
	}
	if filesPort.uploads != 1 {
		t.Errorf("uploads = %d, want 1", filesPort.uploads)
	}

	t.Run("upload failure aborts the send", func(t *testing.T) {
		filesPort.failWith = errors.New("bucket unavailable")
		_, err := svc.Send(ctx, sender, receiver, "", "data:image/png;base64,aGVsbG8=")
		if !errors.Is(err, ErrUploadFailed) {
			t.Errorf("Send() error = %v, want ErrUploadFailed", err)
		}
		// Nothing was persisted.
		history, err := svc.Conversation(ctx, sender, receiver)
		if err != nil {
			t.Fatalf("Conversation() error = %v", err)
		}
		if len(history) != 1 {
			t.Errorf("history length = %d, want only the first message", len(history))
		}
	})
}

func TestService_SendPublishesAfterPersist(t *testing.T) {
	sender := uuid.New().String()
	receiver := uuid.New().String()
	authPort := &fakeAuthPort{known: map[string]domain.Profile{
		receiver: {ID: receiver},
	}}
	svc := newTestService(t, authPort, &fakeFilesPort{})
	ctx := context.Background()

	var published []domain.Message
	svc.SetPublisher(func(m domain.Message) {
		published = append(published, m)
	})

	msg, err := svc.Send(ctx, sender, receiver, "hello", "")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(published) != 1 {
		t.Fatalf("published %d messages, want 1", len(published))
	}
	if published[0].ID != msg.ID {
		t.Errorf("published id = %v, want %v", published[0].ID, msg.ID)
	}
	if published[0].ReceiverID != receiver {
		t.Errorf("published receiver = %v, want %v", published[0].ReceiverID, receiver)
	}
}

func TestService_ConversationRoundTrip(t *testing.T) {
	alice := uuid.New().String()
	bob := uuid.New().String()
	carol := uuid.New().String()
	authPort := &fakeAuthPort{known: map[string]domain.Profile{
		alice: {ID: alice},
		bob:   {ID: bob},
		carol: {ID: carol},
	}}
	svc := newTestService(t, authPort, &fakeFilesPort{})
	ctx := context.Background()

	texts := []struct {
		from, to, text string
	}{
		{alice, bob, "hi bob"},
		{bob, alice, "hi alice"},
		{alice, bob, "how are you"},
		{alice, carol, "unrelated"},
	}
	for _, m := range texts {
		if _, err := svc.Send(ctx, m.from, m.to, m.text, ""); err != nil {
			t.Fatalf("Send(%q) error = %v", m.text, err)
		}
	}

	// Both directions, in order, and the carol thread stays out.
	history, err := svc.Conversation(ctx, alice, bob)
	if err != nil {
		t.Fatalf("Conversation() error = %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	want := []string{"hi bob", "hi alice", "how are you"}
	for i, text := range want {
		if history[i].Text != text {
			t.Errorf("history[%d].Text = %q, want %q", i, history[i].Text, text)
		}
	}

	// Symmetric: either participant sees the same thread.
	mirror, err := svc.Conversation(ctx, bob, alice)
	if err != nil {
		t.Fatalf("Conversation() error = %v", err)
	}
	if len(mirror) != len(history) {
		t.Errorf("mirror length = %d, want %d", len(mirror), len(history))
	}
}

func TestService_ConversationInvalidID(t *testing.T) {
	svc := newTestService(t, &fakeAuthPort{}, &fakeFilesPort{})
	ctx := context.Background()

	tests := []struct {
		name    string
		otherID string
	}{
		{
			name:    "empty id",
			otherID: "",
		},
		{
			name:    "malformed id",
			otherID: "not-a-uuid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Conversation(ctx, uuid.New().String(), tt.otherID)
			if !errors.Is(err, ErrInvalidUserID) {
				t.Errorf("Conversation() error = %v, want ErrInvalidUserID", err)
			}
		})
	}
}
