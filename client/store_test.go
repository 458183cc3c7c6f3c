package client

import (
	"fmt"
	"testing"

	domain "github.com/example/chat-app/domain/chat"
)

func msg(id, from, to, text string) domain.Message {
	return domain.Message{ID: id, SenderID: from, ReceiverID: to, Text: text}
}

func TestStore_OpenConversationLoadsHistory(t *testing.T) {
	s := NewStore("alice")

	gen := s.OpenConversation("bob")
	history := []domain.Message{
		msg("m1", "bob", "alice", "hi"),
		msg("m2", "alice", "bob", "hello"),
	}
	if !s.ReplaceMessages(gen, history) {
		t.Fatal("ReplaceMessages() = false for current generation")
	}

	got := s.Messages()
	if len(got) != 2 {
		t.Fatalf("Messages() length = %d, want 2", len(got))
	}
	if got[0].ID != "m1" || got[1].ID != "m2" {
		t.Errorf("Messages() order = [%s, %s], want [m1, m2]", got[0].ID, got[1].ID)
	}
}

func TestStore_StaleFetchDropped(t *testing.T) {
	s := NewStore("alice")

	bobGen := s.OpenConversation("bob")
	carolGen := s.OpenConversation("carol")

	// Bob's slow fetch resolves after carol was selected. It must lose.
	if s.ReplaceMessages(bobGen, []domain.Message{msg("m1", "bob", "alice", "old")}) {
		t.Error("ReplaceMessages() accepted a stale fetch")
	}
	if len(s.Messages()) != 0 {
		t.Errorf("Messages() = %v, want empty", s.Messages())
	}

	// Carol's fetch still lands.
	if !s.ReplaceMessages(carolGen, []domain.Message{msg("m2", "carol", "alice", "new")}) {
		t.Error("ReplaceMessages() rejected the current fetch")
	}
	if got := s.Messages(); len(got) != 1 || got[0].ID != "m2" {
		t.Errorf("Messages() = %v, want [m2]", got)
	}
}

func TestStore_MergePushAppendsToOpenConversation(t *testing.T) {
	s := NewStore("alice")

	gen := s.OpenConversation("bob")
	s.ReplaceMessages(gen, []domain.Message{msg("m1", "bob", "alice", "hi")})

	s.MergePush(msg("m2", "bob", "alice", "still there?"))

	got := s.Messages()
	if len(got) != 2 || got[1].ID != "m2" {
		t.Errorf("Messages() = %v, want m2 appended", got)
	}
	if n := s.UnreadCount("bob"); n != 0 {
		t.Errorf("UnreadCount(bob) = %d, want 0 while conversation open", n)
	}
}

func TestStore_MergePushIsIdempotent(t *testing.T) {
	s := NewStore("alice")

	gen := s.OpenConversation("bob")
	s.ReplaceMessages(gen, []domain.Message{msg("m1", "bob", "alice", "hi")})

	// The same message arrives over the push channel and again via a
	// refetch race. It must appear exactly once.
	s.MergePush(msg("m1", "bob", "alice", "hi"))
	s.MergePush(msg("m2", "bob", "alice", "two"))
	s.MergePush(msg("m2", "bob", "alice", "two"))

	got := s.Messages()
	if len(got) != 2 {
		t.Fatalf("Messages() length = %d, want 2", len(got))
	}
}

func TestStore_MergePushForClosedConversationCounts(t *testing.T) {
	s := NewStore("alice")

	gen := s.OpenConversation("bob")
	s.ReplaceMessages(gen, nil)

	// Carol's message arrives while bob's thread is open.
	s.MergePush(msg("m1", "carol", "alice", "psst"))

	if len(s.Messages()) != 0 {
		t.Error("carol's message leaked into bob's thread")
	}
	if n := s.UnreadCount("carol"); n != 1 {
		t.Errorf("UnreadCount(carol) = %d, want 1", n)
	}
}

func TestStore_MergePushIgnoresUnrelatedTraffic(t *testing.T) {
	s := NewStore("alice")

	s.MergePush(msg("m1", "bob", "carol", "not for alice"))

	if n := s.UnreadCount("bob"); n != 0 {
		t.Errorf("UnreadCount(bob) = %d, want 0", n)
	}
	if n := s.UnreadCount("carol"); n != 0 {
		t.Errorf("UnreadCount(carol) = %d, want 0", n)
	}
}

func TestStore_UnreadCapAndBadge(t *testing.T) {
	tests := []struct {
		pushes    int
		wantCount int
		wantBadge string
	}{
		{pushes: 0, wantCount: 0, wantBadge: ""},
		{pushes: 1, wantCount: 1, wantBadge: "1"},
		{pushes: 4, wantCount: 4, wantBadge: "4"},
		{pushes: 5, wantCount: 4, wantBadge: "4+"},
		{pushes: 50, wantCount: 4, wantBadge: "4+"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d pushes", tt.pushes), func(t *testing.T) {
			s := NewStore("alice")
			for i := 0; i < tt.pushes; i++ {
				s.MergePush(msg(fmt.Sprintf("m%d", i), "bob", "alice", "hey"))
			}
			if n := s.UnreadCount("bob"); n != tt.wantCount {
				t.Errorf("UnreadCount() = %d, want %d", n, tt.wantCount)
			}
			if b := s.Badge("bob"); b != tt.wantBadge {
				t.Errorf("Badge() = %q, want %q", b, tt.wantBadge)
			}
		})
	}
}

func TestStore_OpenConversationResetsUnread(t *testing.T) {
	s := NewStore("alice")

	for i := 0; i < 7; i++ {
		s.MergePush(msg(fmt.Sprintf("m%d", i), "bob", "alice", "hey"))
	}
	if s.Badge("bob") != "4+" {
		t.Fatalf("Badge(bob) = %q, want 4+", s.Badge("bob"))
	}

	s.OpenConversation("bob")

	if n := s.UnreadCount("bob"); n != 0 {
		t.Errorf("UnreadCount(bob) after open = %d, want 0", n)
	}
	if b := s.Badge("bob"); b != "" {
		t.Errorf("Badge(bob) after open = %q, want empty", b)
	}
}

func TestStore_AppendSentDedupesAgainstPush(t *testing.T) {
	s := NewStore("alice")

	gen := s.OpenConversation("bob")
	s.ReplaceMessages(gen, nil)

	sent := msg("m1", "alice", "bob", "hi")
	s.AppendSent(sent)
	// The server also pushes the sender's own message in some topologies;
	// the list must not double up.
	s.MergePush(sent)

	if got := s.Messages(); len(got) != 1 {
		t.Errorf("Messages() length = %d, want 1", len(got))
	}
}

func TestStore_OnlineSetReplacement(t *testing.T) {
	s := NewStore("alice")

	s.SetOnline([]string{"bob", "carol"})
	if !s.IsOnline("bob") || !s.IsOnline("carol") {
		t.Error("IsOnline() missing ids after SetOnline")
	}

	// The next broadcast replaces the set wholesale.
	s.SetOnline([]string{"carol"})
	if s.IsOnline("bob") {
		t.Error("IsOnline(bob) = true after bob left the set")
	}
	if !s.IsOnline("carol") {
		t.Error("IsOnline(carol) = false, want true")
	}
}

func TestStore_CloseConversationClearsView(t *testing.T) {
	s := NewStore("alice")

	gen := s.OpenConversation("bob")
	s.ReplaceMessages(gen, []domain.Message{msg("m1", "bob", "alice", "hi")})

	s.CloseConversation()

	if s.OpenUserID() != "" {
		t.Errorf("OpenUserID() = %q, want empty", s.OpenUserID())
	}
	if len(s.Messages()) != 0 {
		t.Error("Messages() not cleared after close")
	}
	// With no open conversation, bob's pushes count as unread again.
	s.MergePush(msg("m2", "bob", "alice", "hello?"))
	if n := s.UnreadCount("bob"); n != 1 {
		t.Errorf("UnreadCount(bob) = %d, want 1", n)
	}
	// And the stale fetch for the closed thread is rejected.
	if s.ReplaceMessages(gen, []domain.Message{msg("m3", "bob", "alice", "late")}) {
		t.Error("ReplaceMessages() accepted a fetch for a closed conversation")
	}
}
