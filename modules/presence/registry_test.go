package presence

import (
	"reflect"
	"testing"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Lookup("alice"); ok {
		t.Error("Lookup() on empty registry should miss")
	}

	prev, superseded := r.Register("alice", "conn-1")
	if superseded {
		t.Errorf("first Register() superseded = true (prev %q), want false", prev)
	}

	connID, ok := r.Lookup("alice")
	if !ok || connID != "conn-1" {
		t.Errorf("Lookup() = (%q, %v), want (conn-1, true)", connID, ok)
	}
}

func TestRegistry_LastConnectWins(t *testing.T) {
	r := NewRegistry()

	r.Register("alice", "conn-1")
	prev, superseded := r.Register("alice", "conn-2")
	if !superseded || prev != "conn-1" {
		t.Errorf("Register() = (%q, %v), want (conn-1, true)", prev, superseded)
	}

	connID, _ := r.Lookup("alice")
	if connID != "conn-2" {
		t.Errorf("Lookup() after supersede = %q, want conn-2", connID)
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}
}

func TestRegistry_StaleUnregisterIgnored(t *testing.T) {
	r := NewRegistry()

	r.Register("alice", "conn-1")
	r.Register("alice", "conn-2")

	// The superseded connection disconnects late; the live entry survives.
	if removed := r.Unregister("alice", "conn-1"); removed {
		t.Error("Unregister() with stale conn id should be a no-op")
	}
	if connID, ok := r.Lookup("alice"); !ok || connID != "conn-2" {
		t.Errorf("Lookup() = (%q, %v), want (conn-2, true)", connID, ok)
	}

	if removed := r.Unregister("alice", "conn-2"); !removed {
		t.Error("Unregister() with current conn id should remove the entry")
	}
	if _, ok := r.Lookup("alice"); ok {
		t.Error("Lookup() after unregister should miss")
	}
}

func TestRegistry_OnlineUserIDsSorted(t *testing.T) {
	r := NewRegistry()

	r.Register("carol", "conn-3")
	r.Register("alice", "conn-1")
	r.Register("bob", "conn-2")

	got := r.OnlineUserIDs()
	want := []string{"alice", "bob", "carol"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("OnlineUserIDs() = %v, want %v", got, want)
	}
}
