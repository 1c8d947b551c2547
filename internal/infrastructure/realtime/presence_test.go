package realtime

import (
	"encoding/json"
	"testing"
)

func presenceFrames(t *testing.T, conn *fakeConn) []PresenceEvent {
	t.Helper()
	var events []PresenceEvent
	for _, raw := range conn.received() {
		var ev PresenceEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatalf("bad frame %s: %v", raw, err)
		}
		if ev.Type == "presence" {
			events = append(events, ev)
		}
	}
	return events
}

func TestPresenceGatedOnAggregateTransitions(t *testing.T) {
	router := NewRouter(NewRegistry())
	broadcaster := NewBroadcaster(router)

	bob := newFakeConn("b1", "bob")
	router.Attach(bob)
	router.Join("conv1", bob)

	rooms := []string{"conv1"}

	// alice opens two tabs, closes one, closes the other
	tab1 := newFakeConn("a1", "alice")
	tab2 := newFakeConn("a2", "alice")

	broadcaster.OnConnect("alice", router.Attach(tab1), rooms)
	broadcaster.OnConnect("alice", router.Attach(tab2), rooms)
	broadcaster.OnDisconnect("alice", router.Detach(tab1), rooms)
	broadcaster.OnDisconnect("alice", router.Detach(tab2), rooms)

	events := presenceFrames(t, bob)
	if len(events) != 2 {
		t.Fatalf("expected exactly one online and one offline event, got %d", len(events))
	}
	if events[0].Status != PresenceOnline || events[1].Status != PresenceOffline {
		t.Fatalf("unexpected transition order: %+v", events)
	}
	if events[0].UserID != "alice" {
		t.Fatalf("unexpected acting user %q", events[0].UserID)
	}
}

func TestPresenceExcludesActingUser(t *testing.T) {
	router := NewRouter(NewRegistry())
	broadcaster := NewBroadcaster(router)

	// alice has one tab already in the room when a second device comes online
	first := newFakeConn("a1", "alice")
	router.Attach(first)
	router.Join("conv1", first)

	second := newFakeConn("a2", "alice")
	router.Detach(second) // exercise no-op detach
	broadcaster.OnConnect("alice", router.Attach(second), []string{"conv1"})

	if len(presenceFrames(t, first)) != 0 {
		t.Fatal("a user must never receive their own presence transitions")
	}
}

func TestPresenceEmitsToEveryRoom(t *testing.T) {
	router := NewRouter(NewRegistry())
	broadcaster := NewBroadcaster(router)

	bob := newFakeConn("b1", "bob")
	carol := newFakeConn("c1", "carol")
	router.Attach(bob)
	router.Attach(carol)
	router.Join("conv1", bob)
	router.Join("conv2", carol)

	alice := newFakeConn("a1", "alice")
	broadcaster.OnConnect("alice", router.Attach(alice), []string{"conv1", "conv2"})

	if len(presenceFrames(t, bob)) != 1 {
		t.Fatal("bob should see alice come online")
	}
	if len(presenceFrames(t, carol)) != 1 {
		t.Fatal("carol should see alice come online")
	}
}
