package realtime

import "encoding/json"

// PresenceStatus is the aggregate liveness of a user across all their connections.
type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceOffline PresenceStatus = "offline"
)

// PresenceEvent is the wire frame announcing a presence transition to a room.
type PresenceEvent struct {
	Type   string         `json:"type"`
	UserID string         `json:"user_id"`
	Status PresenceStatus `json:"status"`
}

// Broadcaster emits presence transitions to conversation rooms.
//
// Presence reflects aggregate liveness, not per-socket liveness: emission is
// gated on the registry's first/last transition flags so multi-tab connects and
// disconnects never cause flicker. The acting user is always excluded from the
// audience.
type Broadcaster struct {
	router *Router
}

// NewBroadcaster constructs a Broadcaster over the given router.
func NewBroadcaster(router *Router) *Broadcaster {
	return &Broadcaster{router: router}
}

// OnConnect announces the user as online to roomIDs, but only when this connect
// was the user's first live connection.
func (b *Broadcaster) OnConnect(userID string, isFirst bool, roomIDs []string) {
	if !isFirst {
		return
	}
	b.emit(userID, PresenceOnline, roomIDs)
}

// OnDisconnect announces the user as offline to roomIDs, but only when the user
// has no remaining live connections.
func (b *Broadcaster) OnDisconnect(userID string, isNowOffline bool, roomIDs []string) {
	if !isNowOffline {
		return
	}
	b.emit(userID, PresenceOffline, roomIDs)
}

func (b *Broadcaster) emit(userID string, status PresenceStatus, roomIDs []string) {
	payload, err := json.Marshal(PresenceEvent{Type: "presence", UserID: userID, Status: status})
	if err != nil {
		return
	}
	for _, roomID := range roomIDs {
		b.router.Broadcast(roomID, payload, userID)
	}
}
