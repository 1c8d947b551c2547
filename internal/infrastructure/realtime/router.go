package realtime

import (
	"sync"
)

// Router coordinates live connections and logical rooms (conversations).
// User liveness is delegated to the Registry so a user may keep several
// connections open at once; rooms fan out to every attached connection of
// every member.
type Router struct {
	registry *Registry

	mu        sync.RWMutex
	sessions  map[string]Conn            // connID -> connection
	rooms     map[string]map[string]Conn // conversationID -> connID -> connection
	connRooms map[string]map[string]struct{}
}

// NewRouter constructs a Router backed by the given registry.
func NewRouter(registry *Registry) *Router {
	return &Router{
		registry:  registry,
		sessions:  make(map[string]Conn),
		rooms:     make(map[string]map[string]Conn),
		connRooms: make(map[string]map[string]struct{}),
	}
}

// Registry exposes the backing connection registry.
func (r *Router) Registry() *Registry { return r.registry }

// Attach tracks a new connection and registers it with the registry.
// It reports whether this is the user's first live connection; the caller is
// responsible for the matching presence broadcast.
func (r *Router) Attach(conn Conn) (isFirst bool) {
	r.mu.Lock()
	r.sessions[conn.ConnID()] = conn
	r.connRooms[conn.ConnID()] = make(map[string]struct{})
	r.mu.Unlock()

	return r.registry.Register(conn)
}

// Detach removes a connection from all rooms and from the registry.
// It reports whether the user is now offline.
func (r *Router) Detach(conn Conn) (isNowOffline bool) {
	r.mu.Lock()
	if _, tracked := r.sessions[conn.ConnID()]; tracked {
		delete(r.sessions, conn.ConnID())
		for roomID := range r.connRooms[conn.ConnID()] {
			r.leaveLocked(roomID, conn.ConnID())
		}
		delete(r.connRooms, conn.ConnID())
	}
	r.mu.Unlock()

	return r.registry.Unregister(conn)
}

// Join adds the connection to the conversation room.
func (r *Router) Join(conversationID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[conn.ConnID()]; !ok {
		return
	}

	room := r.rooms[conversationID]
	if room == nil {
		room = make(map[string]Conn)
		r.rooms[conversationID] = room
	}
	room[conn.ConnID()] = conn

	memberships := r.connRooms[conn.ConnID()]
	if memberships == nil {
		memberships = make(map[string]struct{})
		r.connRooms[conn.ConnID()] = memberships
	}
	memberships[conversationID] = struct{}{}
}

// JoinUser adds every live connection of the user to the conversation room.
// Used when a conversation is created while its members are already connected.
func (r *Router) JoinUser(conversationID string, userID string) {
	for _, conn := range r.registry.ConnectionsOf(userID) {
		r.Join(conversationID, conn)
	}
}

// Leave removes the connection from the conversation room.
func (r *Router) Leave(conversationID string, conn Conn) {
	r.mu.Lock()
	r.leaveLocked(conversationID, conn.ConnID())
	r.mu.Unlock()
}

// LeaveUser removes every live connection of the user from the conversation
// room. Used when the user leaves a conversation mid-session.
func (r *Router) LeaveUser(conversationID string, userID string) {
	for _, conn := range r.registry.ConnectionsOf(userID) {
		r.Leave(conversationID, conn)
	}
}

// RoomsOf returns the conversation rooms the connection is currently joined to.
func (r *Router) RoomsOf(conn Conn) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	memberships := r.connRooms[conn.ConnID()]
	roomIDs := make([]string, 0, len(memberships))
	for id := range memberships {
		roomIDs = append(roomIDs, id)
	}
	return roomIDs
}

// Broadcast writes payload to all connections in the conversation room.
// excludeUserID, when non-empty, skips every connection of that user.
// Returns the number of connections the payload was handed to; delivery is
// at-most-once per handle and failed sends are not retried.
func (r *Router) Broadcast(conversationID string, payload []byte, excludeUserID string) int {
	r.mu.RLock()
	room := r.rooms[conversationID]
	conns := make([]Conn, 0, len(room))
	for _, conn := range room {
		if excludeUserID != "" && conn.User() == excludeUserID {
			continue
		}
		conns = append(conns, conn)
	}
	r.mu.RUnlock()

	delivered := 0
	for _, conn := range conns {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// NotifyUser delivers payload to every live connection of the given user.
func (r *Router) NotifyUser(userID string, payload []byte) bool {
	delivered := false
	for _, conn := range r.registry.ConnectionsOf(userID) {
		if err := conn.Send(payload); err == nil {
			delivered = true
		}
	}
	return delivered
}

// Close terminates all tracked connections and clears router state.
func (r *Router) Close() {
	r.mu.Lock()
	conns := make([]Conn, 0, len(r.sessions))
	for _, conn := range r.sessions {
		conns = append(conns, conn)
	}
	r.sessions = make(map[string]Conn)
	r.rooms = make(map[string]map[string]Conn)
	r.connRooms = make(map[string]map[string]struct{})
	r.mu.Unlock()

	for _, conn := range conns {
		r.registry.Unregister(conn)
		conn.Close(1001, "router shutdown")
	}
}

func (r *Router) leaveLocked(conversationID string, connID string) {
	room := r.rooms[conversationID]
	if room == nil {
		return
	}
	delete(room, connID)
	if len(room) == 0 {
		delete(r.rooms, conversationID)
	}
	if memberships, ok := r.connRooms[connID]; ok {
		delete(memberships, conversationID)
	}
}
