package realtime

import "sync"

// Registry tracks, per user, the set of live connections. A user is online while
// at least one connection is registered; the first/last transition flags returned
// by Register/Unregister are the sole triggers for presence broadcasts, so they
// are derived inside the critical section rather than recomputed by callers.
type Registry struct {
	mu    sync.RWMutex
	users map[string]map[string]Conn // userID -> connID -> conn
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{users: make(map[string]map[string]Conn)}
}

// Register adds conn to the user's connection set.
// It reports whether this is the user's first live connection.
func (r *Registry) Register(conn Conn) (isFirst bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.users[conn.User()]
	if !ok {
		set = make(map[string]Conn)
		r.users[conn.User()] = set
	}
	isFirst = len(set) == 0
	set[conn.ConnID()] = conn
	return isFirst
}

// Unregister removes conn from the user's connection set.
// It reports whether the user is now offline (set became empty). Removing a
// connection that was never registered reports false.
func (r *Registry) Unregister(conn Conn) (isNowOffline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.users[conn.User()]
	if !ok {
		return false
	}
	if _, tracked := set[conn.ConnID()]; !tracked {
		return false
	}
	delete(set, conn.ConnID())
	if len(set) == 0 {
		delete(r.users, conn.User())
		return true
	}
	return false
}

// IsOnline reports whether the user has at least one live connection.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users[userID]) > 0
}

// OnlineSubset filters userIDs down to those currently online.
func (r *Registry) OnlineSubset(userIDs []string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	online := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if len(r.users[id]) > 0 {
			online = append(online, id)
		}
	}
	return online
}

// ConnectionsOf returns the user's live connections.
func (r *Registry) ConnectionsOf(userID string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]Conn, 0, len(r.users[userID]))
	for _, c := range r.users[userID] {
		conns = append(conns, c)
	}
	return conns
}
