package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	repository "github.com/Hahanic/momo-messenger/internal/pkg/chat/persistence/repository/port"
)

// memConversationRepo is an in-memory ConversationRepository for exercising the
// use cases without a database. Error fields force specific failures.
type memConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*chat.Conversation
	participants  map[string]map[string]*chat.Participant
	pairs         map[string]string
	nextID        int

	failIsParticipant error
	failInsert        error
	failUpdateSummary error
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{
		conversations: make(map[string]*chat.Conversation),
		participants:  make(map[string]map[string]*chat.Participant),
		pairs:         make(map[string]string),
	}
}

func (r *memConversationRepo) newIDLocked() string {
	r.nextID++
	return fmt.Sprintf("conv-%d", r.nextID)
}

func (r *memConversationRepo) addParticipantLocked(convID, userID string, role chat.ParticipantRole) {
	if r.participants[convID] == nil {
		r.participants[convID] = make(map[string]*chat.Participant)
	}
	r.participants[convID][userID] = &chat.Participant{
		ConversationID: convID,
		UserID:         userID,
		Role:           role,
		JoinedAt:       time.Now().UTC(),
	}
}

func (r *memConversationRepo) CreateGroup(_ context.Context, creatorID string, memberIDs []string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsert != nil {
		return "", r.failInsert
	}
	id := r.newIDLocked()
	r.conversations[id] = &chat.Conversation{ID: id, IsGroup: true, CreatedAt: time.Now().UTC()}
	for _, m := range memberIDs {
		role := chat.ParticipantRoleMember
		if m == creatorID {
			role = chat.ParticipantRoleOwner
		}
		r.addParticipantLocked(id, m, role)
	}
	return id, nil
}

func (r *memConversationRepo) GetOrCreatePrivate(_ context.Context, userA, userB string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsert != nil {
		return "", false, r.failInsert
	}
	key := chat.PairKey(userA, userB)
	if id, ok := r.pairs[key]; ok {
		return id, false, nil
	}
	id := r.newIDLocked()
	r.pairs[key] = id
	r.conversations[id] = &chat.Conversation{ID: id, CreatedAt: time.Now().UTC()}
	r.addParticipantLocked(id, userA, chat.ParticipantRoleMember)
	r.addParticipantLocked(id, userB, chat.ParticipantRoleMember)
	return id, true, nil
}

func (r *memConversationRepo) FindByID(_ context.Context, convID string) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[convID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memConversationRepo) IsParticipant(_ context.Context, convID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failIsParticipant != nil {
		return false, r.failIsParticipant
	}
	_, ok := r.participants[convID][userID]
	return ok, nil
}

func (r *memConversationRepo) ListParticipantIDs(_ context.Context, convID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id := range r.participants[convID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memConversationRepo) GetParticipant(_ context.Context, convID, userID string) (*chat.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[convID][userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memConversationRepo) FindConversationIDsByParticipant(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for convID, members := range r.participants {
		if _, ok := members[userID]; ok {
			ids = append(ids, convID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memConversationRepo) ListPrivatePeers(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var peers []string
	for convID, members := range r.participants {
		if r.conversations[convID] == nil || r.conversations[convID].IsGroup {
			continue
		}
		if _, ok := members[userID]; !ok {
			continue
		}
		for id := range members {
			if id != userID {
				peers = append(peers, id)
			}
		}
	}
	sort.Strings(peers)
	return peers, nil
}

func (r *memConversationRepo) ListForUser(_ context.Context, userID string, limit, offset int) ([]chat.ConversationOverview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.ConversationOverview
	for convID, members := range r.participants {
		p, ok := members[userID]
		if !ok {
			continue
		}
		out = append(out, chat.ConversationOverview{Conversation: *r.conversations[convID], Viewer: *p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Conversation.ID < out[j].Conversation.ID })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memConversationRepo) UpdateSummary(_ context.Context, convID string, at time.Time, snippet string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdateSummary != nil {
		return r.failUpdateSummary
	}
	c, ok := r.conversations[convID]
	if !ok {
		return nil
	}
	if c.LastMessageAt != nil && at.Before(*c.LastMessageAt) {
		return nil
	}
	c.LastMessageAt = &at
	c.LastMessageSnippet = &snippet
	return nil
}

func (r *memConversationRepo) AddParticipant(_ context.Context, p chat.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.participants[p.ConversationID] == nil {
		r.participants[p.ConversationID] = make(map[string]*chat.Participant)
	}
	cp := p
	r.participants[p.ConversationID][p.UserID] = &cp
	return nil
}

func (r *memConversationRepo) RemoveParticipant(_ context.Context, convID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.participants[convID], userID)
	return nil
}

func (r *memConversationRepo) UpdateParticipantPrefs(_ context.Context, convID, userID string, prefs chat.ParticipantPrefs) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[convID][userID]
	if !ok {
		return nil
	}
	if prefs.IsMuted != nil {
		p.IsMuted = *prefs.IsMuted
	}
	if prefs.IsSticky != nil {
		p.IsSticky = *prefs.IsSticky
	}
	if prefs.PeerNickname != nil {
		if *prefs.PeerNickname == "" {
			p.PeerNickname = nil
		} else {
			v := *prefs.PeerNickname
			p.PeerNickname = &v
		}
	}
	return nil
}

func (r *memConversationRepo) UpdateParticipantRole(_ context.Context, convID, userID string, role chat.ParticipantRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.participants[convID][userID]; ok {
		p.Role = role
	}
	return nil
}

func (r *memConversationRepo) MarkRead(_ context.Context, convID, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[convID][userID]
	if !ok {
		return nil
	}
	if p.LastReadAt != nil && at.Before(*p.LastReadAt) {
		return nil
	}
	p.LastReadAt = &at
	return nil
}

var _ repository.ConversationRepository = (*memConversationRepo)(nil)

// memMessageRepo stores messages in memory with a ticking logical clock so every
// insert gets a strictly later timestamp.
type memMessageRepo struct {
	mu       sync.Mutex
	messages map[string][]chat.Message
	nextID   int
	clock    time.Time

	failInsert error
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{
		messages: make(map[string][]chat.Message),
		clock:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *memMessageRepo) Insert(_ context.Context, m chat.Message) (string, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsert != nil {
		return "", time.Time{}, r.failInsert
	}
	r.nextID++
	r.clock = r.clock.Add(time.Millisecond)
	m.ID = fmt.Sprintf("msg-%d", r.nextID)
	m.CreatedAt = r.clock
	r.messages[m.ConversationID] = append(r.messages[m.ConversationID], m)
	return m.ID, m.CreatedAt, nil
}

func (r *memMessageRepo) ListByConversation(_ context.Context, convID string, before *time.Time, limit int) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Message
	msgs := r.messages[convID]
	for i := len(msgs) - 1; i >= 0 && len(out) < limit; i-- {
		if before != nil && !msgs[i].CreatedAt.Before(*before) {
			continue
		}
		out = append(out, msgs[i])
	}
	return out, nil
}

func (r *memMessageRepo) CountAfter(_ context.Context, convID string, after *time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, m := range r.messages[convID] {
		if after == nil || m.CreatedAt.After(*after) {
			count++
			if count == repository.UnreadCap {
				break
			}
		}
	}
	return count, nil
}

var _ repository.MessageRepository = (*memMessageRepo)(nil)

// recordingPublisher captures fan-out calls.
type recordingPublisher struct {
	mu       sync.Mutex
	messages []chat.Message
	updates  []string
}

func (p *recordingPublisher) PublishNewMessage(_ string, msg chat.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *recordingPublisher) PublishConversationUpdated(_ string, _ time.Time, snippet string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, snippet)
}

// staticPresence answers membership from a fixed online set.
type staticPresence struct {
	online map[string]bool
}

func (p *staticPresence) OnlineSubset(userIDs []string) []string {
	var out []string
	for _, id := range userIDs {
		if p.online[id] {
			out = append(out, id)
		}
	}
	return out
}

// recordingNotifier captures offline-notify requests.
type recordingNotifier struct {
	mu    sync.Mutex
	calls [][]string
}

func (n *recordingNotifier) NotifyOffline(_ context.Context, _, _, _ string, recipientIDs []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, recipientIDs)
}

// recordingJoiner captures live-socket room subscriptions keyed by room.
type recordingJoiner struct {
	mu     sync.Mutex
	joined map[string][]string
}

func newRecordingJoiner() *recordingJoiner {
	return &recordingJoiner{joined: make(map[string][]string)}
}

func (j *recordingJoiner) JoinUser(conversationID, userID string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.joined[conversationID] = append(j.joined[conversationID], userID)
}

func (j *recordingJoiner) usersIn(conversationID string) []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := append([]string(nil), j.joined[conversationID]...)
	sort.Strings(out)
	return out
}

// memRoomCache is a map-backed RoomCache with invalidation tracking.
type memRoomCache struct {
	mu          sync.Mutex
	rooms       map[string][]string
	invalidated []string
}

func newMemRoomCache() *memRoomCache {
	return &memRoomCache{rooms: make(map[string][]string)}
}

func (c *memRoomCache) GetRooms(_ context.Context, userID string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rooms, ok := c.rooms[userID]
	return rooms, ok
}

func (c *memRoomCache) PutRooms(_ context.Context, userID string, roomIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[userID] = roomIDs
}

func (c *memRoomCache) InvalidateRooms(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, userID)
	c.invalidated = append(c.invalidated, userID)
}
