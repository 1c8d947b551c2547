package chat

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Domain-level errors for chat behaviors
var (
	ErrNotParticipant    = errors.New("chat: user is not a participant in the conversation")
	ErrEmptyMessage      = errors.New("chat: empty message (no content or media)")
	ErrNotFound          = errors.New("chat: conversation not found")
	ErrTooFewMembers     = errors.New("chat: a conversation needs at least two participants")
	ErrPrivatePairSize   = errors.New("chat: a private conversation has exactly two participants")
	ErrNicknameGroupChat = errors.New("chat: peer nicknames apply to private conversations only")
	ErrNotGroupChat      = errors.New("chat: membership of a private conversation cannot change")
	ErrInsufficientRole  = errors.New("chat: actor role does not permit this action")
)

// ParticipantRole expresses the role within a conversation.
// Roles are meaningful for group conversations only; private chats are always member/member.
type ParticipantRole string

const (
	ParticipantRoleMember ParticipantRole = "member"
	ParticipantRoleAdmin  ParticipantRole = "admin"
	ParticipantRoleOwner  ParticipantRole = "owner"
)

// Conversation is a durable thread grouping participants and messages.
// The summary fields (LastMessageAt, LastMessageSnippet) are denormalized from the
// latest persisted message and advanced via ApplyMessage.
type Conversation struct {
	ID                 string     `db:"id"`
	IsGroup            bool       `db:"is_group"`
	CreatedAt          time.Time  `db:"created_at"`
	LastMessageAt      *time.Time `db:"last_message_at"`
	LastMessageSnippet *string    `db:"last_message_snippet"`
}

// Participant captures membership, personalization, and read state.
// Primary key: (ConversationID, UserID). LastReadAt is the unread high-water mark.
type Participant struct {
	ConversationID string          `db:"conversation_id"`
	UserID         string          `db:"user_id"`
	Role           ParticipantRole `db:"role"`
	JoinedAt       time.Time       `db:"joined_at"`
	IsMuted        bool            `db:"is_muted"`
	IsSticky       bool            `db:"is_sticky"`
	PeerNickname   *string         `db:"peer_nickname"`
	LastReadAt     *time.Time      `db:"last_read_at"`
}

// PairKey builds the canonical identity of a private conversation from its two
// member IDs. The sorted "a:b" form backs the uniqueness constraint that prevents
// two private conversations over the same unordered pair.
func PairKey(userA, userB string) string {
	ids := []string{userA, userB}
	sort.Strings(ids)
	return ids[0] + ":" + ids[1]
}

// NormalizeMembers trims and dedupes member IDs, preserving first occurrence order.
func NormalizeMembers(memberIDs []string) []string {
	out := make([]string, 0, len(memberIDs))
	seen := make(map[string]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ValidateMembers checks the participant-count invariants for a new conversation.
// memberIDs should already be normalized.
func ValidateMembers(isGroup bool, memberIDs []string) error {
	if len(memberIDs) < 2 {
		return ErrTooFewMembers
	}
	if !isGroup && len(memberIDs) != 2 {
		return ErrPrivatePairSize
	}
	return nil
}

// ParticipantPrefs carries a partial update of a participant's own
// personalization fields. Nil means "leave unchanged"; an empty PeerNickname
// clears the stored nickname.
type ParticipantPrefs struct {
	IsMuted      *bool
	IsSticky     *bool
	PeerNickname *string
}

// ConversationOverview is the listing shape for a user's inbox: the conversation
// joined with the viewer's own participant record and the capped unread count.
type ConversationOverview struct {
	Conversation Conversation
	Viewer       Participant
	PeerIDs      []string
	UnreadCount  int
}

// ApplyMessage advances the conversation summary to reflect msg.
// It reports false when msg is older than the current summary; callers must not
// overwrite the summary in that case (a delayed write racing a newer message).
func (c *Conversation) ApplyMessage(msg Message) bool {
	if c.LastMessageAt != nil && msg.CreatedAt.Before(*c.LastMessageAt) {
		return false
	}
	ts := msg.CreatedAt
	snippet := msg.Snippet()
	c.LastMessageAt = &ts
	c.LastMessageSnippet = &snippet
	return true
}
