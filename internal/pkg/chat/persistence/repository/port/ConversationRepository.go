package repository

import (
	"context"
	"time"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
)

// ConversationRepository defines persistence operations for conversations and
// their participants. Implementations must keep a private conversation unique
// per unordered participant pair, and participant read state monotonic.
type ConversationRepository interface {
	// CreateGroup persists a group conversation with its initial participants.
	CreateGroup(ctx context.Context, creatorID string, memberIDs []string) (string, error)

	// GetOrCreatePrivate resolves the private conversation for the unordered
	// pair, creating it atomically when absent (insert-if-absent, not
	// check-then-insert: two racing creators must converge on one row).
	// created reports whether this call inserted the conversation.
	GetOrCreatePrivate(ctx context.Context, userA, userB string) (conversationID string, created bool, err error)

	FindByID(ctx context.Context, conversationID string) (*chat.Conversation, error)
	IsParticipant(ctx context.Context, conversationID string, userID string) (bool, error)
	ListParticipantIDs(ctx context.Context, conversationID string) ([]string, error)
	GetParticipant(ctx context.Context, conversationID string, userID string) (*chat.Participant, error)

	// FindConversationIDsByParticipant lists room keys for the user's live
	// connection (room membership resolution).
	FindConversationIDsByParticipant(ctx context.Context, userID string) ([]string, error)

	// ListPrivatePeers returns the peer user of every private conversation the
	// user belongs to (initial-presence audience; group members are excluded).
	ListPrivatePeers(ctx context.Context, userID string) ([]string, error)

	// ListForUser pages the user's inbox: sticky conversations first, then
	// lastMessageAt descending, each annotated with the capped unread count.
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]chat.ConversationOverview, error)

	// UpdateSummary advances lastMessageAt/lastMessageSnippet, skipping the
	// write when the stored summary is already newer than at.
	UpdateSummary(ctx context.Context, conversationID string, at time.Time, snippet string) error

	// AddParticipant and RemoveParticipant mutate group membership only.
	AddParticipant(ctx context.Context, p chat.Participant) error
	RemoveParticipant(ctx context.Context, conversationID string, userID string) error

	// UpdateParticipantPrefs applies the user's own personalization fields.
	UpdateParticipantPrefs(ctx context.Context, conversationID string, userID string, prefs chat.ParticipantPrefs) error

	// UpdateParticipantRole sets the role of a group member.
	UpdateParticipantRole(ctx context.Context, conversationID string, userID string, role chat.ParticipantRole) error

	// MarkRead sets the participant's lastReadAt to at, unless the stored value
	// is already later (monotonic high-water mark).
	MarkRead(ctx context.Context, conversationID string, userID string, at time.Time) error
}
