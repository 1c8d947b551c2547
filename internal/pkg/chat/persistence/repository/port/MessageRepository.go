package repository

import (
	"context"
	"time"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
)

// UnreadCap bounds unread-count queries: exact counts above the cap are not
// guaranteed, only "cap reached".
const UnreadCap = 100

// MessageRepository defines persistence operations for the message log.
// Messages are immutable once inserted; created_at is assigned by the store and
// is the sole ordering key and pagination cursor.
type MessageRepository interface {
	// Insert persists m, letting the store assign id and created_at.
	Insert(ctx context.Context, m chat.Message) (id string, createdAt time.Time, err error)

	// ListByConversation returns up to limit messages with created_at strictly
	// before the cursor (all messages when before is nil), newest first.
	ListByConversation(ctx context.Context, conversationID string, before *time.Time, limit int) ([]chat.Message, error)

	// CountAfter counts messages with created_at strictly after the watermark,
	// capped at UnreadCap. A nil watermark counts from the beginning.
	CountAfter(ctx context.Context, conversationID string, after *time.Time) (int, error)
}
