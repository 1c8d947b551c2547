package usecase

import (
	"context"
	"fmt"
	"time"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	repository "github.com/Hahanic/momo-messenger/internal/pkg/chat/persistence/repository/port"
)

const (
	defaultMessagePage = 30
	maxMessagePage     = 100
)

type ListMessagesInput struct {
	ConversationID string
	ViewerID       string
	Cursor         string // RFC3339Nano timestamp of the oldest message already held, or empty
	Limit          int
}

type ListMessagesResult struct {
	Messages   []chat.Message // ascending by creation time
	NextCursor *string        // nil when the conversation start was reached
}

// ListMessagesUseCase pages backwards through a conversation's history.
// Each page is fetched newest-first below the cursor, then reversed so callers
// receive chronological order.
type ListMessagesUseCase struct {
	Repo     repository.ConversationRepository
	Messages repository.MessageRepository
}

func NewListMessagesUseCase(repo repository.ConversationRepository, messages repository.MessageRepository) *ListMessagesUseCase {
	return &ListMessagesUseCase{Repo: repo, Messages: messages}
}

func (uc *ListMessagesUseCase) Execute(ctx context.Context, in ListMessagesInput) (*ListMessagesResult, error) {
	if in.ConversationID == "" || in.ViewerID == "" {
		return nil, fmt.Errorf("conversationId and viewerId are required")
	}

	isParticipant, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.ViewerID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !isParticipant {
		return nil, chat.ErrNotParticipant
	}

	var before *time.Time
	if in.Cursor != "" {
		t, err := time.Parse(time.RFC3339Nano, in.Cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadCursor, in.Cursor)
		}
		before = &t
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultMessagePage
	}
	if limit > maxMessagePage {
		limit = maxMessagePage
	}

	// Fetch one extra row to learn whether an older page exists.
	page, err := uc.Messages.ListByConversation(ctx, in.ConversationID, before, limit+1)
	if err != nil {
		return nil, storeErr(err)
	}

	hasMore := len(page) > limit
	if hasMore {
		page = page[:limit]
	}

	// Reverse from newest-first storage order to chronological.
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}

	result := &ListMessagesResult{Messages: page}
	if hasMore && len(page) > 0 {
		cursor := page[0].CreatedAt.Format(time.RFC3339Nano)
		result.NextCursor = &cursor
	}
	return result, nil
}
