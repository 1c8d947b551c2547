package usecase

import (
	"context"
	"fmt"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	repository "github.com/Hahanic/momo-messenger/internal/pkg/chat/persistence/repository/port"
)

// RoomCacheInvalidator drops a user's cached room membership so the next
// connection rebuilds it from the store.
type RoomCacheInvalidator interface {
	InvalidateRooms(ctx context.Context, userID string)
}

type CreateConversationInput struct {
	CreatorID string
	IsGroup   bool
	MemberIDs []string
}

type CreateConversationResult struct {
	ConversationID string
	Created        bool
}

// CreateConversationUseCase creates a group conversation or resolves the
// private conversation for a user pair. Private creation is insert-if-absent:
// concurrent requests for the same pair converge on one conversation.
type CreateConversationUseCase struct {
	Repo   repository.ConversationRepository
	Cache  RoomCacheInvalidator // optional
	Joiner RoomJoiner           // optional
}

func NewCreateConversationUseCase(repo repository.ConversationRepository, cache RoomCacheInvalidator, joiner RoomJoiner) *CreateConversationUseCase {
	return &CreateConversationUseCase{Repo: repo, Cache: cache, Joiner: joiner}
}

func (uc *CreateConversationUseCase) Execute(ctx context.Context, in CreateConversationInput) (*CreateConversationResult, error) {
	if in.CreatorID == "" {
		return nil, fmt.Errorf("creatorId is required")
	}

	members := chat.NormalizeMembers(append([]string{in.CreatorID}, in.MemberIDs...))
	if err := chat.ValidateMembers(in.IsGroup, members); err != nil {
		return nil, err
	}

	if !in.IsGroup {
		id, created, err := uc.Repo.GetOrCreatePrivate(ctx, members[0], members[1])
		if err != nil {
			return nil, storeErr(err)
		}
		if created {
			uc.invalidate(ctx, members)
			uc.joinLive(id, members)
		}
		return &CreateConversationResult{ConversationID: id, Created: created}, nil
	}

	id, err := uc.Repo.CreateGroup(ctx, in.CreatorID, members)
	if err != nil {
		return nil, storeErr(err)
	}
	uc.invalidate(ctx, members)
	uc.joinLive(id, members)
	return &CreateConversationResult{ConversationID: id, Created: true}, nil
}

// joinLive subscribes every member's already-open connections to the new
// room, so messages sent right after creation reach online members without
// a reconnect.
func (uc *CreateConversationUseCase) joinLive(conversationID string, userIDs []string) {
	if uc.Joiner == nil {
		return
	}
	for _, id := range userIDs {
		uc.Joiner.JoinUser(conversationID, id)
	}
}

func (uc *CreateConversationUseCase) invalidate(ctx context.Context, userIDs []string) {
	if uc.Cache == nil {
		return
	}
	for _, id := range userIDs {
		uc.Cache.InvalidateRooms(ctx, id)
	}
}
