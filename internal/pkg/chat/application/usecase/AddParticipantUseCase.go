package usecase

import (
	"context"
	"fmt"
	"time"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	repository "github.com/Hahanic/momo-messenger/internal/pkg/chat/persistence/repository/port"
)

// RoomJoiner adds a user's live connections to a room immediately, so they
// receive events without reconnecting.
type RoomJoiner interface {
	JoinUser(conversationID, userID string)
}

type AddParticipantInput struct {
	ConversationID string
	ActorID        string
	NewMemberID    string
}

// AddParticipantUseCase adds a member to a group conversation. Private
// conversations are immutable pairs and reject membership changes.
type AddParticipantUseCase struct {
	Repo   repository.ConversationRepository
	Cache  RoomCacheInvalidator // optional
	Joiner RoomJoiner           // optional
}

func NewAddParticipantUseCase(repo repository.ConversationRepository, cache RoomCacheInvalidator, joiner RoomJoiner) *AddParticipantUseCase {
	return &AddParticipantUseCase{Repo: repo, Cache: cache, Joiner: joiner}
}

func (uc *AddParticipantUseCase) Execute(ctx context.Context, in AddParticipantInput) error {
	if in.ConversationID == "" || in.ActorID == "" || in.NewMemberID == "" {
		return fmt.Errorf("conversationId, actorId and memberId are required")
	}

	conv, err := uc.Repo.FindByID(ctx, in.ConversationID)
	if err != nil {
		return storeErr(err)
	}
	if conv == nil {
		return chat.ErrNotFound
	}
	if !conv.IsGroup {
		return chat.ErrNotGroupChat
	}

	isParticipant, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.ActorID)
	if err != nil {
		return storeErr(err)
	}
	if !isParticipant {
		return chat.ErrNotParticipant
	}

	err = uc.Repo.AddParticipant(ctx, chat.Participant{
		ConversationID: in.ConversationID,
		UserID:         in.NewMemberID,
		Role:           chat.ParticipantRoleMember,
		JoinedAt:       time.Now().UTC(),
	})
	if err != nil {
		return storeErr(err)
	}

	if uc.Cache != nil {
		uc.Cache.InvalidateRooms(ctx, in.NewMemberID)
	}
	if uc.Joiner != nil {
		uc.Joiner.JoinUser(in.ConversationID, in.NewMemberID)
	}
	return nil
}
