package usecase

import (
	"context"
	"fmt"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	repository "github.com/Hahanic/momo-messenger/internal/pkg/chat/persistence/repository/port"
)

// RoomLeaver removes a user's live connections from a room.
type RoomLeaver interface {
	LeaveUser(conversationID, userID string)
}

type LeaveConversationInput struct {
	ConversationID string
	UserID         string
}

// LeaveConversationUseCase removes the calling user from a group conversation
// and detaches their live connections from its room.
type LeaveConversationUseCase struct {
	Repo   repository.ConversationRepository
	Cache  RoomCacheInvalidator // optional
	Leaver RoomLeaver           // optional
}

func NewLeaveConversationUseCase(repo repository.ConversationRepository, cache RoomCacheInvalidator, leaver RoomLeaver) *LeaveConversationUseCase {
	return &LeaveConversationUseCase{Repo: repo, Cache: cache, Leaver: leaver}
}

func (uc *LeaveConversationUseCase) Execute(ctx context.Context, in LeaveConversationInput) error {
	if in.ConversationID == "" || in.UserID == "" {
		return fmt.Errorf("conversationId and userId are required")
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

	isParticipant, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return storeErr(err)
	}
	if !isParticipant {
		return chat.ErrNotParticipant
	}

	if err := uc.Repo.RemoveParticipant(ctx, in.ConversationID, in.UserID); err != nil {
		return storeErr(err)
	}

	if uc.Cache != nil {
		uc.Cache.InvalidateRooms(ctx, in.UserID)
	}
	if uc.Leaver != nil {
		uc.Leaver.LeaveUser(in.ConversationID, in.UserID)
	}
	return nil
}
