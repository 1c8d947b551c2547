package usecase

import (
	"context"
	"fmt"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	repository "github.com/Hahanic/momo-messenger/internal/pkg/chat/persistence/repository/port"
)

type UpdateParticipantInput struct {
	ConversationID string
	UserID         string
	Prefs          chat.ParticipantPrefs
}

// UpdateParticipantUseCase applies a participant's own per-conversation
// settings: mute, sticky pin, and (private chats only) a nickname for the peer.
type UpdateParticipantUseCase struct {
	Repo repository.ConversationRepository
}

func NewUpdateParticipantUseCase(repo repository.ConversationRepository) *UpdateParticipantUseCase {
	return &UpdateParticipantUseCase{Repo: repo}
}

func (uc *UpdateParticipantUseCase) Execute(ctx context.Context, in UpdateParticipantInput) error {
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
	if conv.IsGroup && in.Prefs.PeerNickname != nil {
		return chat.ErrNicknameGroupChat
	}

	isParticipant, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return storeErr(err)
	}
	if !isParticipant {
		return chat.ErrNotParticipant
	}

	if err := uc.Repo.UpdateParticipantPrefs(ctx, in.ConversationID, in.UserID, in.Prefs); err != nil {
		return storeErr(err)
	}
	return nil
}
