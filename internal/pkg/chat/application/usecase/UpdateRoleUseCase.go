package usecase

import (
	"context"
	"fmt"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	repository "github.com/Hahanic/momo-messenger/internal/pkg/chat/persistence/repository/port"
)

type UpdateRoleInput struct {
	ConversationID string
	ActorID        string
	TargetID       string
	Role           chat.ParticipantRole
}

// UpdateRoleUseCase changes a group member's role. Only owners and admins may
// assign roles, and only an owner may assign or revoke the owner role.
type UpdateRoleUseCase struct {
	Repo repository.ConversationRepository
}

func NewUpdateRoleUseCase(repo repository.ConversationRepository) *UpdateRoleUseCase {
	return &UpdateRoleUseCase{Repo: repo}
}

func (uc *UpdateRoleUseCase) Execute(ctx context.Context, in UpdateRoleInput) error {
	if in.ConversationID == "" || in.ActorID == "" || in.TargetID == "" {
		return fmt.Errorf("conversationId, actorId and targetId are required")
	}
	switch in.Role {
	case chat.ParticipantRoleMember, chat.ParticipantRoleAdmin, chat.ParticipantRoleOwner:
	default:
		return fmt.Errorf("unknown role %q", in.Role)
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

	actor, err := uc.Repo.GetParticipant(ctx, in.ConversationID, in.ActorID)
	if err != nil {
		return storeErr(err)
	}
	if actor == nil {
		return chat.ErrNotParticipant
	}
	if actor.Role != chat.ParticipantRoleOwner && actor.Role != chat.ParticipantRoleAdmin {
		return chat.ErrInsufficientRole
	}
	if in.Role == chat.ParticipantRoleOwner && actor.Role != chat.ParticipantRoleOwner {
		return chat.ErrInsufficientRole
	}

	target, err := uc.Repo.GetParticipant(ctx, in.ConversationID, in.TargetID)
	if err != nil {
		return storeErr(err)
	}
	if target == nil {
		return chat.ErrNotParticipant
	}
	if target.Role == chat.ParticipantRoleOwner && actor.Role != chat.ParticipantRoleOwner {
		return chat.ErrInsufficientRole
	}

	if err := uc.Repo.UpdateParticipantRole(ctx, in.ConversationID, in.TargetID, in.Role); err != nil {
		return storeErr(err)
	}
	return nil
}
