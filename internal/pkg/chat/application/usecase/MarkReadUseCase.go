package usecase

import (
	"context"
	"fmt"
	"time"

	chat "github.com/Hahanic/momo-messenger/internal/pkg/chat/application/domain"
	repository "github.com/Hahanic/momo-messenger/internal/pkg/chat/persistence/repository/port"
)

type MarkReadInput struct {
	ConversationID string
	UserID         string
	At             time.Time // zero means "now"
}

// MarkReadUseCase advances a participant's read cursor. The cursor only moves
// forward: out-of-order acknowledgements from racing devices settle on the
// latest timestamp.
type MarkReadUseCase struct {
	Repo repository.ConversationRepository
}

func NewMarkReadUseCase(repo repository.ConversationRepository) *MarkReadUseCase {
	return &MarkReadUseCase{Repo: repo}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, in MarkReadInput) error {
	if in.ConversationID == "" || in.UserID == "" {
		return fmt.Errorf("conversationId and userId are required")
	}

	isParticipant, err := uc.Repo.IsParticipant(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return storeErr(err)
	}
	if !isParticipant {
		return chat.ErrNotParticipant
	}

	at := in.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	if err := uc.Repo.MarkRead(ctx, in.ConversationID, in.UserID, at); err != nil {
		return storeErr(err)
	}
	return nil
}
