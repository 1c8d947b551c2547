package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	repository "github.com/Hahanic/momo-messenger/internal/pkg/chat/persistence/repository/port"
)

// RoomCache stores a user's resolved room list keyed by user ID. A miss returns
// ok=false; Put failures are swallowed by implementations.
type RoomCache interface {
	GetRooms(ctx context.Context, userID string) (roomIDs []string, ok bool)
	PutRooms(ctx context.Context, userID string, roomIDs []string)
}

type ResolveRoomsResult struct {
	RoomIDs     []string
	OnlinePeers []string // private-chat peers with a live connection right now
}

// ResolveRoomsUseCase computes the room set and initial presence snapshot for a
// freshly accepted connection. Resolution failures degrade rather than reject:
// the connection is admitted with no rooms and catches up via history fetches.
type ResolveRoomsUseCase struct {
	Repo     repository.ConversationRepository
	Presence PresenceView
	Cache    RoomCache // optional
	Logger   zerolog.Logger
}

func NewResolveRoomsUseCase(repo repository.ConversationRepository, presence PresenceView, cache RoomCache, logger zerolog.Logger) *ResolveRoomsUseCase {
	return &ResolveRoomsUseCase{Repo: repo, Presence: presence, Cache: cache, Logger: logger}
}

func (uc *ResolveRoomsUseCase) Execute(ctx context.Context, userID string) (*ResolveRoomsResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("userId is required")
	}

	result := &ResolveRoomsResult{}

	roomIDs, cached := uc.cachedRooms(ctx, userID)
	if !cached {
		var err error
		roomIDs, err = uc.Repo.FindConversationIDsByParticipant(ctx, userID)
		if err != nil {
			// Degraded admit: the socket still opens, it just joins no rooms.
			uc.Logger.Error().Err(err).Str("userId", userID).Msg("room resolution failed, admitting with empty room set")
			return result, nil
		}
		if uc.Cache != nil {
			uc.Cache.PutRooms(ctx, userID, roomIDs)
		}
	}
	result.RoomIDs = roomIDs

	peers, err := uc.Repo.ListPrivatePeers(ctx, userID)
	if err != nil {
		uc.Logger.Error().Err(err).Str("userId", userID).Msg("initial presence resolution failed")
		return result, nil
	}
	if uc.Presence != nil {
		result.OnlinePeers = uc.Presence.OnlineSubset(peers)
	}
	return result, nil
}

func (uc *ResolveRoomsUseCase) cachedRooms(ctx context.Context, userID string) ([]string, bool) {
	if uc.Cache == nil {
		return nil, false
	}
	return uc.Cache.GetRooms(ctx, userID)
}
