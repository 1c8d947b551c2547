package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	cacheport "github.com/Hahanic/momo-messenger/internal/infrastructure/cache/port"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/usecase"
)

// roomsKeyPrefix namespaces per-user room lists in the shared cache.
const roomsKeyPrefix = "rooms:"

// roomsTTL bounds staleness when an invalidation is lost (process crash between
// the membership write and the cache delete).
const roomsTTL = 10 * time.Minute

// RoomCache stores each user's resolved room list as a JSON array under
// rooms:{userID}. All failures degrade to a miss; the resolver falls back to
// the store.
type RoomCache struct {
	cache  cacheport.Cache
	logger zerolog.Logger
}

func NewRoomCache(c cacheport.Cache, logger zerolog.Logger) *RoomCache {
	return &RoomCache{cache: c, logger: logger}
}

var (
	_ usecase.RoomCache            = (*RoomCache)(nil)
	_ usecase.RoomCacheInvalidator = (*RoomCache)(nil)
)

func (rc *RoomCache) GetRooms(ctx context.Context, userID string) ([]string, bool) {
	raw, err := rc.cache.Get(ctx, roomsKeyPrefix+userID)
	if err != nil {
		if err != cacheport.ErrMiss {
			rc.logger.Warn().Err(err).Str("userId", userID).Msg("room cache read failed")
		}
		return nil, false
	}
	var rooms []string
	if err := json.Unmarshal([]byte(raw), &rooms); err != nil {
		rc.logger.Warn().Err(err).Str("userId", userID).Msg("room cache entry corrupt, dropping")
		_, _ = rc.cache.Del(ctx, roomsKeyPrefix+userID)
		return nil, false
	}
	return rooms, true
}

func (rc *RoomCache) PutRooms(ctx context.Context, userID string, roomIDs []string) {
	if roomIDs == nil {
		roomIDs = []string{}
	}
	raw, err := json.Marshal(roomIDs)
	if err != nil {
		return
	}
	if err := rc.cache.Set(ctx, roomsKeyPrefix+userID, string(raw), roomsTTL); err != nil {
		rc.logger.Warn().Err(err).Str("userId", userID).Msg("room cache write failed")
	}
}

func (rc *RoomCache) InvalidateRooms(ctx context.Context, userID string) {
	if _, err := rc.cache.Del(ctx, roomsKeyPrefix+userID); err != nil {
		rc.logger.Warn().Err(err).Str("userId", userID).Msg("room cache invalidation failed")
	}
}
