package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"mingle/pkg/apperr"
)

// PresenceStore tracks which users hold an open live connection to a
// conversation. Each conversation maps to a sorted set keyed by user id and
// scored by the last heartbeat time, so stale members age out even if the
// process dies without cleaning up.
type PresenceStore struct {
	client *redis.Client
}

func NewPresenceStore(client *redis.Client) *PresenceStore {
	return &PresenceStore{client: client}
}

func presenceKey(conversationID int64) string {
	return fmt.Sprintf("presence:%d", conversationID)
}

func (s *PresenceStore) UpdateOnlineStatus(ctx context.Context, conversationID, userID int64, ttl time.Duration) error {
	key := presenceKey(conversationID)
	now := time.Now()

	pipe := s.client.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.Unix()), Member: strconv.FormatInt(userID, 10)})
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(now.Add(-ttl).Unix(), 10))
	pipe.Expire(ctx, key, ttl*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "update presence failed", err)
	}
	return nil
}

func (s *PresenceStore) GetOnlineParticipants(ctx context.Context, conversationID int64) ([]int64, error) {
	members, err := s.client.ZRange(ctx, presenceKey(conversationID), 0, -1).Result()
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "read presence failed", err)
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *PresenceStore) ClearConversation(ctx context.Context, conversationID int64) error {
	if err := s.client.Del(ctx, presenceKey(conversationID)).Err(); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "clear presence failed", err)
	}
	return nil
}
