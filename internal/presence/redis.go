package presence

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// onlineWindow is how long after a heartbeat a user still counts as present.
const onlineWindow = 30 * time.Second

// Store tracks who is live inside a swap conversation.
type Store interface {
	Heartbeat(ctx context.Context, swapID, userUID string) error
	OnlineParticipants(ctx context.Context, swapID string) ([]string, error)
	ClearSwap(ctx context.Context, swapID string) error
}

// RedisStore keeps presence in a per-swap sorted set scored by heartbeat time.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Heartbeat records the user's check-in and refreshes the set's expiry so an
// abandoned conversation does not leak memory.
func (s *RedisStore) Heartbeat(ctx context.Context, swapID, userUID string) error {
	key := presenceKey(swapID)
	if err := s.rdb.ZAdd(ctx, key, redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: userUID,
	}).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, key, onlineWindow*4).Err()
}

// OnlineParticipants returns users who checked in within the online window,
// pruning stale members as it goes.
func (s *RedisStore) OnlineParticipants(ctx context.Context, swapID string) ([]string, error) {
	key := presenceKey(swapID)
	threshold := time.Now().Add(-onlineWindow).Unix()

	s.rdb.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(threshold, 10))
	return s.rdb.ZRange(ctx, key, 0, -1).Result()
}

// ClearSwap drops the whole presence set, used when the swap request is
// deleted.
func (s *RedisStore) ClearSwap(ctx context.Context, swapID string) error {
	return s.rdb.Del(ctx, presenceKey(swapID)).Err()
}

func presenceKey(swapID string) string {
	return "presence:swap:" + swapID
}

// NoopStore is used when Redis is not configured.
type NoopStore struct{}

func (NoopStore) Heartbeat(ctx context.Context, swapID, userUID string) error { return nil }
func (NoopStore) OnlineParticipants(ctx context.Context, swapID string) ([]string, error) {
	return nil, nil
}
func (NoopStore) ClearSwap(ctx context.Context, swapID string) error { return nil }
