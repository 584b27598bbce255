package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/immedha/firstlight/internal/config"
	"github.com/immedha/firstlight/internal/repository"

	"github.com/redis/go-redis/v9"
)

// KarmaCache caches user karma totals in redis in front of the user
// repository. The listing sorter hits it once per distinct founder per
// request; the review rating flow invalidates entries after a karma
// change. A nil client degrades to plain database reads.
type KarmaCache struct {
	client   *redis.Client
	userRepo repository.UserRepository
	ttl      time.Duration
}

func NewKarmaCache(cfg *config.Config, userRepo repository.UserRepository) (*KarmaCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &KarmaCache{
		client:   rdb,
		userRepo: userRepo,
		ttl:      time.Duration(cfg.KarmaCacheTTL) * time.Second,
	}, nil
}

// NewKarmaCacheWithoutRedis builds a pass-through cache that always reads
// the database. Used when redis is not configured.
func NewKarmaCacheWithoutRedis(userRepo repository.UserRepository) *KarmaCache {
	return &KarmaCache{userRepo: userRepo}
}

func karmaKey(userID string) string {
	return fmt.Sprintf("karma:user:%s", userID)
}

// KarmaFor returns the user's karma total, serving from redis when the
// entry is fresh and backfilling on a miss.
func (c *KarmaCache) KarmaFor(ctx context.Context, userID string) (int, error) {
	if c.client != nil {
		if val, err := c.client.Get(ctx, karmaKey(userID)).Result(); err == nil {
			if karma, convErr := strconv.Atoi(val); convErr == nil {
				return karma, nil
			}
			// unparseable entry, drop it and fall through to the database
			c.client.Del(ctx, karmaKey(userID))
		}
	}

	user, err := c.userRepo.FindByID(userID)
	if err != nil {
		return 0, err
	}

	if c.client != nil {
		// backfill failures are not worth failing the read over
		c.client.Set(ctx, karmaKey(userID), user.KarmaPoints, c.ttl)
	}
	return user.KarmaPoints, nil
}

// InvalidateKarma drops the cached total for a user after a rating
// changed it. The next read backfills from the database.
func (c *KarmaCache) InvalidateKarma(userID string) {
	if c.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	c.client.Del(ctx, karmaKey(userID))
}

// Close releases the redis connection.
func (c *KarmaCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
