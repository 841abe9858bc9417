package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	pkgerrors "github.com/sabq-ai/loyalty-backend/internal/pkg/errors"
	"github.com/sabq-ai/loyalty-backend/internal/types"
)

// LoyaltyCache fronts loyalty-account reads. Misses return ErrNotFound;
// callers fall through to the store and Set the result.
type LoyaltyCache interface {
	Get(ctx context.Context, userID string) (*types.LoyaltyAccount, error)
	Set(ctx context.Context, acct *types.LoyaltyAccount) error
	Invalidate(ctx context.Context, userID string) error
	Close() error
}

type loyaltyCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewLoyaltyCache connects using REDIS_ADDR. Returns an error when the
// variable is unset; callers treat that as "run without a cache".
func NewLoyaltyCache(log *logger.Logger) (LoyaltyCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &loyaltyCache{
		log: log.With("client", "LoyaltyCache"),
		rdb: rdb,
		ttl: 5 * time.Minute,
	}, nil
}

func cacheKey(userID string) string {
	return "loyalty:account:" + userID
}

func (c *loyaltyCache) Get(ctx context.Context, userID string) (*types.LoyaltyAccount, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	var acct types.LoyaltyAccount
	if err := json.Unmarshal(raw, &acct); err != nil {
		// stale or corrupted entry; drop it
		_ = c.rdb.Del(ctx, cacheKey(userID)).Err()
		return nil, pkgerrors.ErrNotFound
	}
	return &acct, nil
}

func (c *loyaltyCache) Set(ctx context.Context, acct *types.LoyaltyAccount) error {
	raw, err := json.Marshal(acct)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey(acct.UserID), raw, c.ttl).Err()
}

func (c *loyaltyCache) Invalidate(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, cacheKey(userID)).Err()
}

func (c *loyaltyCache) Close() error {
	return c.rdb.Close()
}
