package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sabq-ai/loyalty-backend/internal/clients/redis"
	"github.com/sabq-ai/loyalty-backend/internal/logger"
	pkgerrors "github.com/sabq-ai/loyalty-backend/internal/pkg/errors"
	"github.com/sabq-ai/loyalty-backend/internal/rules"
	"github.com/sabq-ai/loyalty-backend/internal/store"
	"github.com/sabq-ai/loyalty-backend/internal/types"
)

// LoyaltyService maintains per-user point balances, history and tier.
type LoyaltyService interface {
	// AddPoints applies one signed point event. total_points is clamped at
	// zero after the update; earned_points only grows on positive events.
	AddPoints(ctx context.Context, userID string, points int, action, articleID, description string) (*types.LoyaltyAccount, error)
	// GetAccount returns the account, or a zero-value bronze account for
	// users that have never earned points.
	GetAccount(ctx context.Context, userID string) (*types.LoyaltyAccount, error)
}

type loyaltyService struct {
	st    store.Store
	log   *logger.Logger
	cfg   rules.Config
	cache redis.LoyaltyCache

	group singleflight.Group

	// serializes the read-modify-write cycle per user
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLoyaltyService builds the ledger. cache may be nil; reads then always
// hit the store.
func NewLoyaltyService(st store.Store, baseLog *logger.Logger, cfg rules.Config, cache redis.LoyaltyCache) LoyaltyService {
	return &loyaltyService{
		st:    st,
		log:   baseLog.With("service", "LoyaltyService"),
		cfg:   cfg,
		cache: cache,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *loyaltyService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

func (s *loyaltyService) AddPoints(ctx context.Context, userID string, points int, action, articleID, description string) (*types.LoyaltyAccount, error) {
	if userID == "" || userID == types.GuestUserID {
		return nil, pkgerrors.ErrInvalidArgument
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now().UTC()
	acct, err := s.st.GetAccount(ctx, userID)
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, err
		}
		acct = &types.LoyaltyAccount{
			UserID:    userID,
			Tier:      types.TierBronze,
			CreatedAt: now,
		}
		acct.TotalPoints = points
		if acct.TotalPoints < 0 {
			acct.TotalPoints = 0
		}
		if points > 0 {
			acct.EarnedPoints = points
		}
	} else {
		acct.TotalPoints += points
		if acct.TotalPoints < 0 {
			acct.TotalPoints = 0
		}
		if points > 0 {
			acct.EarnedPoints += points
		} else if points < 0 {
			acct.RedeemedPoints += -points
		}
	}
	acct.Tier = s.cfg.Tiers.TierFor(acct.TotalPoints)
	acct.LastUpdated = now

	var event *types.PointEvent
	if points != 0 {
		event = &types.PointEvent{
			UserID:      userID,
			Action:      action,
			Points:      points,
			ArticleID:   articleID,
			Description: description,
			CreatedAt:   now,
		}
	}
	if err := s.st.SaveAccount(ctx, acct, event); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.log.Warn("cache invalidate failed", "user_id", userID, "error", err)
		}
	}
	return acct, nil
}

func (s *loyaltyService) GetAccount(ctx context.Context, userID string) (*types.LoyaltyAccount, error) {
	if userID == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}

	if s.cache != nil {
		if acct, err := s.cache.Get(ctx, userID); err == nil {
			return acct, nil
		} else if !errors.Is(err, pkgerrors.ErrNotFound) {
			s.log.Warn("cache read failed", "user_id", userID, "error", err)
		}
	}

	v, err, _ := s.group.Do(userID, func() (interface{}, error) {
		acct, err := s.st.GetAccount(ctx, userID)
		if err != nil {
			if !errors.Is(err, pkgerrors.ErrNotFound) {
				return nil, err
			}
			now := time.Now().UTC()
			acct = &types.LoyaltyAccount{
				UserID:      userID,
				Tier:        types.TierBronze,
				CreatedAt:   now,
				LastUpdated: now,
			}
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, acct); err != nil {
				s.log.Warn("cache write failed", "user_id", userID, "error", err)
			}
		}
		return acct, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.LoyaltyAccount), nil
}
