package services

import (
	"context"
	"time"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	"github.com/sabq-ai/loyalty-backend/internal/rules"
	"github.com/sabq-ai/loyalty-backend/internal/store"
	"github.com/sabq-ai/loyalty-backend/internal/types"
)

// LimitService enforces per-article and per-day caps on point-earning
// interactions. Read failures fail open so bookkeeping never blocks the
// user-facing action.
type LimitService interface {
	Allow(ctx context.Context, userID, articleID string, typ types.InteractionType, rule rules.Rule) bool
}

type limitService struct {
	st  store.Store
	log *logger.Logger
}

func NewLimitService(st store.Store, baseLog *logger.Logger) LimitService {
	return &limitService{st: st, log: baseLog.With("service", "LimitService")}
}

func (s *limitService) Allow(ctx context.Context, userID, articleID string, typ types.InteractionType, rule rules.Rule) bool {
	if rule.MaxPerArticle > 0 {
		count, err := s.st.CountInteractions(ctx, userID, articleID, typ)
		if err != nil {
			s.log.Warn("per-article limit check failed, allowing", "user_id", userID, "article_id", articleID, "type", typ, "error", err)
			return true
		}
		if count >= int64(rule.MaxPerArticle) {
			return false
		}
	}
	if rule.MaxPerDay > 0 {
		since := startOfUTCDay(time.Now().UTC())
		count, err := s.st.CountInteractionsSince(ctx, userID, typ, since)
		if err != nil {
			s.log.Warn("per-day limit check failed, allowing", "user_id", userID, "type", typ, "error", err)
			return true
		}
		if count >= int64(rule.MaxPerDay) {
			return false
		}
	}
	return true
}

func startOfUTCDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
