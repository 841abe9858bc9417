package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	"github.com/sabq-ai/loyalty-backend/internal/store"
	"github.com/sabq-ai/loyalty-backend/internal/types"
)

// ActivityService keeps the capped audit trail of point-earning actions.
// Logging is best-effort: failures are logged and swallowed so they never
// block the primary interaction write.
type ActivityService interface {
	Log(ctx context.Context, userID, action, description string, points int, articleID string, metadata map[string]any)
	List(ctx context.Context, userID string, limit int) ([]types.ActivityRecord, error)
}

type activityService struct {
	st  store.Store
	log *logger.Logger
}

func NewActivityService(st store.Store, baseLog *logger.Logger) ActivityService {
	return &activityService{st: st, log: baseLog.With("service", "ActivityService")}
}

func (s *activityService) Log(ctx context.Context, userID, action, description string, points int, articleID string, metadata map[string]any) {
	rec := &types.ActivityRecord{
		UserID:       userID,
		Action:       action,
		Description:  description,
		PointsEarned: points,
		ArticleID:    articleID,
		CreatedAt:    time.Now().UTC(),
	}
	if len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			rec.Metadata = datatypes.JSON(raw)
		}
	}
	if err := s.st.AppendActivity(ctx, rec); err != nil {
		s.log.Warn("activity append failed", "user_id", userID, "action", action, "error", err)
	}
}

func (s *activityService) List(ctx context.Context, userID string, limit int) ([]types.ActivityRecord, error) {
	return s.st.ListActivities(ctx, userID, limit)
}
