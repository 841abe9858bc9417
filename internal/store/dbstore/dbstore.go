package dbstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	"github.com/sabq-ai/loyalty-backend/internal/repos"
	"github.com/sabq-ai/loyalty-backend/internal/types"
)

// Store implements store.Store over the GORM repositories. Account saves and
// their history events share one transaction; the interaction upsert itself
// is atomic per row.
type Store struct {
	db           *gorm.DB
	log          *logger.Logger
	interactions repos.InteractionRepo
	loyalty      repos.LoyaltyRepo
	activities   repos.ActivityRepo
	articles     repos.ArticleRepo
}

func New(db *gorm.DB, baseLog *logger.Logger, interactions repos.InteractionRepo, loyalty repos.LoyaltyRepo, activities repos.ActivityRepo, articles repos.ArticleRepo) *Store {
	return &Store{
		db:           db,
		log:          baseLog.With("store", "db"),
		interactions: interactions,
		loyalty:      loyalty,
		activities:   activities,
		articles:     articles,
	}
}

func (s *Store) Name() string { return "db" }

func (s *Store) RecordInteraction(ctx context.Context, in *types.Interaction) (bool, error) {
	return s.interactions.Upsert(ctx, nil, in)
}

func (s *Store) ListInteractions(ctx context.Context, f repos.InteractionFilter) ([]types.Interaction, error) {
	return s.interactions.List(ctx, nil, f)
}

func (s *Store) CountInteractions(ctx context.Context, userID, articleID string, typ types.InteractionType) (int64, error) {
	return s.interactions.CountByUserArticleType(ctx, nil, userID, articleID, typ)
}

func (s *Store) CountInteractionsSince(ctx context.Context, userID string, typ types.InteractionType, since time.Time) (int64, error) {
	return s.interactions.CountByUserTypeSince(ctx, nil, userID, typ, since)
}

func (s *Store) GetAccount(ctx context.Context, userID string) (*types.LoyaltyAccount, error) {
	acct, err := s.loyalty.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.loyalty.ListEvents(ctx, nil, userID, 50)
	if err != nil {
		s.log.Warn("failed to load point history", "user_id", userID, "error", err)
		return acct, nil
	}
	acct.History = history
	return acct, nil
}

func (s *Store) SaveAccount(ctx context.Context, acct *types.LoyaltyAccount, event *types.PointEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.loyalty.Save(ctx, tx, acct); err != nil {
			return err
		}
		if event != nil {
			if err := s.loyalty.AppendEvent(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) AppendActivity(ctx context.Context, rec *types.ActivityRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.activities.Create(ctx, tx, rec); err != nil {
			return err
		}
		return s.activities.TrimToLast(ctx, tx, types.MaxActivityRecords)
	})
}

func (s *Store) ListActivities(ctx context.Context, userID string, limit int) ([]types.ActivityRecord, error) {
	return s.activities.ListByUser(ctx, nil, userID, limit)
}

func (s *Store) IncrementArticleViews(ctx context.Context, articleID string) error {
	return s.articles.IncrementViews(ctx, nil, articleID)
}
