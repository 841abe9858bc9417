package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	pkgerrors "github.com/sabq-ai/loyalty-backend/internal/pkg/errors"
	"github.com/sabq-ai/loyalty-backend/internal/types"
)

type LoyaltyRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*types.LoyaltyAccount, error)
	Save(ctx context.Context, tx *gorm.DB, acct *types.LoyaltyAccount) error
	AppendEvent(ctx context.Context, tx *gorm.DB, event *types.PointEvent) error
	ListEvents(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]types.PointEvent, error)
}

type loyaltyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLoyaltyRepo(db *gorm.DB, baseLog *logger.Logger) LoyaltyRepo {
	return &loyaltyRepo{db: db, log: baseLog.With("repo", "LoyaltyRepo")}
}

func (r *loyaltyRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*types.LoyaltyAccount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var acct types.LoyaltyAccount
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &acct, nil
}

func (r *loyaltyRepo) Save(ctx context.Context, tx *gorm.DB, acct *types.LoyaltyAccount) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	// history rows are written through AppendEvent, never via the account save
	return transaction.WithContext(ctx).
		Omit("History").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(acct).Error
}

func (r *loyaltyRepo) AppendEvent(ctx context.Context, tx *gorm.DB, event *types.PointEvent) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Create(event).Error
}

func (r *loyaltyRepo) ListEvents(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]types.PointEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []types.PointEvent
	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
