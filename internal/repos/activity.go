package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	"github.com/sabq-ai/loyalty-backend/internal/types"
)

type ActivityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rec *types.ActivityRecord) error
	// TrimToLast keeps only the newest max records, evicting oldest first.
	TrimToLast(ctx context.Context, tx *gorm.DB, max int) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]types.ActivityRecord, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (r *activityRepo) Create(ctx context.Context, tx *gorm.DB, rec *types.ActivityRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	return transaction.WithContext(ctx).Create(rec).Error
}

func (r *activityRepo) TrimToLast(ctx context.Context, tx *gorm.DB, max int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if max <= 0 {
		return nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ActivityRecord{}).
		Count(&count).Error; err != nil {
		return err
	}
	if count <= int64(max) {
		return nil
	}

	keep := transaction.WithContext(ctx).
		Model(&types.ActivityRecord{}).
		Select("id").
		Order("created_at DESC, id DESC").
		Limit(max)
	return transaction.WithContext(ctx).
		Where("id NOT IN (?)", keep).
		Delete(&types.ActivityRecord{}).Error
}

func (r *activityRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]types.ActivityRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []types.ActivityRecord
	if userID == "" {
		return results, nil
	}
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
