package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	"github.com/sabq-ai/loyalty-backend/internal/types"
)

// InteractionFilter narrows interaction listings. UserID is required by the
// read API; ArticleID and Type are optional.
type InteractionFilter struct {
	UserID    string
	ArticleID string
	Type      types.InteractionType
}

type InteractionRepo interface {
	// Upsert keeps one row per (user, article, type). The bool reports
	// whether a new row was created; repeats only refresh the timestamp.
	Upsert(ctx context.Context, tx *gorm.DB, in *types.Interaction) (bool, error)
	List(ctx context.Context, tx *gorm.DB, f InteractionFilter) ([]types.Interaction, error)
	CountByUserArticleType(ctx context.Context, tx *gorm.DB, userID, articleID string, typ types.InteractionType) (int64, error)
	CountByUserTypeSince(ctx context.Context, tx *gorm.DB, userID string, typ types.InteractionType, since time.Time) (int64, error)
}

type interactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInteractionRepo(db *gorm.DB, baseLog *logger.Logger) InteractionRepo {
	return &interactionRepo{db: db, log: baseLog.With("repo", "InteractionRepo")}
}

func (r *interactionRepo) Upsert(ctx context.Context, tx *gorm.DB, in *types.Interaction) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	now := time.Now().UTC()
	var existing types.Interaction
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND article_id = ? AND interaction_type = ?", in.UserID, in.ArticleID, in.Type).
		First(&existing).Error
	if err == nil {
		if err := transaction.WithContext(ctx).
			Model(&existing).
			Update("updated_at", now).Error; err != nil {
			return false, err
		}
		*in = existing
		in.UpdatedAt = now
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = now
	}
	in.UpdatedAt = now
	if err := transaction.WithContext(ctx).Create(in).Error; err != nil {
		// concurrent insert of the same triple lost the race; treat as repeat
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *interactionRepo) List(ctx context.Context, tx *gorm.DB, f InteractionFilter) ([]types.Interaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []types.Interaction
	if f.UserID == "" {
		return results, nil
	}
	q := transaction.WithContext(ctx).Where("user_id = ?", f.UserID)
	if f.ArticleID != "" {
		q = q.Where("article_id = ?", f.ArticleID)
	}
	if f.Type != "" {
		q = q.Where("interaction_type = ?", f.Type)
	}
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *interactionRepo) CountByUserArticleType(ctx context.Context, tx *gorm.DB, userID, articleID string, typ types.InteractionType) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Interaction{}).
		Where("user_id = ? AND article_id = ? AND interaction_type = ?", userID, articleID, typ).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *interactionRepo) CountByUserTypeSince(ctx context.Context, tx *gorm.DB, userID string, typ types.InteractionType, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Interaction{}).
		Where("user_id = ? AND interaction_type = ? AND created_at >= ?", userID, typ, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
