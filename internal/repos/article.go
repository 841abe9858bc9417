package repos

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	"github.com/sabq-ai/loyalty-backend/internal/types"
)

type ArticleRepo interface {
	// IncrementViews bumps the view counter, creating the row when the
	// article has not been seen by the tracker yet.
	IncrementViews(ctx context.Context, tx *gorm.DB, articleID string) error
	GetViews(ctx context.Context, tx *gorm.DB, articleID string) (int64, error)
}

type articleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArticleRepo(db *gorm.DB, baseLog *logger.Logger) ArticleRepo {
	return &articleRepo{db: db, log: baseLog.With("repo", "ArticleRepo")}
}

func (r *articleRepo) IncrementViews(ctx context.Context, tx *gorm.DB, articleID string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"views":      gorm.Expr("views + 1"),
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(&types.Article{ID: articleID, Views: 1, UpdatedAt: time.Now().UTC()}).Error
}

func (r *articleRepo) GetViews(ctx context.Context, tx *gorm.DB, articleID string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var article types.Article
	if err := transaction.WithContext(ctx).
		Where("id = ?", articleID).
		First(&article).Error; err != nil {
		return 0, err
	}
	return article.Views, nil
}
