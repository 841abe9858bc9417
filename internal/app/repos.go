package app

import (
	"gorm.io/gorm"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	"github.com/sabq-ai/loyalty-backend/internal/repos"
)

type Repos struct {
	Interaction repos.InteractionRepo
	Loyalty     repos.LoyaltyRepo
	Activity    repos.ActivityRepo
	Article     repos.ArticleRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Interaction: repos.NewInteractionRepo(db, log),
		Loyalty:     repos.NewLoyaltyRepo(db, log),
		Activity:    repos.NewActivityRepo(db, log),
		Article:     repos.NewArticleRepo(db, log),
	}
}
