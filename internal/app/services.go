package app

import (
	redisclient "github.com/sabq-ai/loyalty-backend/internal/clients/redis"
	"github.com/sabq-ai/loyalty-backend/internal/logger"
	"github.com/sabq-ai/loyalty-backend/internal/rules"
	"github.com/sabq-ai/loyalty-backend/internal/services"
	"github.com/sabq-ai/loyalty-backend/internal/store"
)

type Services struct {
	Limits   services.LimitService
	Loyalty  services.LoyaltyService
	Activity services.ActivityService
	Tracking services.TrackingService
}

func wireServices(primary, fallback store.Store, log *logger.Logger, cfg rules.Config, cache redisclient.LoyaltyCache) Services {
	log.Info("Wiring services...")
	limits := services.NewLimitService(primary, log)
	loyalty := services.NewLoyaltyService(primary, log, cfg, cache)
	activity := services.NewActivityService(primary, log)
	tracking := services.NewTrackingService(primary, fallback, log, cfg, limits, loyalty, activity)
	return Services{
		Limits:   limits,
		Loyalty:  loyalty,
		Activity: activity,
		Tracking: tracking,
	}
}
