package app

import (
	"github.com/sabq-ai/loyalty-backend/internal/handlers"
	"github.com/sabq-ai/loyalty-backend/internal/logger"
)

type Handlers struct {
	Interaction *handlers.InteractionHandler
	Loyalty     *handlers.LoyaltyHandler
	Activity    *handlers.ActivityHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Interaction: handlers.NewInteractionHandler(log, services.Tracking),
		Loyalty:     handlers.NewLoyaltyHandler(log, services.Loyalty),
		Activity:    handlers.NewActivityHandler(log, services.Activity),
	}
}
