package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sabq-ai/loyalty-backend/internal/handlers"
	"github.com/sabq-ai/loyalty-backend/internal/middleware"
)

type RouterConfig struct {
	RequestLog         *middleware.RequestLogMiddleware
	InteractionHandler *handlers.InteractionHandler
	LoyaltyHandler     *handlers.LoyaltyHandler
	ActivityHandler    *handlers.ActivityHandler
	CORSOrigins        []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.RequestLog != nil {
		router.Use(cfg.RequestLog.Handler())
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/interactions/track", cfg.InteractionHandler.Track)
		api.GET("/interactions/track", cfg.InteractionHandler.List)
		api.GET("/loyalty/points", cfg.LoyaltyHandler.GetPoints)
		api.GET("/activities", cfg.ActivityHandler.List)
	}

	return router
}
