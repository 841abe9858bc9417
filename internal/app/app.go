package app

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	redisclient "github.com/sabq-ai/loyalty-backend/internal/clients/redis"
	"github.com/sabq-ai/loyalty-backend/internal/db"
	"github.com/sabq-ai/loyalty-backend/internal/logger"
	"github.com/sabq-ai/loyalty-backend/internal/middleware"
	"github.com/sabq-ai/loyalty-backend/internal/rules"
	"github.com/sabq-ai/loyalty-backend/internal/server"
	"github.com/sabq-ai/loyalty-backend/internal/store"
	"github.com/sabq-ai/loyalty-backend/internal/store/dbstore"
	"github.com/sabq-ai/loyalty-backend/internal/store/filestore"
)

type App struct {
	Log    *logger.Logger
	Cfg    Config
	Router *gin.Engine
	cache  redisclient.LoyaltyCache
}

// New builds the whole service: config, storage backends, services,
// handlers, router. USE_DATABASE selects the relational backend with the
// file backend as fallback; otherwise the file backend is primary.
func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	rulesCfg, err := rules.Load(cfg.RulesFile)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load rules: %w", err)
	}
	log.Info("Point rules loaded", "tier_table", rulesCfg.Tiers.Name)

	fileStore, err := filestore.New(cfg.DataDir, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init file store: %w", err)
	}

	var primary store.Store = fileStore
	var fallback store.Store
	if cfg.UseDatabase {
		dbService, err := db.NewService(log)
		if err != nil {
			log.Warn("Database init failed, staying on file backend", "error", err)
		} else if err := dbService.AutoMigrateAll(); err != nil {
			log.Warn("Database migration failed, staying on file backend", "error", err)
		} else {
			reposet := wireRepos(dbService.DB(), log)
			primary = dbstore.New(dbService.DB(), log, reposet.Interaction, reposet.Loyalty, reposet.Activity, reposet.Article)
			fallback = fileStore
		}
	}
	log.Info("Storage wired", "primary", primary.Name())

	var cache redisclient.LoyaltyCache
	if c, err := redisclient.NewLoyaltyCache(log); err != nil {
		log.Info("Running without loyalty cache", "reason", err.Error())
	} else {
		cache = c
	}

	serviceset := wireServices(primary, fallback, log, rulesCfg, cache)
	handlerset := wireHandlers(log, serviceset)

	router := server.NewRouter(server.RouterConfig{
		RequestLog:         middleware.NewRequestLogMiddleware(log),
		InteractionHandler: handlerset.Interaction,
		LoyaltyHandler:     handlerset.Loyalty,
		ActivityHandler:    handlerset.Activity,
		CORSOrigins:        cfg.CORSOrigins,
	})

	return &App{Log: log, Cfg: cfg, Router: router, cache: cache}, nil
}

func (a *App) Run() error {
	a.Log.Info("Server listening", "port", a.Cfg.Port)
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.Log.Warn("cache close failed", "error", err)
		}
	}
	a.Log.Sync()
}
