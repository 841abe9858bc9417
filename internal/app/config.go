package app

import (
	"strings"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	"github.com/sabq-ai/loyalty-backend/internal/utils"
)

type Config struct {
	Port        string
	UseDatabase bool
	DataDir     string
	RulesFile   string
	CORSOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	useDatabase := utils.GetEnvAsBool("USE_DATABASE", false, log)
	dataDir := utils.GetEnv("DATA_DIR", "data", log)
	rulesFile := utils.GetEnv("RULES_FILE", "", log)
	origins := utils.GetEnv("CORS_ORIGINS", "http://localhost:3000", log)
	return Config{
		Port:        port,
		UseDatabase: useDatabase,
		DataDir:     dataDir,
		RulesFile:   rulesFile,
		CORSOrigins: strings.Split(origins, ","),
	}
}
