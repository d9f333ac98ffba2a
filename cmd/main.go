package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hrudu-dev/lucid-bi/internal/db"
	"github.com/hrudu-dev/lucid-bi/internal/handlers"
	"github.com/hrudu-dev/lucid-bi/internal/logger"
	"github.com/hrudu-dev/lucid-bi/internal/middleware"
	"github.com/hrudu-dev/lucid-bi/internal/repos"
	"github.com/hrudu-dev/lucid-bi/internal/server"
	"github.com/hrudu-dev/lucid-bi/internal/services"
	"github.com/hrudu-dev/lucid-bi/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	resetTokenTTL := utils.GetEnvAsInt("RESET_TOKEN_TTL", 3600, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	businessDataRepo := repos.NewBusinessDataRepo(thePG, log)
	vectorDataRepo := repos.NewVectorDataRepo(thePG, log)
	insightRepo := repos.NewInsightRepo(thePG, log)
	actionRepo := repos.NewActionRepo(thePG, log)
	queryRepo := repos.NewQueryRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	aiClient, err := services.NewAIClient(log)
	if err != nil {
		log.Error("Could not init AIClient", "error", err)
		os.Exit(1)
	}
	slackService := services.NewSlackService(log, services.SlackConfigFromEnv())
	tokenStore := services.NewTokenStore(time.Duration(resetTokenTTL) * time.Second)
	authService := services.NewAuthService(log, services.DefaultDemoUsers(), tokenStore)
	dataService := services.NewDataService(thePG, log, businessDataRepo, vectorDataRepo, aiClient)
	insightService := services.NewInsightService(thePG, log, insightRepo, aiClient)
	actionService := services.NewActionService(thePG, log, actionRepo, insightRepo, slackService)
	queryService := services.NewQueryService(thePG, log, queryRepo, aiClient)
	demoDataService := services.NewDemoDataService(thePG, log, dataService)

	// Handlers
	log.Info("Setting up handlers from main...")
	healthcheckHandler := handlers.NewHealthcheckHandler()
	authHandler := handlers.NewAuthHandler(log, authService)
	dataHandler := handlers.NewDataHandler(log, dataService)
	insightsHandler := handlers.NewInsightsHandler(log, insightService)
	queryHandler := handlers.NewQueryHandler(log, queryService)
	actionsHandler := handlers.NewActionsHandler(log, actionService)
	demoDataHandler := handlers.NewDemoDataHandler(log, demoDataService)

	// Middleware
	log.Info("Setting up middleware from main...")
	sessionMiddleware := middleware.NewSessionMiddleware(log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		HealthcheckHandler: healthcheckHandler,
		AuthHandler:        authHandler,
		DataHandler:        dataHandler,
		InsightsHandler:    insightsHandler,
		QueryHandler:       queryHandler,
		ActionsHandler:     actionsHandler,
		DemoDataHandler:    demoDataHandler,
		SessionMiddleware:  sessionMiddleware,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
