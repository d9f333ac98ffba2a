package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hrudu-dev/lucid-bi/internal/handlers"
	"github.com/hrudu-dev/lucid-bi/internal/middleware"
)

type RouterConfig struct {
	HealthcheckHandler *handlers.HealthcheckHandler
	AuthHandler        *handlers.AuthHandler
	DataHandler        *handlers.DataHandler
	InsightsHandler    *handlers.InsightsHandler
	QueryHandler       *handlers.QueryHandler
	ActionsHandler     *handlers.ActionsHandler
	DemoDataHandler    *handlers.DemoDataHandler
	SessionMiddleware  *middleware.SessionMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Page gate covers the browser-facing paths; API routes are untouched.
	router.Use(cfg.SessionMiddleware.PageGate())

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)

	auth := router.Group("/api/auth")
	{
		auth.POST("/login", cfg.AuthHandler.Login)
		auth.POST("/signup", cfg.AuthHandler.Signup)
		auth.POST("/logout", cfg.AuthHandler.Logout)
		auth.POST("/forgot-password", cfg.AuthHandler.ForgotPassword)
		auth.POST("/reset-password", cfg.AuthHandler.ResetPassword)
	}

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.SessionMiddleware.RequireSession())
	{
		// Data
		api.POST("/data", cfg.DataHandler.Ingest)
		api.GET("/data", cfg.DataHandler.List)
		api.DELETE("/data", cfg.DataHandler.Delete)
		api.POST("/data/search", cfg.DataHandler.Search)
		// Insights
		api.POST("/insights", cfg.InsightsHandler.Generate)
		api.GET("/insights", cfg.InsightsHandler.List)
		api.GET("/insights/:id", cfg.InsightsHandler.GetByID)
		// Query
		api.POST("/query", cfg.QueryHandler.Execute)
		api.GET("/query", cfg.QueryHandler.SampleQueries)
		// Actions
		api.POST("/actions", cfg.ActionsHandler.Create)
		api.GET("/actions", cfg.ActionsHandler.List)
		// Demo data
		api.POST("/demo-data", cfg.DemoDataHandler.Load)
		api.GET("/demo-data", cfg.DemoDataHandler.Describe)
	}

	return router
}
