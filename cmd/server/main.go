// backend/cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/vendora/backend/internal/api/handlers"
	"github.com/vendora/backend/internal/config"
	"github.com/vendora/backend/internal/database"
	"github.com/vendora/backend/internal/events"
	"github.com/vendora/backend/internal/health"
	"github.com/vendora/backend/internal/middleware"
	"github.com/vendora/backend/internal/repository"
	"github.com/vendora/backend/internal/search"
	"github.com/vendora/backend/internal/services"
	"github.com/vendora/backend/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()
	logger.Info("Starting Vendora search backend...")

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	dbConfig := &database.Config{
		DatabaseURL: cfg.Database.URL,
		RedisURL:    cfg.Redis.URL,
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}

	dbManager, err := database.NewManager(dbConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database manager")
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	repoManager := repository.NewRepositoryManager(dbManager.DB)
	cache := database.NewResponseCache(dbManager.Redis, logger, cfg.Search.CacheTTL)

	bus := events.NewBus(logger)
	analytics := events.NewAnalyticsSubscriber(repoManager.PopularQuery, logger)
	bus.Subscribe(analytics.Handle)

	var aiExtractor search.Extractor
	if cfg.AIEnabled() {
		aiExtractor = search.NewAIExtractor(search.AIConfig{
			APIKey:      cfg.AI.APIKey,
			BaseURL:     cfg.AI.BaseURL,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
		}, logger)
		logger.WithField("model", cfg.AI.Model).Info("AI tag extraction enabled")
	} else {
		logger.Warn("AI_API_KEY not set, search will use manual extraction only")
	}

	searchService := services.NewSearchService(
		repoManager.Product,
		repoManager.Tag,
		repoManager.Category,
		repoManager.SearchQuery,
		cache,
		bus,
		aiExtractor,
		search.NewManualExtractor(),
		cfg.Search.MaxResults,
		logger,
	)

	searchHandler := handlers.NewSearchHandler(searchService, repoManager.PopularQuery, logger)
	checker := health.NewChecker(dbManager, cache, repoManager.SystemHealth, logger, cfg.AI.BaseURL)

	healthCtx, cancelHealth := context.WithCancel(context.Background())
	defer cancelHealth()
	go checker.PeriodicHealthCheck(healthCtx, time.Minute)

	router := setupRouter(searchHandler, checker)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}

func setupRouter(searchHandler *handlers.SearchHandler, checker *health.Checker) *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.SecurityHeaders())

	rateLimiter := middleware.NewRateLimiter(60)
	router.Use(rateLimiter.RateLimit())

	router.GET("/health", func(c *gin.Context) {
		if cached, err := checker.CheckCached(c.Request.Context()); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
		c.JSON(http.StatusOK, checker.CheckAll())
	})
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/search/ai", searchHandler.HandleAISearch)
		v1.GET("/search", searchHandler.HandleKeywordSearch)
		v1.GET("/search/suggestions", searchHandler.HandleSearchSuggestions)
	}

	return router
}
